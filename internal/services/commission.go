package services

import (
	"math"

	"apotek/internal/models"
)

// Commission rates by vendor category. Pharmacies get the preferential
// rate; every other category pays the default.
const (
	commissionRatePharmacy = 0.10
	commissionRateDefault  = 0.16
)

// Commission computes the platform's cut of an order total for the given
// vendor category, rounded to 2 decimals. Callers must not pass negative
// amounts.
func Commission(amount float64, vendorType models.VendorType) float64 {
	rate := commissionRateDefault
	if vendorType == models.VendorTypePharmacy {
		rate = commissionRatePharmacy
	}
	return roundMoney(amount * rate)
}

// VendorAmount is the vendor's net payout: the order total minus the
// platform commission.
func VendorAmount(total, commission float64) float64 {
	return roundMoney(total - commission)
}

func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

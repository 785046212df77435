package service

import "storebot/pkg/models"

type PaymentOffer int

const (
	// OfferCash applies cash without telling the buyer anything.
	OfferCash PaymentOffer = iota
	// OfferCashNotice applies cash and shows a cash-only notice first.
	OfferCashNotice
	// OfferChoice lets the buyer pick cash or installment.
	OfferChoice
)

// PaymentOfferFor decides which payment methods a buyer sees. Installments are
// offered only for high school grades, and a referral code narrows that further
// to codes that grant installments themselves.
func PaymentOfferFor(grade models.Grade, ref *models.ReferralCode) PaymentOffer {
	if !grade.HighSchool() {
		return OfferCash
	}
	if ref != nil && !ref.GrantsInstallment(grade) {
		return OfferCashNotice
	}
	return OfferChoice
}

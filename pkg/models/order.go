package models

import "time"

const InstallmentSlots = 3

type Order struct {
	ID                int64       `json:"id"`
	UserID            int64       `json:"user_id"`
	ProductID         int64       `json:"product_id"`
	SellerID          *int64      `json:"seller_id"`
	Status            OrderStatus `json:"status"`
	Installment       bool        `json:"installment"`
	FinalPrice        int         `json:"final_price"`
	FirstInstallment  *time.Time  `json:"first_installment"`
	SecondInstallment *time.Time  `json:"second_installment"`
	ThirdInstallment  *time.Time  `json:"third_installment"`
	ReferralCode      *string     `json:"referral_code"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`

	ProductName string `json:"product_name,omitempty"`
}

type OrderFilter struct {
	UserID      int64
	Installment *bool
}

func (o *Order) PaymentType() PaymentType {
	if o.Installment {
		return PaymentInstallment
	}
	return PaymentCash
}

// Slot returns the paid timestamp of installment slot i (1-based), nil when unpaid.
func (o *Order) Slot(i int) *time.Time {
	switch i {
	case 1:
		return o.FirstInstallment
	case 2:
		return o.SecondInstallment
	case 3:
		return o.ThirdInstallment
	}
	return nil
}

func (o *Order) SetSlot(i int, at time.Time) {
	switch i {
	case 1:
		o.FirstInstallment = &at
	case 2:
		o.SecondInstallment = &at
	case 3:
		o.ThirdInstallment = &at
	}
}

func (o *Order) PaidSlots() int {
	n := 0
	for i := 1; i <= InstallmentSlots; i++ {
		if o.Slot(i) != nil {
			n++
		}
	}
	return n
}

// SlotAmount is the per-slot amount shown in the installment view: a third of
// the final price, truncated.
//
// NOTE: this does not agree with FirstPaymentAmount, which asks for half the
// price at purchase time. Both formulas are kept as they are.
func (o *Order) SlotAmount() int {
	return o.FinalPrice / InstallmentSlots
}

// FirstPaymentAmount is what the buyer is asked to transfer with the purchase
// receipt: the whole price for cash, half of it for installments.
func FirstPaymentAmount(finalPrice int, installment bool) int {
	if installment {
		return finalPrice / 2
	}
	return finalPrice
}

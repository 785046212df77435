package models

import (
	"testing"
	"time"
)

func TestGradeHighSchool(t *testing.T) {
	for _, g := range Grades {
		want := g >= Grade10
		if got := g.HighSchool(); got != want {
			t.Errorf("grade %d high school = %v, want %v", g, got, want)
		}
	}
	if Grade(4).Valid() || Grade(13).Valid() {
		t.Errorf("out of range grade reported valid")
	}
}

func TestReferralGrantsInstallment(t *testing.T) {
	tests := []struct {
		name string
		code ReferralCode
		g    Grade
		want bool
	}{
		{"premium installment top grade", ReferralCode{Product: ReferralAlmas, Installment: true}, Grade12, true},
		{"premium without flag", ReferralCode{Product: ReferralAlmas}, Grade11, false},
		{"non premium with flag", ReferralCode{Product: Referral9, Installment: true}, Grade10, false},
		{"premium low grade", ReferralCode{Product: ReferralAlmas, Installment: true}, Grade9, false},
	}
	for _, tt := range tests {
		if got := tt.code.GrantsInstallment(tt.g); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOrderSlots(t *testing.T) {
	o := &Order{FinalPrice: 1000, Installment: true}
	if o.SlotAmount() != 333 {
		t.Fatalf("slot amount = %d, want 333", o.SlotAmount())
	}
	if FirstPaymentAmount(o.FinalPrice, true) != 500 || FirstPaymentAmount(o.FinalPrice, false) != 1000 {
		t.Fatalf("first payment amounts are off")
	}

	now := time.Now()
	o.SetSlot(3, now)
	o.SetSlot(1, now)
	if o.PaidSlots() != 2 {
		t.Fatalf("paid slots = %d, want 2", o.PaidSlots())
	}
	if o.Slot(2) != nil {
		t.Fatalf("slot 2 should be unpaid")
	}
	if o.Slot(0) != nil || o.Slot(4) != nil {
		t.Fatalf("out of range slots must be nil")
	}
}

func TestLotteryOpen(t *testing.T) {
	max := 2
	now := time.Now()
	l := &Lottery{IsActive: true, MaxParticipants: &max}
	if !l.Open(1, now) {
		t.Fatalf("lottery with room should be open")
	}
	if l.Open(2, now) {
		t.Fatalf("full lottery should be closed")
	}
	l.IsDrawn = true
	if l.Open(0, now) {
		t.Fatalf("drawn lottery should be closed")
	}
}

package models

type Grade int

const (
	Grade5  Grade = 5
	Grade6  Grade = 6
	Grade7  Grade = 7
	Grade8  Grade = 8
	Grade9  Grade = 9
	Grade10 Grade = 10
	Grade11 Grade = 11
	Grade12 Grade = 12
)

var Grades = []Grade{Grade5, Grade6, Grade7, Grade8, Grade9, Grade10, Grade11, Grade12}

// HighSchool reports whether g is one of the three highest grades. Only these
// grades have majors and only these can be bought in installments.
func (g Grade) HighSchool() bool {
	return g == Grade10 || g == Grade11 || g == Grade12
}

func (g Grade) Valid() bool {
	return g >= Grade5 && g <= Grade12
}

type Major string

const (
	MajorMath    Major = "math"
	MajorScience Major = "science"
	MajorLecture Major = "lecture"
	MajorGeneral Major = "general"
)

var Majors = []Major{MajorMath, MajorScience, MajorLecture, MajorGeneral}

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderApproved OrderStatus = "approved"
	OrderRejected OrderStatus = "rejected"
)

type PaymentType string

const (
	PaymentCash        PaymentType = "cash"
	PaymentInstallment PaymentType = "installment"
)

// ReferralProduct is the product category a referral code applies to.
type ReferralProduct string

const (
	ReferralAlmas ReferralProduct = "almas"
	Referral5     ReferralProduct = "5"
	Referral6     ReferralProduct = "6"
	Referral7     ReferralProduct = "7"
	Referral8     ReferralProduct = "8"
	Referral9     ReferralProduct = "9"
)

func (p ReferralProduct) Premium() bool {
	return p == ReferralAlmas
}

func (p ReferralProduct) Valid() bool {
	switch p {
	case ReferralAlmas, Referral5, Referral6, Referral7, Referral8, Referral9:
		return true
	}
	return false
}

type CooperationStatus string

const (
	CooperationPending     CooperationStatus = "pending"
	CooperationReviewed    CooperationStatus = "reviewed"
	CooperationAccepted    CooperationStatus = "accepted"
	CooperationRejected    CooperationStatus = "rejected"
	CooperationInterviewed CooperationStatus = "interviewed"
)

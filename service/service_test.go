package service

import (
	"context"
	"errors"
	"testing"

	"storebot/pkg/apperr"
	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/storage"
	"storebot/storage/memory"
)

type fixture struct {
	stg      *memory.Store
	svc      IServiceManager
	user     *models.User
	senior   *models.Product
	junior   *models.Product
	almas    *models.ReferralCode
	basic    *models.ReferralCode
	inactive *models.ReferralCode
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	stg := memory.New()
	f := &fixture{stg: stg, svc: New(stg, logger.NewNop())}

	var err error
	f.user, err = stg.User().Approve(ctx, models.Registration{
		TelegramID: 100, Username: "buyer", FullName: "علی رضایی", City: "تهران",
		Area: 1, NationalID: "0012345678", Phone: "09121234567",
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	math := models.MajorMath
	if f.senior, err = stg.Product().Upsert(ctx, &models.Product{Name: "بسته الماس دهم", Grade: models.Grade10, Major: &math, Price: 3000000, IsActive: true}); err != nil {
		t.Fatalf("product: %v", err)
	}
	if f.junior, err = stg.Product().Upsert(ctx, &models.Product{Name: "بسته هفتم", Grade: models.Grade7, Price: 1200000, IsActive: true}); err != nil {
		t.Fatalf("product: %v", err)
	}

	seller, err := stg.Referral().UpsertSeller(ctx, &models.Seller{Name: "نماینده", IsActive: true})
	if err != nil {
		t.Fatalf("seller: %v", err)
	}
	code := func(c string, p models.ReferralProduct, inst, active bool) *models.ReferralCode {
		rc, err := stg.Referral().UpsertCode(ctx, &models.ReferralCode{OwnerID: seller.ID, Code: c, Product: p, Installment: inst, IsActive: active})
		if err != nil {
			t.Fatalf("code %s: %v", c, err)
		}
		return rc
	}
	f.almas = code("almas01", models.ReferralAlmas, true, true)
	f.basic = code("basic01", models.Referral7, false, true)
	f.inactive = code("old01", models.ReferralAlmas, true, false)
	return f
}

func receipt(name string) models.File {
	return models.File{FileID: "tg-" + name, Path: "receipts/" + name + ".jpg", Filename: name + ".jpg", FileType: "image/jpeg", FileSize: 2048}
}

func TestPaymentOfferFor(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name  string
		grade models.Grade
		ref   *models.ReferralCode
		want  PaymentOffer
	}{
		{"junior without code", models.Grade7, nil, OfferCash},
		{"junior with almas code", models.Grade9, f.almas, OfferCash},
		{"senior without code", models.Grade10, nil, OfferChoice},
		{"senior with almas code", models.Grade12, f.almas, OfferChoice},
		{"senior with basic code", models.Grade11, f.basic, OfferCashNotice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PaymentOfferFor(tc.grade, tc.ref); got != tc.want {
				t.Fatalf("offer = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPlaceInstallmentOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Order().Place(ctx, PlaceOrder{
		UserID: f.user.ID, ProductID: f.senior.ID, Installment: true, Receipt: receipt("first"),
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if !order.Installment || order.FinalPrice != f.senior.Price {
		t.Fatalf("order = %+v", order)
	}
	if order.FirstInstallment == nil || order.SecondInstallment != nil || order.ThirdInstallment != nil {
		t.Fatalf("slots = %v %v %v", order.FirstInstallment, order.SecondInstallment, order.ThirdInstallment)
	}
	if order.Status != models.OrderPending || order.SellerID != nil || order.ReferralCode != nil {
		t.Fatalf("unexpected attribution: %+v", order)
	}

	c := f.stg.Counts()
	if c.Orders != 1 || c.Files != 1 || c.OrderFiles != 1 {
		t.Fatalf("counts = %+v", c)
	}
}

func TestPlaceOrderRecordsReferralWithoutDiscount(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Order().Place(context.Background(), PlaceOrder{
		UserID: f.user.ID, ProductID: f.senior.ID, ReferralCode: "ALMAS01", Receipt: receipt("cash"),
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if order.FinalPrice != f.senior.Price {
		t.Fatalf("final price = %d, want %d", order.FinalPrice, f.senior.Price)
	}
	if order.SellerID == nil || *order.SellerID != f.almas.OwnerID {
		t.Fatalf("seller = %v", order.SellerID)
	}
	if order.ReferralCode == nil || *order.ReferralCode != "almas01" {
		t.Fatalf("code = %v", order.ReferralCode)
	}
	if order.Installment || order.FirstInstallment != nil {
		t.Fatalf("cash order carries installment data")
	}
}

func TestPlaceOrderRejectsIneligibleInstallment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []PlaceOrder{
		{UserID: f.user.ID, ProductID: f.junior.ID, Installment: true, Receipt: receipt("a")},
		{UserID: f.user.ID, ProductID: f.senior.ID, ReferralCode: "basic01", Installment: true, Receipt: receipt("b")},
	}
	for _, in := range cases {
		_, err := f.svc.Order().Place(ctx, in)
		if !apperr.Is(err, apperr.KindValidation) || !errors.Is(err, ErrInstallmentDenied) {
			t.Fatalf("err = %v", err)
		}
	}
	if c := f.stg.Counts(); c.Orders != 0 || c.Files != 0 {
		t.Fatalf("rejected orders left rows: %+v", c)
	}
}

type failingLink struct{ storage.IStorage }

func (f failingLink) WithTx(ctx context.Context, fn func(tx storage.IStorage) error) error {
	return f.IStorage.WithTx(ctx, func(tx storage.IStorage) error {
		return fn(failingLink{tx})
	})
}

func (f failingLink) Order() storage.IOrderStorage { return failingOrders{f.IStorage.Order()} }

type failingOrders struct{ storage.IOrderStorage }

func (failingOrders) AttachReceipt(context.Context, int64, int64) error {
	return errors.New("link insert failed")
}

func TestPlaceOrderRollsBackWhenLinkFails(t *testing.T) {
	f := newFixture(t)
	orders := NewOrderService(failingLink{f.stg}, logger.NewNop())

	_, err := orders.Place(context.Background(), PlaceOrder{
		UserID: f.user.ID, ProductID: f.junior.ID, Receipt: receipt("lost"),
	})
	if !apperr.Is(err, apperr.KindPersistence) {
		t.Fatalf("err = %v, want persistence", err)
	}
	if c := f.stg.Counts(); c.Orders != 0 || c.Files != 0 || c.OrderFiles != 0 {
		t.Fatalf("partial order left behind: %+v", c)
	}
}

func TestRecordInstallment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.svc.Order().Place(ctx, PlaceOrder{UserID: f.user.ID, ProductID: f.senior.ID, Installment: true, Receipt: receipt("p1")})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	// Slot three before slot two is accepted.
	updated, err := f.svc.Order().RecordInstallment(ctx, RecordInstallment{UserID: f.user.ID, OrderID: order.ID, Slot: 3, Receipt: receipt("p3")})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if updated.ThirdInstallment == nil || updated.SecondInstallment != nil || updated.PaidSlots() != 2 {
		t.Fatalf("slots after upload = %d", updated.PaidSlots())
	}
	ids, _ := f.stg.Order().ReceiptIDs(ctx, order.ID)
	if len(ids) != 2 {
		t.Fatalf("receipts = %v", ids)
	}

	_, err = f.svc.Order().RecordInstallment(ctx, RecordInstallment{UserID: f.user.ID + 1, OrderID: order.ID, Slot: 2, Receipt: receipt("x")})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("foreign order err = %v", err)
	}
	_, err = f.svc.Order().RecordInstallment(ctx, RecordInstallment{UserID: f.user.ID, OrderID: order.ID, Slot: 4, Receipt: receipt("x")})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("slot 4 err = %v", err)
	}
}

func TestRecordInstallmentOnCashOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.svc.Order().Place(ctx, PlaceOrder{UserID: f.user.ID, ProductID: f.junior.ID, Receipt: receipt("cash")})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	_, err = f.svc.Order().RecordInstallment(ctx, RecordInstallment{UserID: f.user.ID, OrderID: order.ID, Slot: 2, Receipt: receipt("x")})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v", err)
	}
	if c := f.stg.Counts(); c.Files != 1 {
		t.Fatalf("files = %d", c.Files)
	}
}

func TestLookupReferral(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if ref, err := f.svc.Order().LookupReferral(ctx, "almas01"); err != nil || ref == nil {
		t.Fatalf("active code: %v %v", ref, err)
	}
	for _, code := range []string{"old01", "missing"} {
		if ref, err := f.svc.Order().LookupReferral(ctx, code); err != nil || ref != nil {
			t.Fatalf("%s: %v %v", code, ref, err)
		}
	}
}

func TestCompleteRegistrationConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := models.Registration{
		TelegramID: 200, Username: "second", FullName: "مریم احمدی", City: "تهران",
		Area: 2, NationalID: "0098765432", Phone: *f.user.Phone,
	}
	_, err := f.svc.User().CompleteRegistration(ctx, reg)
	if !apperr.Is(err, apperr.KindConflict) || !errors.Is(err, storage.ErrPhoneTaken) {
		t.Fatalf("phone err = %v", err)
	}

	reg.Phone = "09351112233"
	reg.NationalID = *f.user.NationalID
	_, err = f.svc.User().CompleteRegistration(ctx, reg)
	if !errors.Is(err, storage.ErrNationalIDTaken) {
		t.Fatalf("national id err = %v", err)
	}

	reg.NationalID = "0098765432"
	u, err := f.svc.User().CompleteRegistration(ctx, reg)
	if err != nil || !u.Approved {
		t.Fatalf("register: %v %+v", err, u)
	}
	if _, err := f.svc.User().RequireApproved(ctx, 200); err != nil {
		t.Fatalf("require approved: %v", err)
	}
	if _, err := f.svc.User().RequireApproved(ctx, 999); !apperr.Is(err, apperr.KindAuthorization) {
		t.Fatalf("stranger err = %v", err)
	}
}

func TestLotteryJoin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	limit := 1
	a, _ := f.stg.Lottery().Upsert(ctx, &models.Lottery{Name: "قرعه کشی پاییز", IsActive: true})
	b, _ := f.stg.Lottery().Upsert(ctx, &models.Lottery{Name: "قرعه کشی زمستان", IsActive: true, MaxParticipants: &limit})

	join := func(l *models.Lottery, teleID int64) error {
		_, err := f.svc.Lottery().Join(ctx, JoinLottery{LotteryID: l.ID, TelegramID: teleID, Phone: "09121234567"})
		return err
	}
	if err := join(a, 100); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := join(b, 100); err != nil {
		t.Fatalf("join b: %v", err)
	}

	if _, err := f.svc.Lottery().Select(ctx, 100, a.Name); !errors.Is(err, storage.ErrAlreadyParticipant) {
		t.Fatalf("select joined lottery err = %v", err)
	}
	if err := join(a, 100); !apperr.Is(err, apperr.KindConflict) || !errors.Is(err, storage.ErrAlreadyParticipant) {
		t.Fatalf("second join err = %v", err)
	}
	if _, err := f.svc.Lottery().Select(ctx, 300, b.Name); !errors.Is(err, ErrLotteryClosed) {
		t.Fatalf("full lottery err = %v", err)
	}
	if l, err := f.svc.Lottery().Select(ctx, 300, "ناموجود"); l != nil || err != nil {
		t.Fatalf("unknown lottery: %v %v", l, err)
	}
}

func TestCRMAndCooperationResubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, created, err := f.svc.CRM().Request(ctx, "09121234567"); err != nil || !created {
		t.Fatalf("first request: %v %v", created, err)
	}
	f.stg.MarkCalled("09121234567", "called back")
	req, created, err := f.svc.CRM().Request(ctx, "09121234567")
	if err != nil || created {
		t.Fatalf("second request: %v %v", created, err)
	}
	if req.Called || req.Notes != nil || req.Priority != 1 {
		t.Fatalf("request not reset: %+v", req)
	}

	coop := &models.Cooperation{TelegramID: 100, Phone: "09121234567", City: "تهران", ResumeText: "سابقه تدریس"}
	if _, _, err := f.svc.Cooperation().Submit(ctx, coop); err != nil {
		t.Fatalf("submit: %v", err)
	}
	f.stg.SetCooperationStatus(100, models.CooperationRejected)
	again, created, err := f.svc.Cooperation().Submit(ctx, coop)
	if err != nil || created || again.Status != models.CooperationPending {
		t.Fatalf("resubmit: %+v %v %v", again, created, err)
	}

	d, err := f.svc.Digest().Build(ctx)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if d.OpenCRM != 1 || d.PendingCooperation != 1 || d.ApprovedUsers != 1 {
		t.Fatalf("digest = %+v", d)
	}
}

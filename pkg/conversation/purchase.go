package conversation

import (
	"context"
	"fmt"
	"path"

	"storebot/pkg/apperr"
	"storebot/pkg/metrics"
	"storebot/pkg/models"
	"storebot/pkg/notify"
	"storebot/pkg/validation"
	"storebot/service"
)

const (
	flowPurchase = "purchase"

	stepReferral     = "referral"
	stepReferralCode = "referral_code"
	stepPayment      = "payment"
	stepProof        = "proof"

	keyUserID    = "user_id"
	keyProductID = "product_id"
	keyReferral  = "referral"
	keyPayment   = "payment"
)

// notRegistered is the dead end shown to buyers who have not registered.
func notRegistered() Reply {
	return Reply{
		Text: msgNotRegistered,
		Buttons: [][]Button{
			{{Text: btnRegister, Data: cbAuthorize}},
			{{Text: btnNotSure, Data: cbNotSure}},
			{{Text: btnBackToMenu, Data: cbBackToMenu}},
		},
	}
}

// approvedUser returns the approved user behind t, or nil after replying with
// the registration dead end.
func (e *Engine) approvedUser(ctx context.Context, t *turn) (*models.User, error) {
	u, err := e.svc.User().RequireApproved(ctx, t.in.UserID)
	if apperr.Is(err, apperr.KindAuthorization) {
		t.reply(notRegistered())
		return nil, nil
	}
	return u, err
}

func (e *Engine) startPurchase(ctx context.Context, t *turn, productID int64) error {
	u, err := e.approvedUser(ctx, t)
	if u == nil || err != nil {
		return err
	}
	p, err := e.svc.Catalog().Product(ctx, productID)
	if apperr.Is(err, apperr.KindNotFound) {
		t.send(msgProductNotFound)
		t.reply(mainMenu())
		return nil
	}
	if err != nil {
		return err
	}

	t.s.Start(flowPurchase, stepReferral)
	t.s.SetInt64(keyUserID, u.ID)
	t.s.SetInt64(keyProductID, p.ID)
	metrics.Flow(flowPurchase, metrics.OutcomeStarted)
	t.reply(referralPrompt())
	return nil
}

func referralPrompt() Reply {
	return Reply{Text: msgAskReferral, Keyboard: [][]string{{btnHaveReferral}, {btnNoReferral}}}
}

func (e *Engine) purchaseStep(ctx context.Context, t *turn) error {
	switch t.s.Step {
	case stepReferral:
		switch t.in.Text {
		case btnHaveReferral:
			t.s.Step = stepReferralCode
			t.reply(Reply{Text: msgEnterReferral, RemoveKeyboard: true})
		case btnNoReferral:
			return e.offerPayment(ctx, t, nil)
		default:
			t.reply(referralPrompt())
		}

	case stepReferralCode:
		ref, err := e.lookupReferral(ctx, t.in.Text)
		if err != nil {
			return err
		}
		if ref == nil {
			t.send(msgInvalidReferral)
			return nil
		}
		t.s.Set(keyReferral, ref.Code)
		return e.offerPayment(ctx, t, ref)

	case stepPayment:
		switch t.in.Text {
		case btnInstallment:
			return e.askProof(ctx, t, true, true)
		case btnCash:
			return e.askProof(ctx, t, false, true)
		}
		t.send(msgInvalidPayment)

	case stepProof:
		if t.in.Photo == nil {
			t.send(msgPhotoOnly)
			return nil
		}
		return e.placeOrder(ctx, t)
	}
	return nil
}

func (e *Engine) lookupReferral(ctx context.Context, input string) (*models.ReferralCode, error) {
	code, ok := validation.ReferralCode(input)
	if !ok {
		return nil, nil
	}
	return e.svc.Order().LookupReferral(ctx, code)
}

func (e *Engine) purchaseProduct(ctx context.Context, t *turn) (*models.Product, error) {
	id, _ := t.s.Int64(keyProductID)
	return e.svc.Catalog().Product(ctx, id)
}

// offerPayment applies the installment rules: a choice for high school grades,
// narrowed to cash with a notice when the referral code does not grant
// installments, and plain cash for every other grade.
func (e *Engine) offerPayment(ctx context.Context, t *turn, ref *models.ReferralCode) error {
	p, err := e.purchaseProduct(ctx, t)
	if err != nil {
		return err
	}

	switch service.PaymentOfferFor(p.Grade, ref) {
	case service.OfferChoice:
		t.s.Step = stepPayment
		t.reply(Reply{Text: msgSelectPayment, Keyboard: [][]string{{btnInstallment}, {btnCash}}})
		return nil
	case service.OfferCashNotice:
		t.reply(Reply{Text: msgInstallmentNotAllowed, Keyboard: [][]string{{btnBackToMenu}}})
		return e.askProof(ctx, t, false, false)
	}
	return e.askProof(ctx, t, false, true)
}

func (e *Engine) askProof(ctx context.Context, t *turn, installment, removeKeyboard bool) error {
	p, err := e.purchaseProduct(ctx, t)
	if err != nil {
		return err
	}

	payment := models.PaymentCash
	text := fmt.Sprintf(msgPayCash, formatPrice(models.FirstPaymentAmount(p.Price, false)), e.opts.CardNumber, e.opts.CardHolder)
	if installment {
		payment = models.PaymentInstallment
		text = fmt.Sprintf(msgPayInstallment, formatPrice(models.FirstPaymentAmount(p.Price, true)), e.opts.CardNumber, e.opts.CardHolder)
	}
	t.s.Set(keyPayment, string(payment))
	t.s.Step = stepProof
	t.reply(Reply{Text: text, RemoveKeyboard: removeKeyboard})
	return nil
}

// storeReceipt downloads the attached photo and saves it. The saved file is
// not removed if a later step fails.
func (e *Engine) storeReceipt(ctx context.Context, t *turn, hint string) (models.File, error) {
	data, err := t.in.Photo.Fetch(ctx)
	if err != nil {
		return models.File{}, apperr.E(apperr.KindExternal, "receipt.fetch", err)
	}
	ref, err := e.files.Save(ctx, hint, data)
	if err != nil {
		return models.File{}, apperr.E(apperr.KindExternal, "receipt.save", err)
	}
	return models.File{
		FileID:   t.in.Photo.FileID,
		Path:     ref,
		Filename: path.Base(ref),
		FileType: "image/jpeg",
		FileSize: int64(len(data)),
	}, nil
}

func (e *Engine) placeOrder(ctx context.Context, t *turn) error {
	receipt, err := e.storeReceipt(ctx, t, "receipts")
	if err != nil {
		return err
	}

	userID, _ := t.s.Int64(keyUserID)
	productID, _ := t.s.Int64(keyProductID)
	order, err := e.svc.Order().Place(ctx, service.PlaceOrder{
		UserID:       userID,
		ProductID:    productID,
		ReferralCode: t.s.Get(keyReferral, ""),
		Installment:  t.s.Get(keyPayment, "") == string(models.PaymentInstallment),
		Receipt:      receipt,
	})
	if err != nil {
		return err
	}

	metrics.OrdersCreated.WithLabelValues(string(order.PaymentType())).Inc()
	e.finish(t)
	t.send(msgOrderSuccess)
	t.reply(mainMenu())

	referral := ""
	if order.ReferralCode != nil {
		referral = *order.ReferralCode
	}
	e.notify(ctx, notify.Order, notify.Fields{
		"product":  order.ProductName,
		"user":     userLabel(t.in),
		"price":    formatPrice(order.FinalPrice),
		"payment":  paymentLabel(order.PaymentType()),
		"referral": referral,
		"order_id": fmt.Sprint(order.ID),
	})
	return nil
}

func paymentLabel(p models.PaymentType) string {
	if p == models.PaymentInstallment {
		return "قسطی"
	}
	return "نقدی"
}

package conversation

import (
	"context"
	"fmt"

	"storebot/pkg/apperr"
	"storebot/pkg/metrics"
	"storebot/pkg/models"
	"storebot/pkg/notify"
	"storebot/service"
)

const (
	flowInstallment = "installment"

	stepReceipt = "receipt"

	keyOrderID = "order_id"
	keySlot    = "slot"
)

func (e *Engine) showInstallments(ctx context.Context, t *turn) error {
	u, err := e.approvedUser(ctx, t)
	if u == nil || err != nil {
		return err
	}
	orders, err := e.svc.Order().InstallmentOrders(ctx, u.ID)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		t.send(msgNoInstallments)
		t.reply(mainMenu())
		return nil
	}

	rows := make([][]Button, 0, len(orders)+1)
	for _, o := range orders {
		rows = append(rows, []Button{{
			Text: fmt.Sprintf("💎 %s - %d/%d", o.ProductName, o.PaidSlots(), models.InstallmentSlots),
			Data: fmt.Sprintf("%s%d", cbOrder, o.ID),
		}})
	}
	rows = append(rows, []Button{{Text: btnBackToMenu, Data: cbBackToMenu}})
	t.reply(Reply{Text: msgSelectInstallment, Buttons: rows})
	return nil
}

// installmentOrder returns an installment order of the approved user, or nil
// after telling the user it does not exist.
func (e *Engine) installmentOrder(ctx context.Context, t *turn, orderID int64) (*models.Order, error) {
	u, err := e.approvedUser(ctx, t)
	if u == nil || err != nil {
		return nil, err
	}
	o, err := e.svc.Order().UserOrder(ctx, u.ID, orderID)
	if apperr.Is(err, apperr.KindNotFound) || (err == nil && !o.Installment) {
		t.send(msgOrderNotFound)
		return nil, nil
	}
	return o, err
}

// showInstallmentOrder renders each slot as paid with its date or as an
// upload button.
func (e *Engine) showInstallmentOrder(ctx context.Context, t *turn, orderID int64) error {
	o, err := e.installmentOrder(ctx, t, orderID)
	if o == nil || err != nil {
		return err
	}

	text := fmt.Sprintf(msgInstallmentDetails,
		o.ProductName, formatPrice(o.FinalPrice), models.InstallmentSlots, formatPrice(o.SlotAmount()))
	rows := make([][]Button, 0, models.InstallmentSlots+1)
	for i := 1; i <= models.InstallmentSlots; i++ {
		if at := o.Slot(i); at != nil {
			rows = append(rows, []Button{{Text: fmt.Sprintf(msgSlotPaid, i, at.Format("2006/01/02")), Data: cbIgnore}})
			continue
		}
		rows = append(rows, []Button{{Text: fmt.Sprintf(msgSlotUnpaid, i), Data: fmt.Sprintf("%s%d_%d", cbUpload, o.ID, i)}})
	}
	rows = append(rows, []Button{{Text: btnBackToMenu, Data: cbBackToMenu}})
	t.reply(Reply{Text: text, Buttons: rows})
	return nil
}

// startInstallmentUpload waits for the receipt of one slot. Earlier slots do
// not have to be paid first.
func (e *Engine) startInstallmentUpload(ctx context.Context, t *turn, orderID int64, slot int) error {
	if slot < 1 || slot > models.InstallmentSlots {
		t.send(msgInvalidInput)
		return nil
	}
	o, err := e.installmentOrder(ctx, t, orderID)
	if o == nil || err != nil {
		return err
	}
	u, err := e.svc.User().Get(ctx, t.in.UserID)
	if err != nil {
		return err
	}

	t.s.Start(flowInstallment, stepReceipt)
	t.s.SetInt64(keyUserID, u.ID)
	t.s.SetInt64(keyOrderID, o.ID)
	t.s.Set(keySlot, fmt.Sprint(slot))
	metrics.Flow(flowInstallment, metrics.OutcomeStarted)
	t.reply(Reply{Text: fmt.Sprintf(msgUploadReceipt, slot), RemoveKeyboard: true})
	return nil
}

func (e *Engine) installmentStep(ctx context.Context, t *turn) error {
	if t.s.Step != stepReceipt {
		return nil
	}
	if t.in.Photo == nil {
		t.send(msgPhotoOnly)
		return nil
	}

	userID, _ := t.s.Int64(keyUserID)
	orderID, _ := t.s.Int64(keyOrderID)
	slot64, _ := t.s.Int64(keySlot)
	slot := int(slot64)

	receipt, err := e.storeReceipt(ctx, t, fmt.Sprintf("installments-%d", orderID))
	if err != nil {
		return err
	}
	o, err := e.svc.Order().RecordInstallment(ctx, service.RecordInstallment{
		UserID:  userID,
		OrderID: orderID,
		Slot:    slot,
		Receipt: receipt,
	})
	if err != nil {
		return err
	}

	metrics.InstallmentsRecorded.WithLabelValues(fmt.Sprint(slot)).Inc()
	e.finish(t)
	t.send(fmt.Sprintf(msgReceiptUploaded, slot))
	t.reply(mainMenu())

	e.notify(ctx, notify.Installment, notify.Fields{
		"product":  o.ProductName,
		"user":     userLabel(t.in),
		"slot":     fmt.Sprint(slot),
		"order_id": fmt.Sprint(o.ID),
	})
	return nil
}

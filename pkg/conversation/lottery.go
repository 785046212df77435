package conversation

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"storebot/pkg/metrics"
	"storebot/pkg/models"
	"storebot/pkg/notify"
	"storebot/service"
	"storebot/storage"
)

const (
	flowLottery = "lottery"

	stepLotterySelect = "select"
	stepLotteryPhone  = "phone"
	stepLotteryOTP    = "otp"

	keyLotteryID   = "lottery_id"
	keyLotteryName = "lottery_name"
	keyLotteryDesc = "lottery_description"
)

var lotteryGate = otpGate{
	codeStep: stepLotteryOTP,
	policy:   AbortOnMismatch,
	invalid:  msgInvalidPhone,
	mismatch: msgLotteryOTPMismatch,
}

func (e *Engine) startLottery(ctx context.Context, t *turn) error {
	lotteries, err := e.svc.Lottery().Active(ctx)
	if err != nil {
		return err
	}
	if len(lotteries) == 0 {
		t.send(msgNoLottery)
		t.reply(mainMenu())
		return nil
	}

	t.s.Start(flowLottery, stepLotterySelect)
	metrics.Flow(flowLottery, metrics.OutcomeStarted)
	t.reply(Reply{Text: msgSelectLottery, Keyboard: lotteryKeyboard(lotteries)})
	return nil
}

func lotteryKeyboard(lotteries []*models.Lottery) [][]string {
	names := make([]string, 0, len(lotteries))
	for _, l := range lotteries {
		names = append(names, l.Name)
	}
	return column(names, true)
}

func (e *Engine) lotteryStep(ctx context.Context, t *turn) error {
	switch t.s.Step {
	case stepLotterySelect:
		l, err := e.svc.Lottery().Select(ctx, t.in.UserID, t.in.Text)
		if e.lotteryRefused(t, l, err) {
			return nil
		}
		if err != nil {
			return err
		}
		if l == nil {
			t.send(msgLotteryNotFound)
			return nil
		}
		t.s.SetInt64(keyLotteryID, l.ID)
		t.s.Set(keyLotteryName, l.Name)
		t.s.Set(keyLotteryDesc, l.Description)
		t.s.Step = stepLotteryPhone
		t.reply(Reply{Text: fmt.Sprintf(msgLotteryAskPhone, l.Name, l.Description), RemoveKeyboard: true})

	case stepLotteryPhone:
		return e.askCode(ctx, t, lotteryGate, e.lotteryStillOpen)

	case stepLotteryOTP:
		if !e.verifyCode(t, lotteryGate) {
			return nil
		}
		return e.joinLottery(ctx, t)
	}
	return nil
}

// lotteryStillOpen repeats the selection checks right before the code is sent.
func (e *Engine) lotteryStillOpen(ctx context.Context, t *turn, _ string) (bool, error) {
	l, err := e.svc.Lottery().Select(ctx, t.in.UserID, t.s.Get(keyLotteryName, ""))
	if e.lotteryRefused(t, l, err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if l == nil {
		e.abandon(t)
		t.send(msgNoLottery)
		t.reply(mainMenu())
		return false, nil
	}
	return true, nil
}

// lotteryRefused ends the flow when err says the user may not join l.
func (e *Engine) lotteryRefused(t *turn, l *models.Lottery, err error) bool {
	var text string
	switch {
	case errors.Is(err, storage.ErrAlreadyParticipant):
		text = fmt.Sprintf(msgLotteryJoined, l.Name, l.Description)
	case errors.Is(err, service.ErrLotteryClosed):
		text = fmt.Sprintf(msgLotteryClosed, l.Name)
	default:
		return false
	}
	e.abandon(t)
	t.send(text)
	t.reply(mainMenu())
	return true
}

func (e *Engine) joinLottery(ctx context.Context, t *turn) error {
	id, _ := t.s.Int64(keyLotteryID)
	name := t.s.Get(keyLotteryName, "")
	phone := t.s.Get(keyPhone, "")

	_, err := e.svc.Lottery().Join(ctx, service.JoinLottery{
		LotteryID:  id,
		TelegramID: t.in.UserID,
		Username:   t.in.Username,
		Phone:      phone,
	})
	if err != nil {
		if e.lotteryRefused(t, &models.Lottery{ID: id, Name: name, Description: t.s.Get(keyLotteryDesc, "")}, err) {
			return nil
		}
		return err
	}

	e.finish(t)
	t.send(fmt.Sprintf(msgLotterySuccess, name, phone, name))
	t.reply(mainMenu())

	e.notify(ctx, notify.Lottery, notify.Fields{
		"lottery": name,
		"user":    userLabel(t.in),
		"phone":   phone,
	})
	return nil
}

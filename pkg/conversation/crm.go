package conversation

import (
	"context"

	"storebot/pkg/metrics"
	"storebot/pkg/notify"
)

const (
	flowCRM = "crm"

	stepCRMPhone = "phone"
	stepCRMOTP   = "otp"
)

var crmGate = otpGate{
	codeStep: stepCRMOTP,
	policy:   AbortOnMismatch,
	invalid:  msgInvalidPhone,
	mismatch: msgCRMOTPMismatch,
}

// startCRM asks for a phone number for a free consultation. notSure adds the
// guidance shown to buyers who are not ready to register.
func (e *Engine) startCRM(_ context.Context, t *turn, notSure bool) error {
	t.s.Start(flowCRM, stepCRMPhone)
	metrics.Flow(flowCRM, metrics.OutcomeStarted)
	if notSure {
		t.send(msgCRMNotSure)
	}
	t.reply(Reply{Text: msgCRMAskPhone, RemoveKeyboard: true})
	return nil
}

func (e *Engine) crmStep(ctx context.Context, t *turn) error {
	switch t.s.Step {
	case stepCRMPhone:
		return e.askCode(ctx, t, crmGate, nil)
	case stepCRMOTP:
		if !e.verifyCode(t, crmGate) {
			return nil
		}
		phone := t.s.Get(keyPhone, "")
		if _, _, err := e.svc.CRM().Request(ctx, phone); err != nil {
			return err
		}

		e.finish(t)
		t.send(msgCRMSuccess)
		t.reply(mainMenu())
		e.notify(ctx, notify.CRM, notify.Fields{
			"user":  userLabel(t.in),
			"phone": phone,
		})
	}
	return nil
}

package conversation

import (
	"context"

	"storebot/pkg/apperr"
	"storebot/pkg/metrics"
	"storebot/pkg/validation"
)

// MismatchPolicy decides what a wrong code does to the flow.
type MismatchPolicy int

const (
	// AbortOnMismatch ends the flow. The user starts over from the menu.
	AbortOnMismatch MismatchPolicy = iota
	// RepromptOnMismatch keeps waiting for the right code.
	RepromptOnMismatch
)

const (
	keyPhone = "phone"
	keyOTP   = "otp"
)

// otpGate is the phone then code sub-flow shared by registration, lottery,
// consultation and cooperation. Codes do not expire.
type otpGate struct {
	codeStep string
	policy   MismatchPolicy
	invalid  string
	mismatch string
}

// admit runs before the code is sent. It returns false when it already
// answered the user and the code must not be sent.
type admit func(ctx context.Context, t *turn, phone string) (bool, error)

// askCode validates the phone in t and sends it a code. An invalid number is
// asked again. A failed dispatch ends the flow.
func (e *Engine) askCode(ctx context.Context, t *turn, g otpGate, check admit) error {
	phone, ok := validation.Phone(t.in.Text)
	if !ok {
		t.send(g.invalid)
		return nil
	}
	if check != nil {
		proceed, err := check(ctx, t, phone)
		if err != nil || !proceed {
			return err
		}
	}

	code, err := e.otp.Send(ctx, phone)
	if err != nil {
		metrics.OTPSent.WithLabelValues("error").Inc()
		return apperr.E(apperr.KindExternal, "otp.send", err)
	}
	metrics.OTPSent.WithLabelValues("ok").Inc()

	t.s.Set(keyPhone, phone)
	t.s.Set(keyOTP, code)
	t.s.Step = g.codeStep
	t.send(msgOTPSent)
	return nil
}

// verifyCode reports whether t carries the code sent by askCode. On a mismatch
// the gate's policy either ends the flow or keeps the code step.
func (e *Engine) verifyCode(t *turn, g otpGate) bool {
	if validation.OTP(t.in.Text, t.s.Get(keyOTP, "")) {
		t.s.Del(keyOTP)
		return true
	}

	t.send(g.mismatch)
	if g.policy == AbortOnMismatch {
		e.abandon(t)
		t.reply(mainMenu())
	}
	return false
}

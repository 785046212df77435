package conversation

import (
	"context"
	"fmt"

	"storebot/pkg/metrics"
	"storebot/pkg/models"
	"storebot/pkg/notify"
	"storebot/pkg/validation"
)

const (
	flowCooperation = "cooperation"

	stepCoopPhone  = "phone"
	stepCoopOTP    = "otp"
	stepCoopCity   = "city"
	stepCoopResume = "resume"

	resumeNotifyLimit = 1000
)

// Applicants may retry the code as often as they like.
var cooperationGate = otpGate{
	codeStep: stepCoopOTP,
	policy:   RepromptOnMismatch,
	invalid:  msgInvalidPhone,
	mismatch: msgCoopOTPMismatch,
}

func (e *Engine) startCooperation(_ context.Context, t *turn) error {
	t.s.Start(flowCooperation, stepCoopPhone)
	metrics.Flow(flowCooperation, metrics.OutcomeStarted)
	t.reply(Reply{Text: msgCoopIntro, RemoveKeyboard: true})
	return nil
}

func (e *Engine) cooperationStep(ctx context.Context, t *turn) error {
	switch t.s.Step {
	case stepCoopPhone:
		return e.askCode(ctx, t, cooperationGate, nil)

	case stepCoopOTP:
		if !e.verifyCode(t, cooperationGate) {
			return nil
		}
		t.s.Step = stepCoopCity
		t.send(msgCoopAskCity)

	case stepCoopCity:
		city, ok := validation.City(t.in.Text, nil)
		if !ok {
			t.send(msgCoopInvalidCity)
			return nil
		}
		t.s.Set(keyCity, city)
		t.s.Step = stepCoopResume
		t.send(msgCoopAskResume)

	case stepCoopResume:
		if t.in.Text == "" {
			if t.in.Photo != nil || t.in.Document {
				t.send(msgCoopTextOnly)
			}
			return nil
		}
		resume, ok := validation.Resume(t.in.Text, e.opts.ResumeMinLength)
		if !ok {
			t.send(fmt.Sprintf(msgCoopResumeShort, e.opts.ResumeMinLength))
			return nil
		}
		return e.submitCooperation(ctx, t, resume)
	}
	return nil
}

func (e *Engine) submitCooperation(ctx context.Context, t *turn, resume string) error {
	coop, created, err := e.svc.Cooperation().Submit(ctx, &models.Cooperation{
		TelegramID: t.in.UserID,
		Username:   t.in.Username,
		Phone:      t.s.Get(keyPhone, ""),
		City:       t.s.Get(keyCity, ""),
		ResumeText: resume,
	})
	if err != nil {
		return err
	}

	e.finish(t)
	if created {
		t.send(msgCoopSuccess)
	} else {
		t.send(msgCoopUpdated)
	}
	t.reply(mainMenu())

	e.notify(ctx, notify.Cooperation, notify.Fields{
		"user":   userLabel(t.in),
		"phone":  coop.Phone,
		"city":   coop.City,
		"resume": validation.SanitizeText(coop.ResumeText, resumeNotifyLimit),
	})
	return nil
}

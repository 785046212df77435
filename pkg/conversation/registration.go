package conversation

import (
	"context"
	"strconv"

	"storebot/pkg/metrics"
	"storebot/pkg/models"
	"storebot/pkg/notify"
	"storebot/pkg/validation"
)

const (
	flowRegistration = "registration"

	stepRegName       = "name"
	stepRegCity       = "city"
	stepRegArea       = "area"
	stepRegNationalID = "national_id"
	stepRegPhone      = "phone"
	stepRegOTP        = "otp"

	keyFullName   = "full_name"
	keyCity       = "city"
	keyArea       = "area"
	keyNationalID = "national_id"
)

var registrationGate = otpGate{
	codeStep: stepRegOTP,
	policy:   AbortOnMismatch,
	invalid:  msgInvalidPhone,
	mismatch: msgRegistrationOTP,
}

func (e *Engine) startRegistration(ctx context.Context, t *turn) error {
	u, err := e.svc.User().Get(ctx, t.in.UserID)
	if err != nil {
		return err
	}
	if u != nil && u.Approved {
		t.send(msgAlreadyRegistered)
		t.reply(mainMenu())
		return nil
	}

	t.s.Start(flowRegistration, stepRegName)
	metrics.Flow(flowRegistration, metrics.OutcomeStarted)
	t.reply(Reply{Text: msgAskName, RemoveKeyboard: true})
	return nil
}

func (e *Engine) registrationStep(ctx context.Context, t *turn) error {
	switch t.s.Step {
	case stepRegName:
		name, ok := validation.Name(t.in.Text)
		if !ok {
			t.send(msgInvalidName)
			return nil
		}
		t.s.Set(keyFullName, name)
		t.s.Step = stepRegCity
		t.reply(Reply{Text: msgAskCity, Keyboard: column(e.opts.AllowedCities, false)})

	case stepRegCity:
		city, ok := validation.City(t.in.Text, e.opts.AllowedCities)
		if !ok {
			t.send(msgInvalidCity)
			return nil
		}
		t.s.Set(keyCity, city)
		t.s.Step = stepRegArea
		t.reply(Reply{Text: msgAskArea, RemoveKeyboard: true})

	case stepRegArea:
		area, ok := validation.Area(t.in.Text)
		if !ok {
			t.send(msgInvalidArea)
			return nil
		}
		t.s.Set(keyArea, strconv.Itoa(area))
		t.s.Step = stepRegNationalID
		t.send(msgAskNationalID)

	case stepRegNationalID:
		id, ok := validation.NationalID(t.in.Text)
		if !ok {
			t.send(msgInvalidNationalID)
			return nil
		}
		t.s.Set(keyNationalID, id)
		t.s.Step = stepRegPhone
		t.send(msgAskPhone)

	case stepRegPhone:
		return e.askCode(ctx, t, registrationGate, e.phoneFree)

	case stepRegOTP:
		if !e.verifyCode(t, registrationGate) {
			return nil
		}
		return e.completeRegistration(ctx, t)
	}
	return nil
}

// phoneFree keeps the user on the phone step while another account holds the number.
func (e *Engine) phoneFree(ctx context.Context, t *turn, phone string) (bool, error) {
	free, err := e.svc.User().PhoneAvailable(ctx, t.in.UserID, phone)
	if err != nil {
		return false, err
	}
	if !free {
		t.send(msgPhoneTaken)
	}
	return free, nil
}

func (e *Engine) completeRegistration(ctx context.Context, t *turn) error {
	area, _ := strconv.Atoi(t.s.Get(keyArea, ""))
	reg := models.Registration{
		TelegramID: t.in.UserID,
		Username:   t.in.Username,
		FullName:   t.s.Get(keyFullName, ""),
		City:       t.s.Get(keyCity, ""),
		Area:       area,
		NationalID: t.s.Get(keyNationalID, ""),
		Phone:      t.s.Get(keyPhone, ""),
	}
	if _, err := e.svc.User().CompleteRegistration(ctx, reg); err != nil {
		return err
	}

	e.finish(t)
	t.send(msgRegistrationSuccess)
	t.reply(mainMenu())

	e.notify(ctx, notify.Registration, notify.Fields{
		"full_name": reg.FullName,
		"user":      userLabel(t.in),
		"phone":     reg.Phone,
		"city":      reg.City,
		"area":      strconv.Itoa(reg.Area),
	})
	return nil
}

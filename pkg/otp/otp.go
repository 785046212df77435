// Package otp sends one-time verification codes by SMS.
package otp

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"storebot/pkg/logger"
)

// Gateway dispatches a fresh code to phone and returns it so the caller can
// compare it with what the user types back.
type Gateway interface {
	Send(ctx context.Context, phone string) (string, error)
}

// Sender delivers an already generated code.
type Sender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// Generate returns a random numeric code of the given length. It is a shared
// secret shown to the user, not a security token.
func Generate(length int) string {
	if length < 1 {
		length = 4
	}
	low := 1
	for i := 1; i < length; i++ {
		low *= 10
	}
	return strconv.Itoa(low + rand.Intn(9*low))
}

type SMSGateway struct {
	sender Sender
	length int
	log    logger.ILogger
}

func NewSMSGateway(sender Sender, length int, log logger.ILogger) *SMSGateway {
	return &SMSGateway{sender: sender, length: length, log: log}
}

func (g *SMSGateway) Send(ctx context.Context, phone string) (string, error) {
	code := Generate(g.length)
	if err := g.sender.SendCode(ctx, phone, code); err != nil {
		g.log.Error("failed to send otp", logger.String("phone", phone), logger.Error(err))
		return "", fmt.Errorf("send otp: %w", err)
	}
	g.log.Info("otp sent", logger.String("phone", phone))
	return code, nil
}

// LogSender writes codes to the log instead of sending them. Used when no SMS
// key is configured.
type LogSender struct {
	Log logger.ILogger
}

func (s LogSender) SendCode(_ context.Context, phone, code string) error {
	s.Log.Warning("sms disabled, otp written to log", logger.String("phone", phone), logger.String("code", code))
	return nil
}

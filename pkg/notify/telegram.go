package notify

import (
	"context"
	"sync"

	tele "gopkg.in/telebot.v3"

	"storebot/pkg/logger"
)

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Telegram sends rendered events to every admin chat. Sends run in the
// background so a slow Bot API never holds up the user's own replies.
type Telegram struct {
	bot    sender
	admins []int64
	log    logger.ILogger
	wg     sync.WaitGroup
}

func NewTelegram(bot sender, admins []int64, log logger.ILogger) *Telegram {
	return &Telegram{bot: bot, admins: admins, log: log}
}

func (t *Telegram) Notify(_ context.Context, event string, fields Fields) {
	if len(t.admins) == 0 {
		return
	}
	text, err := Render(event, fields)
	if err != nil {
		t.log.Error("failed to render admin notification", logger.String("event", event), logger.Error(err))
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for _, id := range t.admins {
			if _, err := t.bot.Send(&tele.User{ID: id}, text); err != nil {
				t.log.Error("failed to notify admin", logger.Int64("admin_id", id), logger.String("event", event), logger.Error(err))
			}
		}
	}()
}

// Wait blocks until every pending admin message has been sent.
func (t *Telegram) Wait() {
	t.wg.Wait()
}

// Package bot connects the conversation engine to Telegram.
package bot

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"

	"storebot/config"
	"storebot/pkg/conversation"
	"storebot/pkg/logger"
)

const handleTimeout = 30 * time.Second

// Handler answers one chat input with the replies to send.
type Handler interface {
	Handle(ctx context.Context, in conversation.Input) []conversation.Reply
}

type Bot struct {
	Bot *tele.Bot
	Log logger.ILogger
	Cfg *config.Config

	handler Handler
	// chats serializes the updates of a chat. Chats share a stripe by id.
	chats [chatStripes]sync.Mutex
}

func New(cfg *config.Config, log logger.ILogger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("telegram handler failed", logger.Error(err))
		},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	return &Bot{
		Bot: b,
		Log: log,
		Cfg: cfg,
	}, nil
}

// Serve routes every update to h. It must be called before Start.
func (b *Bot) Serve(h Handler) {
	b.handler = h
	b.registerHandlers()
}

func (b *Bot) Start() {
	b.Log.Info("🤖 Bot started", logger.String("username", b.Bot.Me.Username))
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

func (b *Bot) registerHandlers() {
	b.Bot.Handle("/start", b.handleUpdate)
	b.Bot.Handle("/cancel", b.handleUpdate)
	b.Bot.Handle("/help", b.handleUpdate)

	b.Bot.Handle(tele.OnText, b.handleUpdate)
	b.Bot.Handle(tele.OnPhoto, b.handleUpdate)
	b.Bot.Handle(tele.OnDocument, b.handleUpdate)
	b.Bot.Handle(tele.OnCallback, b.handleUpdate)
}

func (b *Bot) handleUpdate(c tele.Context) error {
	if c.Chat() == nil || c.Sender() == nil {
		return nil
	}
	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			b.Log.Warning("failed to answer callback", logger.Error(err))
		}
	}

	in := b.input(c)
	unlock := b.lock(in.ChatID)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	for _, r := range b.handler.Handle(ctx, in) {
		if err := c.Send(r.Text, options(r)...); err != nil {
			b.Log.Error("failed to send reply", logger.Int64("chat_id", in.ChatID), logger.Error(err))
			return nil
		}
	}
	return nil
}

const chatStripes = 256

func stripe(chatID int64) int {
	return int(uint64(chatID) % chatStripes)
}

func (b *Bot) lock(chatID int64) func() {
	mu := &b.chats[stripe(chatID)]
	mu.Lock()
	return mu.Unlock
}

func (b *Bot) input(c tele.Context) conversation.Input {
	in := conversation.Input{
		ChatID:   c.Chat().ID,
		UserID:   c.Sender().ID,
		Username: c.Sender().Username,
	}

	if cb := c.Callback(); cb != nil {
		in.Callback = callbackData(cb.Data)
		return in
	}

	msg := c.Message()
	if msg == nil {
		return in
	}
	if cmd, payload, ok := command(msg.Text); ok {
		in.Command, in.Payload = cmd, payload
		return in
	}
	in.Text = msg.Text
	if msg.Photo != nil {
		in.Photo = b.photo(msg.Photo)
	}
	in.Document = msg.Document != nil
	return in
}

func (b *Bot) photo(p *tele.Photo) *conversation.Photo {
	file := p.File
	return &conversation.Photo{
		FileID: file.FileID,
		Fetch: func(ctx context.Context) ([]byte, error) {
			rc, err := b.Bot.File(&file)
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		},
	}
}

// command splits "/start@storebot lottery" into "start" and "lottery".
func command(text string) (string, string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, payload, _ := strings.Cut(text, " ")
	name, _, _ := strings.Cut(strings.TrimPrefix(head, "/"), "@")
	return name, strings.TrimSpace(payload), name != ""
}

// callbackData drops the "\f" marker telebot puts before button data.
func callbackData(data string) string {
	return strings.TrimPrefix(data, "\f")
}

func options(r conversation.Reply) []interface{} {
	switch {
	case len(r.Buttons) > 0:
		menu := &tele.ReplyMarkup{}
		rows := make([]tele.Row, 0, len(r.Buttons))
		for _, line := range r.Buttons {
			btns := make([]tele.Btn, 0, len(line))
			for _, btn := range line {
				btns = append(btns, menu.Data(btn.Text, btn.Data))
			}
			rows = append(rows, menu.Row(btns...))
		}
		menu.Inline(rows...)
		return []interface{}{menu}

	case len(r.Keyboard) > 0:
		menu := &tele.ReplyMarkup{ResizeKeyboard: true}
		rows := make([]tele.Row, 0, len(r.Keyboard))
		for _, line := range r.Keyboard {
			btns := make([]tele.Btn, 0, len(line))
			for _, label := range line {
				btns = append(btns, menu.Text(label))
			}
			rows = append(rows, menu.Row(btns...))
		}
		menu.Reply(rows...)
		return []interface{}{menu}

	case r.RemoveKeyboard:
		return []interface{}{tele.RemoveKeyboard}
	}
	return nil
}

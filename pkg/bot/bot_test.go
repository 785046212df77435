package bot

import (
	"context"
	"testing"
	"time"

	tele "gopkg.in/telebot.v3"

	"storebot/config"
	"storebot/pkg/conversation"
	"storebot/pkg/logger"
)

func TestCommand(t *testing.T) {
	cases := []struct {
		text, name, payload string
		ok                  bool
	}{
		{"/start", "start", "", true},
		{"/start lottery", "start", "lottery", true},
		{"/start@storebot cooperation", "start", "cooperation", true},
		{"/cancel  ", "cancel", "", true},
		{"سلام", "", "", false},
		{"/", "", "", false},
	}
	for _, c := range cases {
		name, payload, ok := command(c.text)
		if name != c.name || payload != c.payload || ok != c.ok {
			t.Errorf("command(%q) = %q, %q, %v", c.text, name, payload, ok)
		}
	}
}

func TestCallbackData(t *testing.T) {
	if got := callbackData("\fbuy_12"); got != "buy_12" {
		t.Fatalf("callbackData = %q", got)
	}
	if got := callbackData("upl_3_2"); got != "upl_3_2" {
		t.Fatalf("callbackData = %q", got)
	}
}

func TestOptions(t *testing.T) {
	inline := options(conversation.Reply{Buttons: [][]conversation.Button{
		{{Text: "خرید", Data: "buy_1"}},
		{{Text: "بازگشت", Data: "back_to_menu"}},
	}})
	menu, ok := inline[0].(*tele.ReplyMarkup)
	if !ok || len(menu.InlineKeyboard) != 2 {
		t.Fatalf("inline markup = %#v", inline)
	}
	if menu.InlineKeyboard[0][0].Unique != "buy_1" || menu.InlineKeyboard[1][0].Text != "بازگشت" {
		t.Fatalf("buttons = %+v", menu.InlineKeyboard)
	}

	reply := options(conversation.Reply{Keyboard: [][]string{{"a", "b"}, {"c"}}})
	menu = reply[0].(*tele.ReplyMarkup)
	if !menu.ResizeKeyboard || len(menu.ReplyKeyboard) != 2 || len(menu.ReplyKeyboard[0]) != 2 {
		t.Fatalf("reply markup = %#v", menu)
	}

	if opts := options(conversation.Reply{RemoveKeyboard: true}); len(opts) != 1 || opts[0] != tele.RemoveKeyboard {
		t.Fatalf("remove keyboard options = %v", opts)
	}
	if opts := options(conversation.Reply{Text: "plain"}); opts != nil {
		t.Fatalf("plain options = %v", opts)
	}
}

func newOfflineBot(t *testing.T) *Bot {
	t.Helper()
	tb, err := tele.NewBot(tele.Settings{Token: "123:offline", Offline: true})
	if err != nil {
		t.Fatalf("new bot: %v", err)
	}
	return &Bot{Bot: tb, Log: logger.NewNop(), Cfg: &config.Config{}}
}

func TestInput(t *testing.T) {
	b := newOfflineBot(t)
	chat := &tele.Chat{ID: 42}
	user := &tele.User{ID: 42, Username: "maryam"}

	in := b.input(b.Bot.NewContext(tele.Update{Message: &tele.Message{Chat: chat, Sender: user, Text: "/start lottery"}}))
	if in.Command != "start" || in.Payload != "lottery" || in.Text != "" || in.ChatID != 42 {
		t.Fatalf("command input = %+v", in)
	}

	in = b.input(b.Bot.NewContext(tele.Update{Message: &tele.Message{
		Chat: chat, Sender: user,
		Photo: &tele.Photo{File: tele.File{FileID: "AgAC"}},
	}}))
	if in.Photo == nil || in.Photo.FileID != "AgAC" || in.Text != "" || in.Username != "maryam" {
		t.Fatalf("photo input = %+v", in)
	}

	in = b.input(b.Bot.NewContext(tele.Update{Message: &tele.Message{
		Chat: chat, Sender: user, Document: &tele.Document{File: tele.File{FileID: "BQAC"}},
	}}))
	if !in.Document || in.Photo != nil {
		t.Fatalf("document input = %+v", in)
	}

	in = b.input(b.Bot.NewContext(tele.Update{Callback: &tele.Callback{
		Sender: user, Data: "\finst_7",
		Message: &tele.Message{Chat: chat},
	}}))
	if in.Callback != "inst_7" || in.UserID != 42 {
		t.Fatalf("callback input = %+v", in)
	}
}

type countingHandler struct{ calls int }

func (h *countingHandler) Handle(context.Context, conversation.Input) []conversation.Reply {
	h.calls++
	return nil
}

func TestHandleUpdateSkipsChatless(t *testing.T) {
	b := newOfflineBot(t)
	h := &countingHandler{}
	b.Serve(h)

	if err := b.handleUpdate(b.Bot.NewContext(tele.Update{Message: &tele.Message{Text: "hi"}})); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if h.calls != 0 {
		t.Fatalf("handler called for an update without a chat")
	}

	msg := &tele.Message{Chat: &tele.Chat{ID: 1}, Sender: &tele.User{ID: 1}, Text: "hi"}
	if err := b.handleUpdate(b.Bot.NewContext(tele.Update{Message: msg})); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if h.calls != 1 {
		t.Fatalf("calls = %d", h.calls)
	}
}

func TestLockSerializesChat(t *testing.T) {
	b := &Bot{}
	for _, id := range []int64{7, -1001234567890, 1 << 40} {
		if s := stripe(id); s < 0 || s >= chatStripes {
			t.Fatalf("stripe(%d) = %d", id, s)
		}
	}

	unlock := b.lock(7)
	acquired := make(chan struct{})
	go func() {
		release := b.lock(7)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatalf("second update of the chat ran while the first held the lock")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("lock was not released")
	}
}

package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"storebot/pkg/filestore"
	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/pkg/notify"
	"storebot/pkg/session"
	"storebot/service"
	"storebot/storage"
	"storebot/storage/memory"
)

const testCode = "4821"

type stubGateway struct {
	err  error
	sent []string
}

func (g *stubGateway) Send(_ context.Context, phone string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.sent = append(g.sent, phone)
	return testCode, nil
}

type recorder struct {
	mu     sync.Mutex
	events []string
	fields []notify.Fields
}

func (r *recorder) Notify(_ context.Context, event string, fields notify.Fields) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.fields = append(r.fields, fields)
}

func (r *recorder) last(event string) notify.Fields {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i] == event {
			return r.fields[i]
		}
	}
	return nil
}

type harness struct {
	t        *testing.T
	stg      *memory.Store
	sessions *session.MemoryStore
	otp      *stubGateway
	notes    *recorder
	engine   *Engine
	chat     int64
	username string
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, nil)
}

// newHarnessWith builds the engine over a memory store. wrap, when set,
// replaces the storage seen by the services.
func newHarnessWith(t *testing.T, wrap func(storage.IStorage) storage.IStorage) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		stg:      memory.New(),
		sessions: session.NewMemoryStore(),
		otp:      &stubGateway{},
		notes:    &recorder{},
		chat:     5001,
		username: "student",
	}
	var stg storage.IStorage = h.stg
	if wrap != nil {
		stg = wrap(stg)
	}
	h.engine = New(
		service.New(stg, logger.NewNop()),
		h.sessions,
		h.otp,
		filestore.NewLocalStore(t.TempDir()),
		h.notes,
		logger.NewNop(),
		Options{
			AllowedCities:   []string{"تهران"},
			ResumeMinLength: 50,
			CardNumber:      "6219861812467917",
			CardHolder:      "بلو بانک",
			SupportUsername: "support",
		},
	)
	return h
}

func (h *harness) as(chat int64, username string) *harness {
	c := *h
	c.chat, c.username = chat, username
	return &c
}

func (h *harness) send(in Input) []Reply {
	in.ChatID, in.UserID, in.Username = h.chat, h.chat, h.username
	return h.engine.Handle(context.Background(), in)
}

func (h *harness) text(s string) []Reply           { return h.send(Input{Text: s}) }
func (h *harness) callback(data string) []Reply    { return h.send(Input{Callback: data}) }
func (h *harness) command(cmd, arg string) []Reply { return h.send(Input{Command: cmd, Payload: arg}) }

func (h *harness) photo() []Reply {
	return h.send(Input{Photo: &Photo{
		FileID: "AgACAgQAAxkBAAIB",
		Fetch: func(context.Context) ([]byte, error) {
			return []byte("\xff\xd8\xff\xe0 receipt"), nil
		},
	}})
}

func (h *harness) session() *session.Session {
	h.t.Helper()
	s, err := h.sessions.Load(context.Background(), h.chat)
	if err != nil {
		h.t.Fatalf("load session: %v", err)
	}
	return s
}

func (h *harness) expectStep(flow, step string) {
	h.t.Helper()
	if s := h.session(); s.Flow != flow || s.Step != step {
		h.t.Fatalf("session at %s/%s, want %s/%s", s.Flow, s.Step, flow, step)
	}
}

func (h *harness) expectIdle() {
	h.t.Helper()
	if s := h.session(); s.Active() {
		h.t.Fatalf("session still at %s/%s", s.Flow, s.Step)
	}
}

// register approves the harness user directly in storage.
func (h *harness) register(phone, nationalID string) *models.User {
	h.t.Helper()
	u, err := h.stg.User().Approve(context.Background(), models.Registration{
		TelegramID: h.chat, Username: h.username, FullName: "علی رضایی", City: "تهران",
		Area: 1, NationalID: nationalID, Phone: phone,
	})
	if err != nil {
		h.t.Fatalf("approve: %v", err)
	}
	return u
}

func replyWith(replies []Reply, text string) *Reply {
	for i := range replies {
		if strings.Contains(replies[i].Text, text) {
			return &replies[i]
		}
	}
	return nil
}

func expectReply(t *testing.T, replies []Reply, text string) *Reply {
	t.Helper()
	r := replyWith(replies, text)
	if r == nil {
		got := make([]string, 0, len(replies))
		for _, r := range replies {
			got = append(got, r.Text)
		}
		t.Fatalf("no reply containing %q in %q", text, got)
	}
	return r
}

func hasKey(rows [][]string, label string) bool {
	for _, row := range rows {
		for _, l := range row {
			if l == label {
				return true
			}
		}
	}
	return false
}

func buttonData(rows [][]Button) []string {
	var out []string
	for _, row := range rows {
		for _, b := range row {
			out = append(out, b.Data)
		}
	}
	return out
}

func TestStartShowsMenuAndRecordsUser(t *testing.T) {
	h := newHarness(t)
	replies := h.command("start", "")
	r := expectReply(t, replies, msgWelcome)
	if !hasKey(r.Keyboard, btnProducts) || !hasKey(r.Keyboard, btnMyInstallments) {
		t.Fatalf("main menu keyboard = %v", r.Keyboard)
	}
	u, _ := h.stg.User().Get(context.Background(), h.chat)
	if u == nil || u.Approved || u.Username != h.username {
		t.Fatalf("first contact user = %+v", u)
	}
}

func TestMenuCommandInterruptsFlow(t *testing.T) {
	h := newHarness(t)
	h.text(btnRegister)
	h.expectStep(flowRegistration, stepRegName)
	h.text("علی رضایی")
	h.expectStep(flowRegistration, stepRegCity)

	h.text(btnProducts)
	h.expectStep(flowCatalog, stepGrade)
	if s := h.session(); s.Get(keyFullName, "") != "" {
		t.Fatalf("registration data leaked into catalog: %v", s.Data)
	}

	h.command("cancel", "")
	h.expectIdle()
}

func TestCallbackInterruptsFlow(t *testing.T) {
	h := newHarness(t)
	h.text(btnCooperation)
	h.expectStep(flowCooperation, stepCoopPhone)

	expectReply(t, h.callback(cbBackToMenu), msgWelcome)
	h.expectIdle()
}

func TestIdleTextGetsGeneralError(t *testing.T) {
	h := newHarness(t)
	replies := h.text("سلام")
	expectReply(t, replies, msgGeneralError)
	h.expectIdle()
}

func TestDeepLinks(t *testing.T) {
	h := newHarness(t)
	h.command("start", "cooperation")
	h.expectStep(flowCooperation, stepCoopPhone)

	ctx := context.Background()
	if _, err := h.stg.Lottery().Upsert(ctx, &models.Lottery{Name: "قرعه کشی پاییز", IsActive: true}); err != nil {
		t.Fatalf("lottery: %v", err)
	}
	h.command("start", "lottery")
	h.expectStep(flowLottery, stepLotterySelect)
}

func TestRegistrationFlow(t *testing.T) {
	h := newHarness(t)
	h.text(btnRegister)

	expectReply(t, h.text("ali"), msgInvalidName)
	h.expectStep(flowRegistration, stepRegName)
	r := expectReply(t, h.text("  علی   رضایی "), msgAskCity)
	if !hasKey(r.Keyboard, "تهران") {
		t.Fatalf("city keyboard = %v", r.Keyboard)
	}

	expectReply(t, h.text("اصفهان"), msgInvalidCity)
	h.text("تهران")
	expectReply(t, h.text("4"), msgInvalidArea)
	h.text("۲")
	expectReply(t, h.text("1111111111"), msgInvalidNationalID)
	h.text("0012345678")
	expectReply(t, h.text("0912"), msgInvalidPhone)
	expectReply(t, h.text("۰۹۱۲۱۲۳۴۵۶۷"), msgOTPSent)
	h.expectStep(flowRegistration, stepRegOTP)
	if len(h.otp.sent) != 1 || h.otp.sent[0] != "09121234567" {
		t.Fatalf("otp sent to %v", h.otp.sent)
	}

	expectReply(t, h.text(testCode), msgRegistrationSuccess)
	h.expectIdle()

	u, _ := h.stg.User().Get(context.Background(), h.chat)
	if u == nil || !u.Approved {
		t.Fatalf("user not approved: %+v", u)
	}
	if *u.FullName != "علی رضایی" || *u.Area != 2 || *u.Phone != "09121234567" || *u.NationalID != "0012345678" {
		t.Fatalf("profile = %+v", u)
	}
	if f := h.notes.last(notify.Registration); f == nil || f["phone"] != "09121234567" {
		t.Fatalf("registration notification = %v", f)
	}

	expectReply(t, h.text(btnRegister), msgAlreadyRegistered)
	h.expectIdle()
}

func (h *harness) reachPhoneStep() {
	h.t.Helper()
	h.text(btnRegister)
	h.text("مریم احمدی")
	h.text("تهران")
	h.text("1")
	h.text("0098765432")
	h.expectStep(flowRegistration, stepRegPhone)
}

func TestRegistrationOTPMismatchAborts(t *testing.T) {
	h := newHarness(t)
	h.reachPhoneStep()
	h.text("09351112233")

	replies := h.text("0000")
	expectReply(t, replies, msgRegistrationOTP)
	h.expectIdle()
	if u, _ := h.stg.User().Get(context.Background(), h.chat); u != nil && u.Approved {
		t.Fatalf("user approved after wrong code")
	}
}

func TestRegistrationRejectsTakenPhone(t *testing.T) {
	h := newHarness(t)
	h.as(7001, "first").register("09351112233", "0011111112")

	h.reachPhoneStep()
	expectReply(t, h.text("09351112233"), msgPhoneTaken)
	h.expectStep(flowRegistration, stepRegPhone)
	if len(h.otp.sent) != 0 {
		t.Fatalf("otp sent for a taken phone")
	}
}

func TestRegistrationConflictAtCommit(t *testing.T) {
	h := newHarness(t)
	h.reachPhoneStep()
	h.text("09351112233")

	// Another account takes the number while the code is pending.
	h.as(7001, "first").register("09351112233", "0011111112")

	expectReply(t, h.text(testCode), msgConflict)
	h.expectIdle()
	if u, _ := h.stg.User().Get(context.Background(), h.chat); u != nil && u.Approved {
		t.Fatalf("duplicate phone approved")
	}
}

func TestOTPDispatchFailureEndsFlow(t *testing.T) {
	h := newHarness(t)
	h.otp.err = errors.New("sms provider down")
	h.text(btnConsultation)

	expectReply(t, h.text("09121234567"), msgSMSError)
	h.expectIdle()
}

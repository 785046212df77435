// Package conversation routes chat input through the bot's multi-step flows.
//
// Every update is handled as one unit: the session is loaded, the input is
// dispatched and the session is saved or cleared. Dispatch is by priority:
// commands, then inline callbacks, then main menu labels, then the active
// flow step. Commands, callbacks and menu labels always end the active flow.
package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"storebot/pkg/apperr"
	"storebot/pkg/filestore"
	"storebot/pkg/logger"
	"storebot/pkg/metrics"
	"storebot/pkg/notify"
	"storebot/pkg/otp"
	"storebot/pkg/session"
	"storebot/service"
)

type Input struct {
	ChatID   int64
	UserID   int64
	Username string
	// Command is a slash command without the slash, Payload its argument.
	Command  string
	Payload  string
	Text     string
	Callback string
	Photo    *Photo
	Document bool
}

// Photo is an attached image. Fetch downloads its bytes on demand.
type Photo struct {
	FileID string
	Fetch  func(ctx context.Context) ([]byte, error)
}

func (in Input) kind() string {
	switch {
	case in.Command != "":
		return "command"
	case in.Callback != "":
		return "callback"
	case in.Photo != nil:
		return "photo"
	case in.Document:
		return "document"
	}
	return "text"
}

// Reply is one outbound message. Keyboard is a reply keyboard, Buttons an
// inline one. At most one of them is set.
type Reply struct {
	Text           string
	Keyboard       [][]string
	Buttons        [][]Button
	RemoveKeyboard bool
}

type Button struct {
	Text string
	Data string
}

type Options struct {
	AllowedCities   []string
	ResumeMinLength int
	CardNumber      string
	CardHolder      string
	SupportUsername string
}

type Engine struct {
	svc      service.IServiceManager
	sessions session.Store
	otp      otp.Gateway
	files    filestore.Store
	notifier notify.Notifier
	log      logger.ILogger
	opts     Options
}

func New(svc service.IServiceManager, sessions session.Store, gateway otp.Gateway, files filestore.Store, notifier notify.Notifier, log logger.ILogger, opts Options) *Engine {
	if opts.ResumeMinLength <= 0 {
		opts.ResumeMinLength = 50
	}
	return &Engine{
		svc:      svc,
		sessions: sessions,
		otp:      gateway,
		files:    files,
		notifier: notifier,
		log:      log,
		opts:     opts,
	}
}

// turn collects the replies to one input.
type turn struct {
	in  Input
	s   *session.Session
	out []Reply
}

func (t *turn) send(text string) {
	t.out = append(t.out, Reply{Text: text})
}

func (t *turn) reply(r Reply) {
	t.out = append(t.out, r)
}

// Handle processes one input and returns the replies to send, in order.
func (e *Engine) Handle(ctx context.Context, in Input) []Reply {
	metrics.Updates.WithLabelValues(in.kind()).Inc()

	s, err := e.sessions.Load(ctx, in.ChatID)
	if err != nil {
		t := &turn{in: in, s: &session.Session{}}
		e.fail(ctx, t, apperr.E(apperr.KindPersistence, "session.load", err))
		return t.out
	}

	t := &turn{in: in, s: s}
	if err := e.dispatch(ctx, t); err != nil {
		e.fail(ctx, t, err)
		return t.out
	}

	if t.s.Active() {
		err = e.sessions.Save(ctx, in.ChatID, t.s)
	} else {
		err = e.sessions.Clear(ctx, in.ChatID)
	}
	if err != nil {
		e.fail(ctx, t, apperr.E(apperr.KindPersistence, "session.save", err))
	}
	return t.out
}

func (e *Engine) dispatch(ctx context.Context, t *turn) error {
	switch {
	case t.in.Command != "":
		return e.handleCommand(ctx, t)
	case t.in.Callback != "":
		return e.handleCallback(ctx, t)
	case isMenuCommand(t.in.Text):
		e.abandon(t)
		return e.handleMenu(ctx, t)
	case t.s.Active():
		return e.handleStep(ctx, t)
	}
	t.send(msgGeneralError)
	t.reply(mainMenu())
	return nil
}

// abandon ends the active flow without completing it.
func (e *Engine) abandon(t *turn) {
	if t.s.Active() {
		metrics.Flow(t.s.Flow, metrics.OutcomeAborted)
		e.log.Debug("flow interrupted",
			logger.Int64("chat_id", t.in.ChatID),
			logger.String("flow", t.s.Flow),
			logger.String("step", t.s.Step),
		)
	}
	t.s.Reset()
}

// finish ends the active flow after its commit.
func (e *Engine) finish(t *turn) {
	if t.s.Active() {
		metrics.Flow(t.s.Flow, metrics.OutcomeCompleted)
	}
	t.s.Reset()
}

func (e *Engine) handleCommand(ctx context.Context, t *turn) error {
	e.abandon(t)
	switch t.in.Command {
	case "start":
		if _, err := e.svc.User().Touch(ctx, t.in.UserID, t.in.Username); err != nil {
			return err
		}
		switch t.in.Payload {
		case "cooperation":
			return e.startCooperation(ctx, t)
		case "lottery":
			return e.startLottery(ctx, t)
		}
		t.reply(mainMenu())
	case "cancel":
		t.send(msgCanceled)
		t.reply(mainMenu())
	case "help":
		t.send(fmt.Sprintf(msgHelp, e.opts.SupportUsername))
	default:
		t.send(msgGeneralError)
		t.reply(mainMenu())
	}
	return nil
}

func (e *Engine) handleMenu(ctx context.Context, t *turn) error {
	switch t.in.Text {
	case btnRegister:
		return e.startRegistration(ctx, t)
	case btnProducts:
		return e.startCatalog(ctx, t, false)
	case btnAlmas:
		return e.startCatalog(ctx, t, true)
	case btnMyInstallments:
		return e.showInstallments(ctx, t)
	case btnLottery:
		return e.startLottery(ctx, t)
	case btnConsultation:
		return e.startCRM(ctx, t, false)
	case btnCooperation:
		return e.startCooperation(ctx, t)
	case btnHelp:
		t.send(fmt.Sprintf(msgHelp, e.opts.SupportUsername))
	case btnContact, btnSupport:
		t.send(fmt.Sprintf(msgContact, e.opts.SupportUsername))
	case btnIncome:
		t.send(fmt.Sprintf(msgReferralIncome, e.opts.SupportUsername))
	default:
		t.reply(mainMenu())
	}
	return nil
}

func (e *Engine) handleCallback(ctx context.Context, t *turn) error {
	data := t.in.Callback
	if data == cbIgnore {
		return nil
	}
	e.abandon(t)

	switch {
	case data == cbAuthorize:
		return e.startRegistration(ctx, t)
	case data == cbNotSure:
		return e.startCRM(ctx, t, true)
	case data == cbBackToMenu:
		t.reply(mainMenu())
		return nil
	}

	if id, ok := parseID(data, cbBuy); ok {
		return e.startPurchase(ctx, t, id)
	}
	if id, ok := parseID(data, cbOrder); ok {
		return e.showInstallmentOrder(ctx, t, id)
	}
	if orderID, slot, ok := parseUpload(data); ok {
		return e.startInstallmentUpload(ctx, t, orderID, slot)
	}

	t.send(msgInvalidInput)
	return nil
}

func (e *Engine) handleStep(ctx context.Context, t *turn) error {
	switch t.s.Flow {
	case flowRegistration:
		return e.registrationStep(ctx, t)
	case flowCatalog:
		return e.catalogStep(ctx, t)
	case flowPurchase:
		return e.purchaseStep(ctx, t)
	case flowInstallment:
		return e.installmentStep(ctx, t)
	case flowLottery:
		return e.lotteryStep(ctx, t)
	case flowCRM:
		return e.crmStep(ctx, t)
	case flowCooperation:
		return e.cooperationStep(ctx, t)
	}

	e.log.Warning("unknown flow in session", logger.String("flow", t.s.Flow), logger.Int64("chat_id", t.in.ChatID))
	t.s.Reset()
	t.send(msgGeneralError)
	t.reply(mainMenu())
	return nil
}

// fail ends the flow after an error escaped a step and apologizes to the user.
func (e *Engine) fail(ctx context.Context, t *turn, err error) {
	kind := apperr.KindOf(err)
	e.log.Error("conversation step failed",
		logger.Int64("chat_id", t.in.ChatID),
		logger.String("flow", t.s.Flow),
		logger.String("step", t.s.Step),
		logger.String("kind", string(kind)),
		logger.Error(err),
		logger.String("stack", apperr.Stack(err)),
	)
	metrics.HandlerErrors.WithLabelValues(string(kind)).Inc()
	if t.s.Active() {
		metrics.Flow(t.s.Flow, metrics.OutcomeFailed)
	}

	t.s.Reset()
	if err := e.sessions.Clear(ctx, t.in.ChatID); err != nil {
		e.log.Error("failed to clear session", logger.Int64("chat_id", t.in.ChatID), logger.Error(err))
	}
	t.send(apology(kind))
	t.reply(mainMenu())
}

func apology(kind apperr.Kind) string {
	switch kind {
	case apperr.KindExternal:
		return msgSMSError
	case apperr.KindNotFound:
		return msgNotFound
	case apperr.KindConflict:
		return msgConflict
	case apperr.KindAuthorization:
		return msgNotRegistered
	}
	return msgProcessingError
}

func (e *Engine) notify(ctx context.Context, event string, fields notify.Fields) {
	e.notifier.Notify(ctx, event, fields)
}

var mainKeyboard = [][]string{
	{btnAlmas},
	{btnProducts},
	{btnIncome, btnConsultation},
	{btnMyInstallments, btnLottery},
	{btnSupport, btnCooperation},
	{btnRegister, btnHelp},
}

var menuCommands = map[string]bool{btnContact: true, btnBackToMenu: true}

func init() {
	for _, row := range mainKeyboard {
		for _, label := range row {
			menuCommands[label] = true
		}
	}
}

func isMenuCommand(text string) bool {
	return menuCommands[text]
}

func mainMenu() Reply {
	return Reply{Text: msgWelcome, Keyboard: mainKeyboard}
}

// column lays labels out one per row, optionally followed by the back button.
func column(labels []string, back bool) [][]string {
	rows := make([][]string, 0, len(labels)+1)
	for _, l := range labels {
		rows = append(rows, []string{l})
	}
	if back {
		rows = append(rows, []string{btnBackToMenu})
	}
	return rows
}

var printer = message.NewPrinter(language.English)

// formatPrice renders whole tomans with thousands separators.
func formatPrice(n int) string {
	return printer.Sprintf("%d", n)
}

func userLabel(in Input) string {
	if in.Username != "" {
		return fmt.Sprintf("@%s (%d)", in.Username, in.UserID)
	}
	return fmt.Sprintf("%d", in.UserID)
}

func parseID(data, prefix string) (int64, bool) {
	raw, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

// parseUpload reads "upl_<order>_<slot>".
func parseUpload(data string) (int64, int, bool) {
	raw, ok := strings.CutPrefix(data, cbUpload)
	if !ok {
		return 0, 0, false
	}
	order, slot, ok := strings.Cut(raw, "_")
	if !ok {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(order, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	n, err := strconv.Atoi(slot)
	if err != nil {
		return 0, 0, false
	}
	return id, n, true
}

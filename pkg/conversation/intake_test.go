package conversation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"storebot/pkg/models"
	"storebot/pkg/notify"
)

func (h *harness) lottery(name string, limit *int) *models.Lottery {
	h.t.Helper()
	l, err := h.stg.Lottery().Upsert(context.Background(), &models.Lottery{
		Name: name, Description: "جایزه: یک سال اشتراک", IsActive: true, MaxParticipants: limit,
	})
	if err != nil {
		h.t.Fatalf("lottery: %v", err)
	}
	return l
}

func (h *harness) joinLottery(name, phone string) []Reply {
	h.t.Helper()
	h.text(btnLottery)
	h.text(name)
	h.text(phone)
	return h.text(testCode)
}

func TestLotteryJoinAndRejoin(t *testing.T) {
	h := newHarness(t)
	one := 1
	a := h.lottery("قرعه کشی پاییز", nil)
	b := h.lottery("قرعه کشی زمستان", &one)

	r := expectReply(t, h.text(btnLottery), msgSelectLottery)
	if !hasKey(r.Keyboard, a.Name) || !hasKey(r.Keyboard, b.Name) {
		t.Fatalf("lottery keyboard = %v", r.Keyboard)
	}
	expectReply(t, h.text("قرعه کشی بهار"), "یافت نشد")
	h.expectStep(flowLottery, stepLotterySelect)

	expectReply(t, h.text(a.Name), a.Description)
	h.expectStep(flowLottery, stepLotteryPhone)
	h.text("09121234567")
	expectReply(t, h.text(testCode), "با موفقیت")
	h.expectIdle()

	expectReply(t, h.joinLottery(b.Name, "09121234567"), "با موفقیت")
	if c := h.stg.Counts(); c.Participants != 2 {
		t.Fatalf("participants = %d", c.Participants)
	}
	if f := h.notes.last(notify.Lottery); f == nil || f["lottery"] != b.Name {
		t.Fatalf("lottery notification = %v", f)
	}

	sent := len(h.otp.sent)
	h.text(btnLottery)
	expectReply(t, h.text(a.Name), fmt.Sprintf(msgLotteryJoined, a.Name, a.Description))
	h.expectIdle()
	if len(h.otp.sent) != sent {
		t.Fatalf("code sent for a lottery already joined")
	}
}

func TestLotteryRecheckedAfterCode(t *testing.T) {
	h := newHarness(t)
	a := h.lottery("قرعه کشی پاییز", nil)

	h.text(btnLottery)
	h.text(a.Name)
	h.text("09121234567")
	h.expectStep(flowLottery, stepLotteryOTP)

	// The same account joins from another device meanwhile.
	if _, err := h.stg.Lottery().AddParticipant(context.Background(), &models.LotteryParticipant{
		TelegramID: h.chat, Phone: "09121234567", LotteryID: a.ID, IsVerified: true,
	}); err != nil {
		t.Fatalf("add participant: %v", err)
	}

	expectReply(t, h.text(testCode), fmt.Sprintf(msgLotteryJoined, a.Name, a.Description))
	h.expectIdle()
	if c := h.stg.Counts(); c.Participants != 1 {
		t.Fatalf("participants = %d", c.Participants)
	}
}

func TestLotteryFullBeforeCode(t *testing.T) {
	h := newHarness(t)
	one := 1
	b := h.lottery("قرعه کشی زمستان", &one)

	h.text(btnLottery)
	h.text(b.Name)
	h.as(9009, "early").joinLottery(b.Name, "09350000000")

	expectReply(t, h.text("09121234567"), fmt.Sprintf(msgLotteryClosed, b.Name))
	h.expectIdle()
	if len(h.otp.sent) != 1 {
		t.Fatalf("codes sent = %v", h.otp.sent)
	}
}

func TestNoActiveLottery(t *testing.T) {
	h := newHarness(t)
	expectReply(t, h.text(btnLottery), msgNoLottery)
	h.expectIdle()
}

func TestLotteryOTPMismatchAborts(t *testing.T) {
	h := newHarness(t)
	a := h.lottery("قرعه کشی پاییز", nil)
	h.text(btnLottery)
	h.text(a.Name)
	h.text("09121234567")

	expectReply(t, h.text("1111"), msgLotteryOTPMismatch)
	h.expectIdle()
	if c := h.stg.Counts(); c.Participants != 0 {
		t.Fatalf("participant added on a wrong code")
	}
}

func TestCRMRequest(t *testing.T) {
	h := newHarness(t)

	expectReply(t, h.text(btnConsultation), msgCRMAskPhone)
	expectReply(t, h.text("12345"), msgInvalidPhone)
	h.expectStep(flowCRM, stepCRMPhone)
	h.text("09121234567")
	expectReply(t, h.text(testCode), msgCRMSuccess)
	h.expectIdle()

	h.stg.MarkCalled("09121234567", "تماس گرفته شد")
	h.text(btnConsultation)
	h.text("09121234567")
	h.text(testCode)

	if c := h.stg.Counts(); c.CRM != 1 {
		t.Fatalf("crm requests = %d", c.CRM)
	}
	if n, _ := h.stg.CRM().CountUncalled(context.Background()); n != 1 {
		t.Fatalf("uncalled = %d, want the request reopened", n)
	}
	if f := h.notes.last(notify.CRM); f == nil || f["phone"] != "09121234567" {
		t.Fatalf("crm notification = %v", f)
	}
}

func TestCRMOTPMismatchAborts(t *testing.T) {
	h := newHarness(t)
	h.text(btnConsultation)
	h.text("09121234567")

	expectReply(t, h.text("0000"), msgCRMOTPMismatch)
	h.expectIdle()
	if c := h.stg.Counts(); c.CRM != 0 {
		t.Fatalf("crm request stored on a wrong code")
	}
}

func TestCooperationApplication(t *testing.T) {
	h := newHarness(t)
	resume := strings.Repeat("سه سال سابقه مشاوره تحصیلی در مدارس تهران دارم. ", 3)

	expectReply(t, h.text(btnCooperation), "همکاری")
	h.text("09121234567")

	expectReply(t, h.text("0000"), msgCoopOTPMismatch)
	h.expectStep(flowCooperation, stepCoopOTP)
	expectReply(t, h.text(testCode), msgCoopAskCity)

	expectReply(t, h.text("ا"), msgCoopInvalidCity)
	expectReply(t, h.text("شیراز"), msgCoopAskResume)
	h.expectStep(flowCooperation, stepCoopResume)

	expectReply(t, h.photo(), msgCoopTextOnly)
	expectReply(t, h.send(Input{Document: true}), msgCoopTextOnly)
	expectReply(t, h.text("مشاور هستم"), fmt.Sprintf(msgCoopResumeShort, 50))
	h.expectStep(flowCooperation, stepCoopResume)

	expectReply(t, h.text(resume), msgCoopSuccess)
	h.expectIdle()
	f := h.notes.last(notify.Cooperation)
	if f == nil || f["city"] != "شیراز" || f["phone"] != "09121234567" {
		t.Fatalf("cooperation notification = %v", f)
	}

	h.stg.SetCooperationStatus(h.chat, models.CooperationRejected)
	h.text(btnCooperation)
	h.text("09121234567")
	h.text(testCode)
	h.text("تهران")
	expectReply(t, h.text(resume), msgCoopUpdated)

	if c := h.stg.Counts(); c.Cooperations != 1 {
		t.Fatalf("cooperations = %d", c.Cooperations)
	}
	if n, _ := h.stg.Cooperation().CountByStatus(context.Background(), models.CooperationPending); n != 1 {
		t.Fatalf("resubmission not pending again")
	}
}

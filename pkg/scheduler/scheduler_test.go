package scheduler

import (
	"context"
	"testing"

	"storebot/pkg/logger"
	"storebot/pkg/models"
	"storebot/pkg/notify"
	"storebot/service"
	"storebot/storage/memory"
)

type recorder struct {
	event  string
	fields notify.Fields
}

func (r *recorder) Notify(_ context.Context, event string, fields notify.Fields) {
	r.event, r.fields = event, fields
}

func TestSendDigest(t *testing.T) {
	ctx := context.Background()
	stg := memory.New()
	if _, err := stg.User().Approve(ctx, models.Registration{TelegramID: 1, FullName: "علی رضایی", Phone: "09121234567", NationalID: "0012345679"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, _, err := stg.CRM().Upsert(ctx, "09121234567"); err != nil {
		t.Fatalf("crm: %v", err)
	}
	if _, _, err := stg.Cooperation().Upsert(ctx, &models.Cooperation{TelegramID: 2, Phone: "09351112233", City: "شیراز", ResumeText: "..."}); err != nil {
		t.Fatalf("cooperation: %v", err)
	}

	rec := &recorder{}
	s, err := New("0 9 * * *", service.NewDigestService(stg, logger.NewNop()), rec, logger.NewNop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Stop()

	if err := s.SendDigest(ctx); err != nil {
		t.Fatalf("send digest: %v", err)
	}
	if rec.event != notify.Digest {
		t.Fatalf("event = %q", rec.event)
	}
	want := notify.Fields{
		"pending_orders": "0", "unpaid_slots": "0", "open_crm": "1",
		"pending_cooperation": "1", "approved_users": "1",
	}
	for k, v := range want {
		if rec.fields[k] != v {
			t.Errorf("%s = %q, want %q", k, rec.fields[k], v)
		}
	}
}

func TestNewRejectsBadSpec(t *testing.T) {
	stg := memory.New()
	if _, err := New("every morning", service.NewDigestService(stg, logger.NewNop()), notify.Nop{}, logger.NewNop()); err == nil {
		t.Fatalf("bad crontab accepted")
	}
}

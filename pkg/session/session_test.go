package session

import (
	"context"
	"testing"
)

func TestSessionData(t *testing.T) {
	var s Session
	if got := s.Get("phone", "none"); got != "none" {
		t.Fatalf("default = %q", got)
	}
	s.Set("phone", "09123456789")
	s.SetInt64("order", 42)

	if got := s.Get("phone", ""); got != "09123456789" {
		t.Errorf("phone = %q", got)
	}
	if n, ok := s.Int64("order"); !ok || n != 42 {
		t.Errorf("order = %d, %v", n, ok)
	}
	if _, ok := s.Int64("phone"); ok {
		t.Errorf("non numeric value parsed")
	}

	s.Start("purchase", "ask_referral")
	if s.Get("phone", "") != "" {
		t.Errorf("Start kept data from the previous flow")
	}
	if !s.Active() {
		t.Errorf("started session is not active")
	}
	s.Reset()
	if s.Active() {
		t.Errorf("reset session is active")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s, err := store.Load(ctx, 1)
	if err != nil || s == nil || s.Active() {
		t.Fatalf("missing session = %+v, %v", s, err)
	}

	s.Start("registration", "ask_name")
	s.Set("full_name", "علی رضایی")
	if err := store.Save(ctx, 1, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	s.Set("full_name", "changed")

	got, _ := store.Load(ctx, 1)
	if got.Step != "ask_name" || got.Get("full_name", "") != "علی رضایی" {
		t.Fatalf("loaded = %+v", got)
	}

	other, _ := store.Load(ctx, 2)
	if other.Active() {
		t.Fatalf("sessions leaked across conversations")
	}

	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = store.Load(ctx, 1)
	if got.Active() {
		t.Fatalf("cleared session still active")
	}
}

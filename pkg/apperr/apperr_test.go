package apperr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection reset")
	wrapped := fmt.Errorf("place order: %w", E(KindPersistence, "order.create", base))

	if got := KindOf(wrapped); got != KindPersistence {
		t.Fatalf("kind = %s, want %s", got, KindPersistence)
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("wrapped error lost its cause")
	}
	if got := KindOf(base); got != KindUnknown {
		t.Fatalf("plain error kind = %s", got)
	}
	if Is(nil, KindPersistence) {
		t.Fatalf("nil error reported a kind")
	}
}

func TestErrorWithoutCause(t *testing.T) {
	err := E(KindNotFound, "product.get", nil)
	if err.Error() != "product.get: not_found" {
		t.Fatalf("message = %q", err.Error())
	}
	if !Is(err, KindNotFound) {
		t.Fatalf("kind not detected")
	}
}

func TestStackAndCause(t *testing.T) {
	base := errors.New("dial tcp: timeout")
	err := E(KindExternal, "otp.send", base)

	if errors.Cause(err) != base {
		t.Fatalf("cause = %v", errors.Cause(err))
	}
	stack := Stack(err)
	if !strings.HasPrefix(stack, "otp.send: dial tcp: timeout") {
		t.Fatalf("stack head = %q", stack)
	}
	if !strings.Contains(stack, "TestStackAndCause") {
		t.Fatalf("stack has no call site:\n%s", stack)
	}
	if Stack(E(KindNotFound, "product.get", nil)) == "" {
		t.Fatalf("bare error rendered empty")
	}
}

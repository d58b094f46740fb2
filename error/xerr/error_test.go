package xerr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestError_MessageIncludesCause(t *testing.T) {
	cause := errors.New("dsn is empty")
	err := New(NewSimpleReason(CodeConfiguration, "sentry setup"), cause)

	if got := err.Error(); got != "sentry setup: dsn is empty" {
		t.Fatalf("unexpected message: %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
}

func TestError_IsMatchesOnReasonCode(t *testing.T) {
	sentinel := New(NewSimpleReason(CodeConfiguration, "configuration error"), nil)
	err := Configuration(CodeConfiguration, "missing dsn", nil)

	if !errors.Is(err, sentinel) {
		t.Fatal("expected errors with the same code to match")
	}

	other := Configuration(CodeUnknownFlavor, "unknown flavor", nil)
	if errors.Is(other, sentinel) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestError_IsThroughFmtWrap(t *testing.T) {
	sentinel := New(NewSimpleReason(CodeUnknownFlavor, "unknown flavor"), nil)
	wrapped := fmt.Errorf("otelx: setup: %w", Configuration(CodeUnknownFlavor, "no flavor", nil))

	if !errors.Is(wrapped, sentinel) {
		t.Fatal("expected match through fmt.Errorf wrapping")
	}
	if !HasCode(wrapped, CodeUnknownFlavor) {
		t.Fatal("expected HasCode to find the code")
	}
	if HasCode(errors.New("plain"), CodeUnknownFlavor) {
		t.Fatal("plain errors carry no code")
	}
}

func TestConfiguration_TransportCodes(t *testing.T) {
	err := Configuration(CodeConfiguration, "missing dsn", nil)

	if got := ErrorToHTTPStatus(err); got != http.StatusInternalServerError {
		t.Errorf("expected http 500, got %d", got)
	}
	if got := ErrorToGRPCCode(err); got != codes.FailedPrecondition {
		t.Errorf("expected FailedPrecondition, got %s", got)
	}
	if got := ErrorToHTTPStatus(nil); got != http.StatusOK {
		t.Errorf("expected http 200 for nil, got %d", got)
	}
}

func TestWrap_ReplacesReasonOnExistingError(t *testing.T) {
	base := New(NewSimpleReason(CodeUnknownFlavor, "first"), nil)
	wrapped := Wrap(base, NewSimpleReason(CodeConfiguration, "second"))

	if wrapped.Reason().Code() != CodeConfiguration {
		t.Fatalf("expected reason to be replaced, got %s", wrapped.Reason().Code())
	}

	plain := Wrap(errors.New("boom"), NewSimpleReason(CodeConfiguration, "setup"))
	if plain.Cause() == nil || plain.Cause().Error() != "boom" {
		t.Fatalf("expected cause to be kept, got %v", plain.Cause())
	}
}

func TestError_MetadataIsCopied(t *testing.T) {
	err := New(NewSimpleReason(CodeConfiguration, "x"), nil).WithMetadata("flavor", "function")

	md := err.Metadata()
	md["flavor"] = "server"

	if err.Metadata()["flavor"] != "function" {
		t.Fatal("metadata should not be mutable from the outside")
	}
}

func TestError_FormatPlusVIncludesStack(t *testing.T) {
	err := New(NewSimpleReason(CodeConfiguration, "with stack"), nil)

	out := fmt.Sprintf("%+v", err)
	if !strings.HasPrefix(out, "with stack\n") {
		t.Fatalf("expected message first, got %q", out)
	}
	if !strings.Contains(out, "TestError_FormatPlusVIncludesStack") {
		t.Fatalf("expected calling test in the stack, got %q", out)
	}
	if len(err.StackTrace().Frames()) == 0 {
		t.Fatal("expected captured frames")
	}
}

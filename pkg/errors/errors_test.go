package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	t.Parallel()

	err := New(CodeNotFound, "product missing")
	if err.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if err.Error() != "NOT_FOUND: product missing" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeDependency, cause, "network connection issue")
	if err.Unwrap() != cause {
		t.Fatalf("expected cause preserved")
	}
	if !IsCode(err, CodeDependency) {
		t.Fatalf("expected dependency code")
	}
}

func TestAsFindsWrappedError(t *testing.T) {
	t.Parallel()

	inner := New(CodeUnauthorized, "credential rejected")
	outer := fmt.Errorf("fetching cart: %w", inner)

	typed := As(outer)
	if typed == nil || typed.Code() != CodeUnauthorized {
		t.Fatalf("expected unauthorized error through wrapping, got %v", typed)
	}
	if !IsCode(outer, CodeUnauthorized) {
		t.Fatalf("IsCode missed wrapped code")
	}
}

func TestUserMessageFallsBackForUnknownErrors(t *testing.T) {
	t.Parallel()

	if msg := UserMessage(fmt.Errorf("boom")); msg != "something went wrong, please try again" {
		t.Fatalf("unexpected fallback message %q", msg)
	}
	if msg := UserMessage(New(CodeDependency, "x")); msg != "server error, please try again later" {
		t.Fatalf("unexpected dependency message %q", msg)
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal metadata, got %+v", meta)
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "invalid input").WithDetails(map[string]string{"email": "must be valid"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["email"] != "must be valid" {
		t.Fatalf("unexpected details %v", err.Details())
	}
}

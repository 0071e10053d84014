package identity

import (
	"testing"

	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
)

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	valid := Credentials{Email: "a@example.com", Password: "longenough"}
	if err := validateStruct(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := validateStruct(Credentials{Email: "not-an-email", Password: "short"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %v", pkgerrors.As(err).Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["password"] != "must be at least 8 characters" {
		t.Fatalf("unexpected password message %q", details["password"])
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	t.Parallel()

	err := validateStruct(RegisterRequest{Email: "a@example.com", Password: "longenough"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing first name, got %v", err)
	}
	details := pkgerrors.As(err).Details().(map[string]string)
	if details["firstName"] != "is required" {
		t.Fatalf("expected json field names in details, got %v", details)
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := validateEmail("a@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateEmail("nope"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

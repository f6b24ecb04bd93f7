package portal

import "testing"

func TestPassword_NewAndValidate(t *testing.T) {
	pw, err := NewPassword("secret")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !pw.Is("secret") {
		t.Fatalf("password validation failed")
	}

	if pw.Is("other") {
		t.Fatalf("password should not match")
	}

	if pw.GetHash() == "" || pw.GetHash() == "secret" {
		t.Fatalf("hash was not produced")
	}
}

func TestPassword_FromHash(t *testing.T) {
	pw, err := NewPassword("secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored := PasswordFromHash(pw.GetHash())
	if !restored.Is("secret") {
		t.Fatalf("restored hash should validate")
	}

	if PasswordFromHash("").Is("") {
		t.Fatalf("empty hash must never validate")
	}
}

func TestPassword_RejectsEmpty(t *testing.T) {
	if _, err := NewPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

package cli

import (
	"bufio"
	"errors"
	"strings"
	"testing"
)

func TestReadLine(t *testing.T) {
	_ = captureOutput(t, func() {
		value, err := ReadLine(bufio.NewReader(strings.NewReader("  admin \n")), "Login: ")
		if err != nil {
			t.Fatalf("read line: %v", err)
		}

		if value != "admin" {
			t.Fatalf("expected admin, got %q", value)
		}
	})
}

func TestReadLineWithoutTrailingNewline(t *testing.T) {
	_ = captureOutput(t, func() {
		value, err := ReadLine(bufio.NewReader(strings.NewReader("admin")), "Login: ")
		if err != nil || value != "admin" {
			t.Fatalf("expected admin, got %q (%v)", value, err)
		}
	})
}

func TestReadLineRejectsEmptyInput(t *testing.T) {
	_ = captureOutput(t, func() {
		if _, err := ReadLine(bufio.NewReader(strings.NewReader("   \n")), "Login: "); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("expected ErrEmptyInput, got %v", err)
		}
	})
}

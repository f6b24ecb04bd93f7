package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, f func()) string {
	t.Helper()

	var buf bytes.Buffer
	old := Output
	Output = &buf

	t.Cleanup(func() { Output = old })

	f()

	return buf.String()
}

func TestMessageFunctions(t *testing.T) {
	tests := []struct {
		name   string
		colour string
		call   func()
	}{
		{"Error", RedColour, func() { Error("x") }},
		{"Errorln", RedColour, func() { Errorln("x") }},
		{"Success", GreenColour, func() { Success("x") }},
		{"Successln", GreenColour, func() { Successln("x") }},
		{"Warning", YellowColour, func() { Warning("x") }},
		{"Warningln", YellowColour, func() { Warningln("x") }},
		{"Magentaln", MagentaColour, func() { Magentaln("x") }},
		{"Blueln", BlueColour, func() { Blueln("x") }},
		{"Cyanln", CyanColour, func() { Cyanln("x") }},
		{"Grayln", GrayColour, func() { Grayln("x") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.call)

			if !strings.HasPrefix(out, tt.colour+"x"+Reset) {
				t.Fatalf("unexpected output %q", out)
			}
		})
	}
}

func TestLineVariantsEndWithNewline(t *testing.T) {
	if out := captureOutput(t, func() { Successln("done") }); !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected newline, got %q", out)
	}

	if out := captureOutput(t, func() { Success("done") }); strings.HasSuffix(out, "\n") {
		t.Fatalf("unexpected newline in %q", out)
	}
}

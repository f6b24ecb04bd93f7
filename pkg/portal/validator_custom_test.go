package portal

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type cronConfig struct {
	Spec string `validate:"cron"`
}

type slugConfig struct {
	Slug string `validate:"nicename"`
}

func TestCronValidation(t *testing.T) {
	v := MakeValidatorFrom(validator.New(validator.WithRequiredStructEnabled()))

	valid := cronConfig{Spec: "0 3 * * *"}
	if ok, err := v.Passes(valid); !ok || err != nil {
		t.Fatalf("expected cron validation to pass: %v", v.GetErrors())
	}

	invalid := cronConfig{Spec: "invalid"}
	if ok, err := v.Passes(invalid); ok || err == nil {
		t.Fatalf("expected cron validation to fail")
	}
}

func TestNicenameValidation(t *testing.T) {
	v := MakeValidatorFrom(validator.New(validator.WithRequiredStructEnabled()))

	cases := map[string]bool{
		"blog":        true,
		"travel-2024": true,
		"Blog":        false,
		"two words":   false,
		"":            false,
		"café":        false,
	}

	for value, expected := range cases {
		ok, _ := v.Passes(slugConfig{Slug: value})

		if ok != expected {
			t.Errorf("nicename %q: expected %v got %v", value, expected, ok)
		}
	}
}

package portal

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Stringable struct {
	value string
}

func NewStringable(value string) *Stringable {
	return &Stringable{
		value: strings.TrimSpace(value),
	}
}

func (s Stringable) ToLower() string {
	caser := cases.Lower(language.Und)

	return strings.TrimSpace(caser.String(s.value))
}

// ToNicename lower-cases the value, drops everything outside [a-z0-9] and
// whitespace, and joins the remaining words with single dashes. Dashes count
// as whitespace so a nicename maps onto itself.
func (s Stringable) ToNicename() string {
	var kept strings.Builder

	for _, r := range s.ToLower() {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			kept.WriteRune(r)
		case unicode.IsSpace(r), r == '-':
			kept.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(kept.String()), "-")
}

// ToDatetime parses the value leniently, accepting RSS, ISO and MySQL style
// layouts. Results are normalised to UTC.
func (s Stringable) ToDatetime() (*time.Time, error) {
	if s.value == "" {
		return nil, fmt.Errorf("error parsing date string: empty value")
	}

	parsed, err := dateparse.ParseIn(s.value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("error parsing date string [%s]: %w", s.value, err)
	}

	// WordPress writes year -0001 or 0000 for posts that were never published.
	if parsed.Year() < 1 {
		return nil, fmt.Errorf("error parsing date string [%s]: zero date", s.value)
	}

	produce := parsed.UTC()

	return &produce, nil
}

func (s Stringable) FirstLine() string {
	line, _, _ := strings.Cut(s.value, "\n")

	return strings.TrimSpace(line)
}

func MakeNicename(display string) string {
	return NewStringable(display).ToNicename()
}

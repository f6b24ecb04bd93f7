package importer

import (
	"fmt"
	"strings"
)

const (
	KindAuthor     = "author"
	KindTag        = "tag"
	KindCategory   = "category"
	KindPost       = "post"
	KindAttachment = "attachment"
)

type Tally struct {
	Created int
	Skipped int
	Failed  int
}

// Failure records an entity the importer could not store or fetch.
type Failure struct {
	Kind   string
	Key    string
	Reason string
}

type Report struct {
	Authors     Tally
	Tags        Tally
	Categories  Tally
	Posts       Tally
	Attachments Tally
	Converted   int
	// MissingReferences counts post authors, tags and categories that were
	// named by a post but not present in the database.
	MissingReferences int
	Failures          []Failure
}

func (r *Report) tally(kind string) *Tally {
	switch kind {
	case KindAuthor:
		return &r.Authors
	case KindTag:
		return &r.Tags
	case KindCategory:
		return &r.Categories
	case KindPost:
		return &r.Posts
	default:
		return &r.Attachments
	}
}

func (r *Report) record(kind, outcome string) {
	tally := r.tally(kind)

	switch outcome {
	case outcomeCreated:
		tally.Created++
	case outcomeSkipped:
		tally.Skipped++
	case outcomeFailed:
		tally.Failed++
	}

	entitiesTotal.WithLabelValues(kind, outcome).Inc()
}

func (r *Report) fail(kind, key string, err error) {
	r.record(kind, outcomeFailed)
	r.Failures = append(r.Failures, Failure{Kind: kind, Key: key, Reason: err.Error()})
}

func (r *Report) Lines() []string {
	row := func(label string, t Tally) string {
		return fmt.Sprintf("%-12s created: %d, skipped: %d, failed: %d", label, t.Created, t.Skipped, t.Failed)
	}

	lines := []string{
		row("authors", r.Authors),
		row("tags", r.Tags),
		row("categories", r.Categories),
		row("posts", r.Posts),
		row("attachments", r.Attachments),
		fmt.Sprintf("%-12s %d", "converted", r.Converted),
		fmt.Sprintf("%-12s %d", "missing refs", r.MissingReferences),
	}

	for _, failure := range r.Failures {
		lines = append(lines, fmt.Sprintf("failed %s [%s]: %s", failure.Kind, failure.Key, failure.Reason))
	}

	return lines
}

func (r *Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

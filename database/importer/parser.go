package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkpress/database"
	"github.com/inkpress/database/repository"
	"github.com/inkpress/pkg/portal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
)

// ErrMissingReference is returned in strict mode when a post names an author,
// tag or category that is not in the database.
var ErrMissingReference = errors.New("missing reference")

// Parser saves the entities of one WXR document into a single subsite. Every
// save is keyed by natural identity, so running it twice writes nothing new.
type Parser struct {
	Doc     *Document
	Subsite string
	Strict  bool

	Authors    repository.Authors
	Tags       repository.Tags
	Categories repository.Categories
	Posts      repository.Posts

	report *Report
}

func NewParser(conn *database.Connection, doc *Document, subsite string) *Parser {
	return &Parser{
		Doc:        doc,
		Subsite:    subsite,
		Authors:    repository.Authors{DB: conn},
		Tags:       repository.Tags{DB: conn},
		Categories: repository.Categories{DB: conn},
		Posts:      repository.Posts{DB: conn},
		report:     &Report{},
	}
}

func (p *Parser) Report() *Report {
	return p.report
}

// SaveAll stores authors, tags, categories and posts, in that order.
func (p *Parser) SaveAll(ctx context.Context) error {
	steps := []func(context.Context) error{
		p.SaveAuthors,
		p.SaveTags,
		p.SaveCategories,
		p.SavePosts,
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := step(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (p *Parser) SaveAuthors(ctx context.Context) error {
	_, span := tracer.Start(ctx, "importer.SaveAuthors")
	defer span.End()

	for _, item := range p.Doc.Channel.Authors {
		login := strings.TrimSpace(item.Login)

		_, created, err := p.Authors.InsertIfMissing(database.AuthorsAttrs{
			Login:       login,
			Email:       strings.TrimSpace(item.Email),
			DisplayName: html.UnescapeString(item.DisplayName),
			FirstName:   html.UnescapeString(item.FirstName),
			LastName:    html.UnescapeString(item.LastName),
		})

		if err := p.outcome(KindAuthor, login, created, err); err != nil {
			return err
		}
	}

	span.SetAttributes(attribute.Int("authors.created", p.report.Authors.Created))

	return nil
}

func (p *Parser) SaveTags(ctx context.Context) error {
	_, span := tracer.Start(ctx, "importer.SaveTags")
	defer span.End()

	for _, item := range p.Doc.Channel.Tags {
		slug := strings.TrimSpace(item.Slug)

		_, created, err := p.Tags.InsertIfMissing(database.TagsAttrs{
			Subsite:     p.Subsite,
			Nicename:    slug,
			DisplayName: html.UnescapeString(item.Name),
		})

		if err := p.outcome(KindTag, slug, created, err); err != nil {
			return err
		}
	}

	span.SetAttributes(attribute.Int("tags.created", p.report.Tags.Created))

	return nil
}

// SaveCategories inserts every category first and links parents afterwards,
// so a child may appear before its parent in the document.
func (p *Parser) SaveCategories(ctx context.Context) error {
	_, span := tracer.Start(ctx, "importer.SaveCategories")
	defer span.End()

	var fresh []WXRCategory

	for _, item := range p.Doc.Channel.Categories {
		nicename := strings.TrimSpace(item.Nicename)

		_, created, err := p.Categories.InsertIfMissing(database.CategoriesAttrs{
			Subsite:     p.Subsite,
			Nicename:    nicename,
			DisplayName: html.UnescapeString(item.Name),
		})

		if err := p.outcome(KindCategory, nicename, created, err); err != nil {
			return err
		}

		if created && strings.TrimSpace(item.Parent) != "" {
			fresh = append(fresh, item)
		}
	}

	for _, item := range fresh {
		_, err := p.Categories.AddParent(p.Subsite, strings.TrimSpace(item.Nicename), strings.TrimSpace(item.Parent))
		if err == nil {
			continue
		}

		if _, ok := database.AsValidationError(err); ok && !p.Strict {
			slog.Warn("Skipping category parent", "category", item.Nicename, "parent", item.Parent, "reason", err.Error())
			p.report.MissingReferences++

			continue
		}

		return fmt.Errorf("link category [%s] to [%s]: %w", item.Nicename, item.Parent, err)
	}

	span.SetAttributes(attribute.Int("categories.created", p.report.Categories.Created))

	return nil
}

func (p *Parser) SavePosts(ctx context.Context) error {
	_, span := tracer.Start(ctx, "importer.SavePosts")
	defer span.End()

	for _, item := range p.Doc.ItemsOfType(PostTypePost) {
		if err := ctx.Err(); err != nil {
			return err
		}

		attrs := p.postAttrs(item)

		if p.Posts.Exists(p.Subsite, attrs.GetNicename()) {
			p.report.record(KindPost, outcomeSkipped)

			continue
		}

		if err := p.checkReferences(attrs); err != nil {
			return err
		}

		_, created, err := p.Posts.InsertIfMissing(attrs)

		if err := p.outcome(KindPost, attrs.GetNicename(), created, err); err != nil {
			return err
		}
	}

	span.SetAttributes(attribute.Int("posts.created", p.report.Posts.Created))

	return nil
}

func (p *Parser) postAttrs(item Item) database.PostsAttrs {
	title := html.UnescapeString(strings.TrimSpace(item.Title))

	nicename := strings.TrimSpace(item.PostName)
	if nicename == "" {
		nicename = database.MakeNicename(title)
	}

	status := database.StatusDraft
	if strings.TrimSpace(item.Status) == database.StatusPublish {
		status = database.StatusPublish
	}

	var logins []string
	if creator := strings.TrimSpace(item.Creator); creator != "" {
		logins = append(logins, creator)
	}

	return database.PostsAttrs{
		Subsite:       p.Subsite,
		DisplayTitle:  title,
		Nicename:      nicename,
		Content:       item.Content(),
		Excerpt:       item.Excerpt(),
		Status:        status,
		DatePublished: parseDate(item.PubDate),
		DateUpdated:   parseDate(item.PostDate),
		AuthorLogins:  logins,
		Tags:          item.TermNicenames(domainTag),
		Categories:    item.TermNicenames(domainCategory),
	}
}

// checkReferences counts the references a post names but the database lacks.
// In strict mode the first one aborts the import.
func (p *Parser) checkReferences(attrs database.PostsAttrs) error {
	var missing []string

	for _, login := range attrs.AuthorLogins {
		if !p.Authors.Exists(login) {
			missing = append(missing, "author "+login)
		}
	}

	for _, nicename := range attrs.Tags {
		if !p.Tags.Exists(p.Subsite, nicename) {
			missing = append(missing, "tag "+nicename)
		}
	}

	for _, nicename := range attrs.Categories {
		if !p.Categories.Exists(p.Subsite, nicename) {
			missing = append(missing, "category "+nicename)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	if p.Strict {
		return fmt.Errorf("%w: post [%s] names %s", ErrMissingReference, attrs.GetNicename(), strings.Join(missing, ", "))
	}

	p.report.MissingReferences += len(missing)

	return nil
}

func (p *Parser) outcome(kind, key string, created bool, err error) error {
	if err != nil {
		if p.Strict {
			return fmt.Errorf("save %s [%s]: %w", kind, key, err)
		}

		slog.Warn("Skipping import entity", "kind", kind, "key", key, "reason", err.Error())
		p.report.fail(kind, key, err)

		return nil
	}

	if created {
		p.report.record(kind, outcomeCreated)
	} else {
		p.report.record(kind, outcomeSkipped)
	}

	return nil
}

func parseDate(value string) *time.Time {
	parsed, err := portal.NewStringable(value).ToDatetime()
	if err != nil {
		return nil
	}

	return parsed
}

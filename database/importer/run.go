package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkpress/pkg/markup"
	"github.com/inkpress/pkg/media"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Options struct {
	Attachments bool
	FilesDir    string
	Convert     bool
	Fetcher     *media.Fetcher
}

// Run saves the document, then optionally downloads its attachments and
// rewrites shortcodes in the subsite's posts.
func (p *Parser) Run(ctx context.Context, opts Options) (*Report, error) {
	ctx, span := tracer.Start(ctx, "importer.Run")
	defer span.End()

	span.SetAttributes(attribute.String("subsite", p.Subsite), attribute.Bool("strict", p.Strict))

	if err := p.SaveAll(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")

		return p.report, err
	}

	if opts.Attachments {
		fetcher := opts.Fetcher
		if fetcher == nil {
			fetcher = media.NewFetcher(media.DefaultMaxBytes)
		}

		if err := p.FetchAttachments(ctx, fetcher, opts.FilesDir); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "attachments failed")

			return p.report, err
		}
	}

	if opts.Convert {
		if err := p.ConvertMarkup(ctx); err != nil {
			span.RecordError(err)

			return p.report, err
		}
	}

	return p.report, nil
}

// FetchAttachments downloads every attachment item into dir. Files already
// present are left alone.
func (p *Parser) FetchAttachments(ctx context.Context, fetcher *media.Fetcher, dir string) error {
	ctx, span := tracer.Start(ctx, "importer.FetchAttachments")
	defer span.End()

	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("attachments directory is required")
	}

	for _, item := range p.Doc.ItemsOfType(PostTypeAttachment) {
		if err := ctx.Err(); err != nil {
			return err
		}

		source := strings.TrimSpace(item.AttachmentURL)
		if source == "" {
			continue
		}

		result, err := fetcher.Download(ctx, source, dir)
		if err != nil {
			if p.Strict {
				return fmt.Errorf("fetch attachment [%s]: %w", source, err)
			}

			slog.Warn("Attachment download failed", "url", source, "reason", err.Error())
			p.report.fail(KindAttachment, source, err)

			continue
		}

		if result.Skipped {
			p.report.record(KindAttachment, outcomeSkipped)

			continue
		}

		attachmentBytesTotal.Add(float64(result.Bytes))
		p.report.record(KindAttachment, outcomeCreated)
	}

	span.SetAttributes(attribute.Int("attachments.created", p.report.Attachments.Created))

	return nil
}

// ConvertMarkup rewrites WordPress shortcodes in every post of the subsite.
func (p *Parser) ConvertMarkup(ctx context.Context) error {
	_, span := tracer.Start(ctx, "importer.ConvertMarkup")
	defer span.End()

	changed, err := p.Posts.ConvertMarkup(p.Subsite, markup.Convert)
	if err != nil {
		return err
	}

	p.report.Converted += changed
	span.SetAttributes(attribute.Int("posts.converted", changed))

	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/inkpress/database"
	"github.com/inkpress/database/importer"
	"github.com/inkpress/metal/env"
	"github.com/inkpress/metal/kernel"
	"github.com/inkpress/pkg/cli"
	"github.com/inkpress/pkg/media"
	"github.com/inkpress/pkg/portal"
)

type flags struct {
	file        string
	subsite     string
	attachments bool
	convert     bool
	strict      bool
	fresh       bool
}

func main() {
	var opts flags

	flag.StringVar(&opts.file, "file", "", "path to the WordPress export (WXR) file")
	flag.StringVar(&opts.subsite, "subsite", "", "subsite receiving the content (defaults to the first configured one)")
	flag.BoolVar(&opts.attachments, "attachments", false, "download attachments into the importer files dir")
	flag.BoolVar(&opts.convert, "convert", false, "rewrite [caption] and [code] shortcodes after saving")
	flag.BoolVar(&opts.strict, "strict", false, "abort on the first missing reference or failed download")
	flag.BoolVar(&opts.fresh, "fresh", false, "truncate every table before importing (local only)")
	flag.Parse()

	if err := run(opts); err != nil {
		cli.Errorln(err.Error())
		os.Exit(1)
	}
}

func run(opts flags) error {
	if opts.file == "" {
		return errors.New("missing required --file flag pointing to a WXR export")
	}

	environment, err := kernel.Ignite("./.env", portal.GetDefaultValidator())
	if err != nil {
		return err
	}

	subsite := opts.subsite
	if subsite == "" {
		subsite = environment.Site.Default()
	}

	if !environment.Site.Has(subsite) {
		return fmt.Errorf("unknown subsite [%s]; configured: %v", subsite, environment.Site.Subsites)
	}

	sentryHub := kernel.MakeSentry(environment)
	dbConnection := kernel.MakeDbConnection(environment)
	logs := kernel.MakeLogs(environment)
	tracing := kernel.MakeTracing(environment)

	defer sentry.Flush(2 * time.Second)
	defer logs.Close()
	defer dbConnection.Close()
	defer func() { _ = tracing.Shutdown() }()
	defer kernel.RecoverWithSentry(sentryHub)

	if err := dbConnection.Migrate(); err != nil {
		return err
	}

	if opts.fresh {
		if err := truncate(dbConnection, environment); err != nil {
			return err
		}
	}

	doc, err := importer.LoadFile(opts.file)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	parser := importer.NewParser(dbConnection, doc, subsite)
	parser.Strict = opts.strict

	cli.Blueln(fmt.Sprintf("Importing [%s] into subsite [%s] ...", opts.file, subsite))

	report, err := parser.Run(ctx, importer.Options{
		Attachments: opts.attachments,
		FilesDir:    environment.Importer.FilesDir,
		Convert:     opts.convert,
		Fetcher:     media.NewFetcher(int64(environment.Importer.MaxAttachmentBytes)),
	})

	for _, line := range report.Lines() {
		cli.Grayln(line)
	}

	if err != nil {
		return err
	}

	cli.Successln("WordPress export imported successfully ...")

	return nil
}

func truncate(conn *database.Connection, environment *env.Environment) error {
	if !environment.App.IsLocal() {
		return fmt.Errorf("--fresh can only run in the local environment (current: %s)", environment.App.Type)
	}

	if err := conn.Truncate(); err != nil {
		return err
	}

	cli.Warningln("db truncated before import ...")

	return nil
}

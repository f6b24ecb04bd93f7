package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/inkpress/database/backup"
	"github.com/inkpress/metal/kernel"
	"github.com/inkpress/pkg/cli"
	"github.com/inkpress/pkg/portal"
	"github.com/inkpress/pkg/scheduler"
)

const jobTimeout = 30 * time.Minute

func main() {
	once := flag.Bool("once", false, "take one backup and exit")
	keep := flag.Int("keep", 14, "number of dumps to keep; 0 keeps every dump")
	flag.Parse()

	if err := run(*once, *keep); err != nil {
		cli.Errorln(err.Error())
		os.Exit(1)
	}
}

func run(once bool, keep int) error {
	environment, err := kernel.Ignite("./.env", portal.GetDefaultValidator())
	if err != nil {
		return err
	}

	sentryHub := kernel.MakeSentry(environment)
	logs := kernel.MakeLogs(environment)

	defer sentry.Flush(2 * time.Second)
	defer logs.Close()
	defer kernel.RecoverWithSentry(sentryHub)

	dumper, err := backup.New(environment, backup.WithKeep(keep))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if once {
		path, err := dumper.Run(ctx)
		if err != nil {
			return err
		}

		cli.Successln("Backup written to " + path)

		return nil
	}

	job, err := scheduler.New("database-backup", environment.Backup.Cron, func(ctx context.Context) error {
		if err := dumper.Job(ctx); err != nil {
			sentry.CaptureException(err)

			return err
		}

		return nil
	}, scheduler.WithJobTimeout(jobTimeout))

	if err != nil {
		return err
	}

	if err := job.Start(ctx); err != nil {
		return err
	}

	cli.Blueln("Backups scheduled with [" + environment.Backup.Cron + "] into " + environment.Backup.Dir)

	<-ctx.Done()
	job.Stop()

	return nil
}

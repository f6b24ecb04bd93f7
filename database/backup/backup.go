package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/inkpress/metal/env"
)

const filePrefix = "inkpress-"

// Runner abstracts the dump binaries so the backups can be tested without
// pg_dump or sqlite3 installed.
type Runner interface {
	Run(ctx context.Context, name string, args []string, env map[string]string) error
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string, envVars map[string]string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), flattenEnv(envVars)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(string(output)))
	}

	return nil
}

type Backup struct {
	db     env.DBEnvironment
	dir    string
	keep   int
	runner Runner
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Backup)

func WithRunner(runner Runner) Option {
	return func(b *Backup) {
		if runner != nil {
			b.runner = runner
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Backup) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Backup) {
		if now != nil {
			b.now = now
		}
	}
}

// WithKeep bounds how many dumps stay on disk. Zero keeps everything.
func WithKeep(keep int) Option {
	return func(b *Backup) {
		if keep >= 0 {
			b.keep = keep
		}
	}
}

func New(environment *env.Environment, opts ...Option) (*Backup, error) {
	if environment == nil {
		return nil, errors.New("backup: environment cannot be nil")
	}

	if strings.TrimSpace(environment.Backup.Dir) == "" {
		return nil, errors.New("backup: the backup directory is required")
	}

	b := &Backup{
		db:     environment.DB,
		dir:    environment.Backup.Dir,
		runner: ExecRunner{},
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Run writes one dump and prunes the old ones. It returns the dump path.
func (b *Backup) Run(ctx context.Context) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	stamp := b.now().UTC().Format("20060102T150405Z")

	var (
		path string
		err  error
	)

	switch b.db.DriverName {
	case env.SQLiteDriver:
		path = filepath.Join(b.dir, filePrefix+"sqlite-"+stamp+".db")
		err = b.runner.Run(ctx, "sqlite3", []string{sqliteFile(b.db.SQLitePath), ".backup '" + path + "'"}, nil)
	case env.PostgresDriver, "":
		path = filepath.Join(b.dir, filePrefix+"postgres-"+stamp+".sql")
		err = b.runner.Run(ctx, "pg_dump", b.pgDumpArgs(path), b.pgDumpEnv())
	default:
		return "", fmt.Errorf("backup: unsupported driver [%s]", b.db.DriverName)
	}

	if err != nil {
		return "", err
	}

	b.logger.Info("database backup created", "path", path)

	if err := b.prune(); err != nil {
		b.logger.Warn("could not prune old backups", "error", err)
	}

	return path, nil
}

// Job adapts Run to the scheduler signature.
func (b *Backup) Job(ctx context.Context) error {
	_, err := b.Run(ctx)

	return err
}

func (b *Backup) pgDumpArgs(path string) []string {
	return []string{
		"--host", b.db.Host,
		"--port", strconv.Itoa(b.db.Port),
		"--username", b.db.UserName,
		"--file", path,
		"--no-owner",
		"--no-privileges",
		b.db.DatabaseName,
	}
}

func (b *Backup) pgDumpEnv() map[string]string {
	vars := map[string]string{"PGPASSWORD": b.db.UserPassword}

	if b.db.SSLMode != "" {
		vars["PGSSLMODE"] = b.db.SSLMode
	}

	return vars
}

// prune removes the oldest dumps beyond keep. The timestamp in the file name
// sorts lexically.
func (b *Backup) prune() error {
	if b.keep == 0 {
		return nil
	}

	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return err
	}

	var dumps []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), filePrefix) {
			dumps = append(dumps, entry.Name())
		}
	}

	if len(dumps) <= b.keep {
		return nil
	}

	sort.Slice(dumps, func(i, j int) bool {
		return stampOf(dumps[i]) < stampOf(dumps[j])
	})

	for _, name := range dumps[:len(dumps)-b.keep] {
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
			return err
		}
	}

	return nil
}

func stampOf(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if i := strings.LastIndex(name, "-"); i >= 0 {
		return name[i+1:]
	}

	return name
}

// sqliteFile strips the URI form gorm accepts ("file:x.db?_foreign_keys=on").
func sqliteFile(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "file:")

	if i := strings.Index(dsn, "?"); i >= 0 {
		dsn = dsn[:i]
	}

	return dsn
}

func flattenEnv(envVars map[string]string) []string {
	if len(envVars) == 0 {
		return nil
	}

	values := make([]string, 0, len(envVars))
	for key, value := range envVars {
		values = append(values, key+"="+value)
	}

	return values
}

package media

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

const (
	DefaultMaxBytes  = 20 << 20
	defaultUserAgent = "inkpress-importer/1.0"
	acceptEncoding   = "br, gzip, zstd"
)

var ErrEmptyPayload = errors.New("empty attachment payload")

type Fetcher struct {
	Client    *http.Client
	MaxBytes  int64
	UserAgent string
}

// Result describes one attachment download. Skipped is set when the target
// file was already present and nothing was fetched.
type Result struct {
	Source  string
	Path    string
	Bytes   int
	Format  string
	Skipped bool
}

func NewFetcher(maxBytes int64) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &Fetcher{
		Client:    &http.Client{Timeout: 30 * time.Second},
		MaxBytes:  maxBytes,
		UserAgent: defaultUserAgent,
	}
}

// Download stores the attachment behind source in dir, keeping its base name.
// Image payloads must decode before they are written.
func (f *Fetcher) Download(ctx context.Context, source, dir string) (Result, error) {
	result := Result{Source: source}

	parsed, err := url.Parse(strings.TrimSpace(source))
	if err != nil {
		return result, fmt.Errorf("parse attachment url: %w", err)
	}

	name, err := FileName(parsed)
	if err != nil {
		return result, err
	}

	result.Path = filepath.Join(dir, name)

	if _, err := os.Stat(result.Path); err == nil {
		result.Skipped = true

		return result, nil
	}

	reader, contentType, encoding, err := f.open(ctx, parsed)
	if err != nil {
		return result, err
	}

	payload, err := readPayload(reader, f.MaxBytes)
	if err != nil {
		return result, err
	}

	if IsImage(name, contentType) {
		format, decoded, err := validateImage(payload, f.MaxBytes)
		if err != nil {
			return result, newDecodeError(err, payload, contentType, encoding)
		}

		result.Format = format
		payload = decoded
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("create attachments dir: %w", err)
	}

	if err := writeAtomically(result.Path, payload); err != nil {
		return result, err
	}

	result.Bytes = len(payload)

	return result, nil
}

// FileName returns the base name of the url path, refusing names that would
// escape the target directory.
func FileName(u *url.URL) (string, error) {
	base := path.Base(strings.ReplaceAll(u.Path, "\\", "/"))

	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}

	base = strings.TrimSpace(base)

	if base == "" || base == "." || base == "/" || base == ".." || strings.ContainsAny(base, `/\`) {
		return "", fmt.Errorf("attachment url [%s] has no file name", u.String())
	}

	return base, nil
}

func (f *Fetcher) open(ctx context.Context, parsed *url.URL) (io.ReadCloser, string, string, error) {
	switch parsed.Scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
		if err != nil {
			return nil, "", "", fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Accept-Encoding", acceptEncoding)
		req.Header.Set("User-Agent", f.UserAgent)

		client := f.Client
		if client == nil {
			client = http.DefaultClient
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, "", "", fmt.Errorf("download attachment: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			defer resp.Body.Close()

			return nil, "", "", fmt.Errorf("download attachment: unexpected status %s", resp.Status)
		}

		reader, encoding, err := wrapHTTPBody(resp)
		if err != nil {
			return nil, "", "", err
		}

		return reader, resp.Header.Get("Content-Type"), encoding, nil
	case "file", "":
		reader, err := openLocal(parsed)

		return reader, "", "", err
	default:
		return nil, "", "", fmt.Errorf("unsupported attachment scheme: %s", parsed.Scheme)
	}
}

func wrapHTTPBody(resp *http.Response) (io.ReadCloser, string, error) {
	encoding := strings.TrimSpace(strings.ToLower(resp.Header.Get("Content-Encoding")))
	if idx := strings.IndexRune(encoding, ','); idx >= 0 {
		encoding = encoding[:idx]
	}

	switch encoding {
	case "br":
		return composedReadCloser{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}, encoding, nil
	case "gzip":
		reader, err := gzip.NewReader(resp.Body)
		if err != nil {
			_ = resp.Body.Close()

			return nil, encoding, fmt.Errorf("prepare gzip decoder: %w", err)
		}

		return composedReadCloser{Reader: reader, Closer: multiCloser{reader, resp.Body}}, encoding, nil
	case "zstd", "zstandard":
		decoder, err := zstd.NewReader(resp.Body)
		if err != nil {
			_ = resp.Body.Close()

			return nil, encoding, fmt.Errorf("prepare zstd decoder: %w", err)
		}

		return composedReadCloser{Reader: decoder, Closer: multiCloser{closeFunc(decoder.Close), resp.Body}}, encoding, nil
	default:
		return resp.Body, encoding, nil
	}
}

func openLocal(parsed *url.URL) (io.ReadCloser, error) {
	value := parsed.Path
	if value == "" {
		value = parsed.Opaque
	}

	if parsed.Host != "" {
		value = "//" + parsed.Host + value
	}

	return os.Open(value)
}

func readPayload(reader io.ReadCloser, limit int64) ([]byte, error) {
	defer reader.Close()

	data, err := readLimited(reader, limit)
	if err != nil {
		return nil, fmt.Errorf("read attachment payload: %w", err)
	}

	return data, nil
}

func readLimited(reader io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > limit {
		return nil, fmt.Errorf("payload exceeds %d bytes", limit)
	}

	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	return data, nil
}

func writeAtomically(target string, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".attachment-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write attachment: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close attachment: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("move attachment into place: %w", err)
	}

	return nil
}

type composedReadCloser struct {
	io.Reader
	io.Closer
}

type closeFunc func()

func (f closeFunc) Close() error {
	f()

	return nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var errs []error

	for _, closer := range m {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

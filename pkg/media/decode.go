package media

import (
	"bytes"
	"compress/gzip"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	_ "github.com/gen2brain/avif"
	"github.com/klauspost/compress/zstd"
	_ "golang.org/x/image/webp"
)

var imageExtensions = map[string]struct{}{
	".avif": {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".webp": {},
}

func IsImage(name, contentType string) bool {
	if _, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return true
	}

	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// validateImage checks that data holds a decodable image. Some servers send
// compressed bytes without a Content-Encoding header, so each known
// compression is tried before giving up. The returned bytes are the ones that
// decoded.
func validateImage(data []byte, limit int64) (string, []byte, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		return format, data, nil
	}

	lastErr := err

	for _, decode := range []func([]byte, int64) ([]byte, error){tryBrotliDecode, tryGzipDecode, tryZstdDecode} {
		expanded, err := decode(data, limit)
		if err != nil {
			continue
		}

		_, format, err := image.DecodeConfig(bytes.NewReader(expanded))
		if err == nil {
			return format, expanded, nil
		}

		lastErr = err
	}

	return "", nil, lastErr
}

func tryBrotliDecode(data []byte, limit int64) ([]byte, error) {
	return readLimited(brotli.NewReader(bytes.NewReader(data)), limit)
}

func tryGzipDecode(data []byte, limit int64) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1F || data[1] != 0x8B {
		return nil, errors.New("not gzip")
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return readLimited(reader, limit)
}

func tryZstdDecode(data []byte, limit int64) ([]byte, error) {
	if len(data) < 4 || data[0] != 0x28 || data[1] != 0xB5 || data[2] != 0x2F || data[3] != 0xFD {
		return nil, errors.New("not zstd")
	}

	decoder, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	return readLimited(decoder, limit)
}

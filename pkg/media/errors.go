package media

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
)

// DecodeError is returned when an attachment looks like an image but none of
// the registered decoders accept it.
type DecodeError struct {
	Err             error
	ContentType     string
	ContentEncoding string
	SniffedType     string
	Size            int
	Hash            string
}

func newDecodeError(err error, payload []byte, contentType, encoding string) *DecodeError {
	sum := sha256.Sum256(payload)

	return &DecodeError{
		Err:             err,
		ContentType:     strings.TrimSpace(contentType),
		ContentEncoding: strings.TrimSpace(encoding),
		SniffedType:     http.DetectContentType(payload[:min(len(payload), 512)]),
		Size:            len(payload),
		Hash:            hex.EncodeToString(sum[:]),
	}
}

func (e *DecodeError) Error() string {
	var b strings.Builder

	b.WriteString("decode image (")

	for _, field := range [][2]string{
		{"content-type", e.ContentType},
		{"content-encoding", e.ContentEncoding},
	} {
		if field[1] != "" {
			fmt.Fprintf(&b, "%s %q, ", field[0], field[1])
		}
	}

	fmt.Fprintf(&b, "sniffed %q, size %d bytes, sha256 %s): %v", e.SniffedType, e.Size, e.Hash, e.Err)

	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

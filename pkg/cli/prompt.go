package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrEmptyInput = errors.New("input cannot be empty")

// ReadLine prints the label and returns the next trimmed, non-empty line.
func ReadLine(reader *bufio.Reader, label string) (string, error) {
	Cyan(label)

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	value := strings.TrimSpace(line)
	if value == "" {
		return "", ErrEmptyInput
	}

	return value, nil
}

// ReadSecret reads a line from the terminal without echoing it. When stdin is
// not a terminal it falls back to a plain read so scripts can pipe values in.
func ReadSecret(reader *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return ReadLine(reader, label)
	}

	Cyan(label)

	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(Output)

	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}

	value := strings.TrimSpace(string(secret))
	if value == "" {
		return "", ErrEmptyInput
	}

	return value, nil
}

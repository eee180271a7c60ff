package core

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotPlainText = errors.New("please upload a .txt file")

// Transcript is a chat export on local disk selected for upload.
type Transcript struct {
	Path string
	Name string
}

func NewTranscript(path string) Transcript {
	return Transcript{Path: path, Name: filepath.Base(path)}
}

func (t Transcript) String() string { return t.Name }

// OpenTranscript resolves path and checks that it names a plain-text file:
// either a .txt extension or content sniffed as text/plain.
func OpenTranscript(path string) (Transcript, error) {
	path = CleanDroppedPath(path)
	if path == "" {
		return Transcript{}, ErrNotPlainText
	}
	info, err := os.Stat(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("opening %s: %w", path, err)
	}
	if info.IsDir() {
		return Transcript{}, fmt.Errorf("%s is a directory: %w", path, ErrNotPlainText)
	}
	if HasTextExtension(path) {
		return NewTranscript(path), nil
	}
	ok, err := sniffPlainText(path)
	if err != nil {
		return Transcript{}, err
	}
	if !ok {
		return Transcript{}, ErrNotPlainText
	}
	return NewTranscript(path), nil
}

func HasTextExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

func sniffPlainText(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if n == 0 {
		return false, nil
	}
	return strings.HasPrefix(http.DetectContentType(buf[:n]), "text/plain"), nil
}

// CleanDroppedPath normalizes a path pasted by a terminal drag and drop:
// surrounding quotes, backslash-escaped spaces and file:// prefixes.
func CleanDroppedPath(raw string) string {
	p := strings.TrimSpace(raw)
	if len(p) >= 2 {
		if (p[0] == '\'' && p[len(p)-1] == '\'') || (p[0] == '"' && p[len(p)-1] == '"') {
			p = p[1 : len(p)-1]
		}
	}
	p = strings.TrimPrefix(p, "file://")
	p = strings.ReplaceAll(p, `\ `, " ")
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return p
}

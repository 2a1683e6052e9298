package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements Sender for local development. It writes each message
// to a directory instead of delivering it: the HTML body as a .html file you
// can open in a browser, the plain-text body as .txt when present, and a
// .json sidecar with the envelope metadata.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender writing into dir. The directory
// is created on first send if it does not exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devMetadata struct {
	Timestamp string `json:"timestamp"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

// Send writes the message to the configured directory.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrSendFailed, err)
	}

	now := time.Now()
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), filenameFor(msg))

	if msg.HTML != "" {
		htmlPath := filepath.Join(d.dir, base+".html")
		if err := os.WriteFile(htmlPath, []byte(msg.HTML), 0o644); err != nil {
			return fmt.Errorf("%w: failed to write HTML file: %v", ErrSendFailed, err)
		}
	}
	if msg.Text != "" {
		textPath := filepath.Join(d.dir, base+".txt")
		if err := os.WriteFile(textPath, []byte(msg.Text), 0o644); err != nil {
			return fmt.Errorf("%w: failed to write text file: %v", ErrSendFailed, err)
		}
	}

	meta, err := json.MarshalIndent(devMetadata{
		Timestamp: now.Format(time.RFC3339),
		To:        msg.To,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrSendFailed, err)
	}

	jsonPath := filepath.Join(d.dir, base+".json")
	if err := os.WriteFile(jsonPath, meta, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write JSON file: %v", ErrSendFailed, err)
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// filenameFor derives a filesystem-safe identifier from the tag, falling back
// to the subject.
func filenameFor(msg Message) string {
	s := msg.Tag
	if s == "" {
		s = msg.Subject
	}

	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}

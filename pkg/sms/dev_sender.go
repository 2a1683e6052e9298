package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DevSender implements Sender for local development, writing each message as
// a JSON file instead of calling a provider.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender writing into dir. The directory
// is created on first send if it does not exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

// Send writes the message to the configured directory.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrSendFailed, err)
	}

	out, err := json.MarshalIndent(struct {
		Timestamp string `json:"timestamp"`
		Message
	}{
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   msg,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal message: %v", ErrSendFailed, err)
	}

	name := fmt.Sprintf("%s_sms_%s.json", time.Now().Format("2006_01_02_150405"), msg.To)
	if err := os.WriteFile(filepath.Join(d.dir, name), out, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write file: %v", ErrSendFailed, err)
	}

	return nil
}

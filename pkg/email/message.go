package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Sender delivers a composed message. Implementations own transport,
// credentials and any retry policy; this package only defines the seam.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a fully composed outbound email. At least one of HTML or Text
// must be set; Tag is an optional label used for grouping and filenames.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
	Tag     string `json:"tag,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks that the message is complete enough to hand to a Sender.
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: To is required", ErrInvalidMessage)
	}
	if !emailRegex.MatchString(strings.TrimSpace(m.To)) {
		return fmt.Errorf("%w: To must be a valid email address", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.HTML) == "" && strings.TrimSpace(m.Text) == "" {
		return fmt.Errorf("%w: HTML or Text body is required", ErrInvalidMessage)
	}
	return nil
}

package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Sender delivers a composed SMS. Implementations own the provider API,
// credentials and any retry policy.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a template SMS: the provider resolves TemplateID and substitutes
// Variables on its side. To is the recipient mobile number including the
// country prefix, digits only.
type Message struct {
	TemplateID string            `json:"template_id"`
	To         string            `json:"to"`
	Variables  map[string]string `json:"variables,omitempty"`
}

var mobileRegex = regexp.MustCompile(`^[0-9]{8,15}$`)

// Validate checks that the message is complete enough to hand to a Sender.
func (m Message) Validate() error {
	if strings.TrimSpace(m.TemplateID) == "" {
		return fmt.Errorf("%w: TemplateID is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: To is required", ErrInvalidMessage)
	}
	if !mobileRegex.MatchString(m.To) {
		return fmt.Errorf("%w: To must be a mobile number with country prefix, digits only", ErrInvalidMessage)
	}
	return nil
}

// FlowPayload builds the provider request body for the template flow API:
// the template ID plus one recipient entry carrying the mobile number and the
// template variables merged in.
func (m Message) FlowPayload() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	recipient := make(map[string]string, len(m.Variables)+1)
	for k, v := range m.Variables {
		recipient[k] = v
	}
	recipient["mobiles"] = m.To

	payload := struct {
		TemplateID string              `json:"template_id"`
		ShortURL   string              `json:"short_url"`
		Recipients []map[string]string `json:"recipients"`
	}{
		TemplateID: m.TemplateID,
		ShortURL:   "0",
		Recipients: []map[string]string{recipient},
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", ErrSendFailed, err)
	}
	return b, nil
}

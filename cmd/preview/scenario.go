package main

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/medflowhq/apptkit/pkg/appointment"
)

//go:embed scenarios.yaml
var scenariosYAML []byte

// Scenario is one sample appointment record shipped with the preview binary.
type Scenario struct {
	Name   string
	Title  string
	Record appointment.Record
}

type scenarioDoc struct {
	Scenarios []scenarioEntry `yaml:"scenarios"`
}

type scenarioEntry struct {
	Name   string      `yaml:"name"`
	Title  string      `yaml:"title"`
	Record recordEntry `yaml:"record"`
}

type recordEntry struct {
	Patient struct {
		ID           string `yaml:"id"`
		Name         string `yaml:"name"`
		Email        string `yaml:"email"`
		MobileNumber string `yaml:"mobile_number"`
	} `yaml:"patient"`
	Doctor struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
		Phone string `yaml:"phone"`
	} `yaml:"doctor"`
	Appointment struct {
		ID           string    `yaml:"id"`
		Status       string    `yaml:"status"`
		Notes        string    `yaml:"notes"`
		Date         time.Time `yaml:"date"`
		StartsAt     time.Time `yaml:"starts_at"`
		EndsAt       time.Time `yaml:"ends_at"`
		ShareOnEmail bool      `yaml:"share_on_email"`
		ShareOnSMS   bool      `yaml:"share_on_sms"`
	} `yaml:"appointment"`
}

func (e recordEntry) toRecord() appointment.Record {
	return appointment.Record{
		Patient: appointment.Patient{
			ID:           e.Patient.ID,
			Name:         e.Patient.Name,
			Email:        e.Patient.Email,
			MobileNumber: e.Patient.MobileNumber,
		},
		Doctor: appointment.Doctor{
			ID:    e.Doctor.ID,
			Name:  e.Doctor.Name,
			Email: e.Doctor.Email,
			Phone: e.Doctor.Phone,
		},
		Appointment: appointment.Appointment{
			ID:           e.Appointment.ID,
			Status:       appointment.Status(e.Appointment.Status),
			Notes:        e.Appointment.Notes,
			Date:         e.Appointment.Date,
			StartsAt:     e.Appointment.StartsAt,
			EndsAt:       e.Appointment.EndsAt,
			ShareOnEmail: e.Appointment.ShareOnEmail,
			ShareOnSMS:   e.Appointment.ShareOnSMS,
		},
	}
}

// loadScenarios decodes the embedded sample records. Every record is
// validated here so a broken fixture fails the binary at startup rather than
// on the first preview request.
func loadScenarios() ([]Scenario, error) {
	var doc scenarioDoc
	if err := yaml.Unmarshal(scenariosYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if len(doc.Scenarios) == 0 {
		return nil, errors.New("no scenarios defined")
	}

	seen := make(map[string]bool, len(doc.Scenarios))
	scenarios := make([]Scenario, 0, len(doc.Scenarios))
	for _, entry := range doc.Scenarios {
		if entry.Name == "" {
			return nil, errors.New("scenario without a name")
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("duplicate scenario %q", entry.Name)
		}
		seen[entry.Name] = true

		rec := entry.Record.toRecord()
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", entry.Name, err)
		}

		scenarios = append(scenarios, Scenario{
			Name:   entry.Name,
			Title:  entry.Title,
			Record: rec,
		})
	}

	return scenarios, nil
}

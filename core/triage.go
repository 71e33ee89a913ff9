// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Triage is the stored questionnaire of an appointment, plus the analysis outcome once available.
type Triage struct {
	ID            string          `json:"id"`
	AppointmentID string          `json:"agendamento_id"`
	Answers       json.RawMessage `json:"respostas_triagem"`
	RiskAlert     bool            `json:"alerta_risco"`
	Opinion       string          `json:"parecer_ia"`
	CreatedAt     string          `json:"created_at"`
}

// PetMeta holds the pet details the backend stores alongside the answers.
type PetMeta struct {
	AgeYears  int64
	AgeMonths int64
	Sex       string
	WeightKg  float64
}

// TutorMeta holds the tutor contact details stored alongside the answers.
type TutorMeta struct {
	Phone string
	Email string
}

// Analyzed reports whether an opinion has been recorded for the triage.
func (t Triage) Analyzed() bool {
	return t.Opinion != ""
}

// Questionnaire decodes the answers. Unknown members are ignored.
func (t Triage) Questionnaire() (Questionnaire, error) {
	var q Questionnaire

	if len(t.Answers) == 0 {
		return q, nil
	}

	if err := json.Unmarshal(t.Answers, &q); err != nil {
		return q, fmt.Errorf("%w: %w", errInvalidJSON, err)
	}

	return q, nil
}

// PetMeta returns the "_meta_pet" member of the answers.
func (t Triage) PetMeta() PetMeta {
	meta := gjson.GetBytes(t.Answers, "_meta_pet")

	return PetMeta{
		AgeYears:  meta.Get("idade_anos").Int(),
		AgeMonths: meta.Get("idade_meses").Int(),
		Sex:       meta.Get("sexo").String(),
		WeightKg:  meta.Get("peso_kg").Float(),
	}
}

// TutorMeta returns the "_meta_tutor" member of the answers.
func (t Triage) TutorMeta() TutorMeta {
	meta := gjson.GetBytes(t.Answers, "_meta_tutor")

	return TutorMeta{
		Phone: meta.Get("telefone").String(),
		Email: meta.Get("email").String(),
	}
}

// ListTriages returns every triage of the current tenant, newest first.
func (c *Client) ListTriages(ctx context.Context) ([]Triage, error) {
	return list[Triage](ctx, c, c.TenantID(), c.endpoint("triagens", ""))
}

// GetTriage returns the triage of an appointment.
//
// Note that the backend keys this endpoint by appointment, not by triage.
func (c *Client) GetTriage(ctx context.Context, appointmentID string) (Triage, error) {
	if appointmentID == "" {
		return Triage{}, ErrEmptyID
	}

	return call[Triage](ctx, c, c.TenantID(), http.MethodGet, c.endpoint("triagens", appointmentID), nil)
}

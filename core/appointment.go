// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/http"
	"time"
)

// DateLayout is the format of appointment dates on the wire.
const DateLayout = "2006-01-02"

// Appointment status values reported in status_ia.
const (
	StatusPending  = "Pendente"
	StatusAnalyzed = "Analisado"
)

// Questionnaire holds the answers to the clinical triage questionnaire.
type Questionnaire struct {
	Cough                    bool   `json:"tosse"`
	Sneeze                   bool   `json:"espirro"`
	Vomit                    bool   `json:"vomito"`
	Diarrhea                 bool   `json:"diarreia"`
	AppetiteLoss             bool   `json:"perda_apetite"`
	WeightLoss               bool   `json:"perda_peso"`
	Apathy                   bool   `json:"apatia"`
	Fainting                 bool   `json:"desmaio"`
	Seizure                  bool   `json:"convulsao"`
	BreathingDifficulty      bool   `json:"dificuldade_respirar"`
	NasalDischarge           bool   `json:"secrecao_nasal"`
	EyeDischarge             bool   `json:"secrecao_ocular"`
	SkinLesions              bool   `json:"lesoes_pele"`
	Allergies                bool   `json:"alergias"`
	PreviousSurgery          bool   `json:"cirurgia_anterior"`
	OnMedication             bool   `json:"medicacao_uso"`
	VaccinesUpToDate         bool   `json:"vacinas_em_dia"`
	Fasting12h               bool   `json:"jejum_12h"`
	UnderstoodAnestheticRisk bool   `json:"entendeu_risco_anestesico"`
	Notes                    string `json:"observacoes"`
}

// AppointmentCreate is the payload of a new booking.
type AppointmentCreate struct {
	// Tutor
	TutorName  string `json:"nome_tutor"`
	TutorCPF   string `json:"cpf_tutor"`
	TutorPhone string `json:"telefone_tutor"`
	TutorEmail string `json:"email_tutor"`

	// Pet
	PetName   string  `json:"nome_animal"`
	Species   string  `json:"especie"`
	Breed     string  `json:"raca"`
	Size      string  `json:"porte"`
	AgeYears  int     `json:"idade_anos"`
	AgeMonths int     `json:"idade_meses"`
	Sex       string  `json:"sexo"`
	WeightKg  float64 `json:"peso_kg"`

	// Date is formatted with DateLayout.
	Date string `json:"data_atendimento"`

	Triage Questionnaire `json:"triagem"`
}

// SetDate formats t into Date.
func (a *AppointmentCreate) SetDate(t time.Time) {
	a.Date = t.Format(DateLayout)
}

// Appointment is a booking as stored by the backend.
type Appointment struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	TutorName string `json:"nome_tutor"`
	TutorCPF  string `json:"cpf_tutor"`
	PetName   string `json:"nome_animal"`
	Species   string `json:"especie"`
	Breed     string `json:"raca"`
	Size      string `json:"porte"`
	Date      string `json:"data_atendimento"`
	Status    string `json:"status_ia"`
	CreatedAt string `json:"created_at"`
}

// Pending reports whether the triage of the appointment has not been analyzed yet.
func (a Appointment) Pending() bool {
	return a.Status == "" || a.Status == StatusPending
}

// CreateAppointment books a new appointment.
func (c *Client) CreateAppointment(ctx context.Context, data AppointmentCreate) (Appointment, error) {
	return call[Appointment](ctx, c, c.TenantID(), http.MethodPost, c.endpoint("agendamentos", ""), data)
}

// ListAppointments returns every appointment of the current tenant, newest first.
func (c *Client) ListAppointments(ctx context.Context) ([]Appointment, error) {
	return list[Appointment](ctx, c, c.TenantID(), c.endpoint("agendamentos", ""))
}

// GetAppointment returns a single appointment.
func (c *Client) GetAppointment(ctx context.Context, id string) (Appointment, error) {
	if id == "" {
		return Appointment{}, ErrEmptyID
	}

	return call[Appointment](ctx, c, c.TenantID(), http.MethodGet, c.endpoint("agendamentos", id), nil)
}

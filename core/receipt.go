// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Receipt is the HTML booking receipt rendered by the backend.
//
// The document is kept as received; the accessors read it with goquery.
type Receipt struct {
	raw []byte
	doc *goquery.Document
}

// ReceiptField is one label/value pair of a receipt section.
type ReceiptField struct {
	Label string
	Value string
}

// ReceiptSection groups the fields under one heading.
type ReceiptSection struct {
	Heading string
	Fields  []ReceiptField
}

// ParseReceipt parses an HTML receipt document.
func ParseReceipt(body []byte) (*Receipt, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt document: %w", err)
	}

	return &Receipt{raw: body, doc: doc}, nil
}

// HTML returns the document as received.
func (r *Receipt) HTML() []byte {
	return r.raw
}

// Title returns the document title.
func (r *Receipt) Title() string {
	return collapse(r.doc.Find("title").First().Text())
}

// Protocol returns the booking protocol number, which is the appointment ID.
func (r *Receipt) Protocol() string {
	text := collapse(r.doc.Find(".protocolo").First().Text())

	if _, after, ok := strings.Cut(text, ":"); ok {
		return strings.TrimSpace(after)
	}

	return text
}

// RiskAlert reports whether the receipt carries the risk alert banner.
func (r *Receipt) RiskAlert() bool {
	return r.doc.Find(".alerta").Length() > 0
}

// Opinion returns the analysis opinion, or "" if the triage was not analyzed.
func (r *Receipt) Opinion() string {
	return collapse(r.doc.Find(".parecer").First().Text())
}

// Notice returns the mandatory notice shown to the tutor.
func (r *Receipt) Notice() string {
	return collapse(r.doc.Find(".aviso").First().Text())
}

// Sections returns every section that lists fields, in document order.
func (r *Receipt) Sections() []ReceiptSection {
	var sections []ReceiptSection

	r.doc.Find(".section").Each(func(_ int, sel *goquery.Selection) {
		items := sel.Find(".info-item")
		if items.Length() == 0 {
			return
		}

		section := ReceiptSection{
			Heading: collapse(sel.Find("h2").First().Text()),
			Fields:  make([]ReceiptField, 0, items.Length()),
		}

		items.Each(func(_ int, item *goquery.Selection) {
			section.Fields = append(section.Fields, ReceiptField{
				Label: collapse(item.Find(".label").Text()),
				Value: collapse(item.Find(".value").Text()),
			})
		})

		sections = append(sections, section)
	})

	return sections
}

// Fields returns the fields of every section, in document order.
func (r *Receipt) Fields() []ReceiptField {
	var fields []ReceiptField

	for _, s := range r.Sections() {
		fields = append(fields, s.Fields...)
	}

	return fields
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ReceiptData is the structured form of a receipt.
type ReceiptData struct {
	Protocol string `json:"protocolo"`
	Animal   struct {
		Name     string  `json:"nome"`
		Age      string  `json:"idade"`
		Species  string  `json:"especie"`
		Breed    string  `json:"raca"`
		Size     string  `json:"porte"`
		Sex      string  `json:"sexo"`
		WeightKg float64 `json:"peso_kg"`
	} `json:"animal"`
	Tutor struct {
		Name  string `json:"nome"`
		CPF   string `json:"cpf"`
		Phone string `json:"telefone"`
	} `json:"tutor"`
	Date      string `json:"data_atendimento"`
	Status    string `json:"status_ia"`
	Opinion   string `json:"parecer_ia"`
	RiskAlert bool   `json:"alerta_risco"`
	Notice    string `json:"aviso_obrigatorio"`
	Contact   struct {
		Email   string `json:"email"`
		Phone   string `json:"telefone"`
		Address string `json:"endereco"`
	} `json:"contato"`
	IssuedAt string `json:"emitido_em"`
}

// GenerateReceipt fetches the HTML receipt of an appointment.
func (c *Client) GenerateReceipt(ctx context.Context, appointmentID string) (*Receipt, error) {
	if appointmentID == "" {
		return nil, ErrEmptyID
	}

	body, err := c.fetch(ctx, c.TenantID(), http.MethodGet, c.endpoint("comprovantes", appointmentID), nil)
	if err != nil {
		return nil, err
	}

	return ParseReceipt(body)
}

// GenerateReceiptData fetches the structured receipt of an appointment.
func (c *Client) GenerateReceiptData(ctx context.Context, appointmentID string) (ReceiptData, error) {
	if appointmentID == "" {
		return ReceiptData{}, ErrEmptyID
	}

	return call[ReceiptData](ctx, c, c.TenantID(), http.MethodGet, c.endpoint("comprovantes", appointmentID, "json"), nil)
}

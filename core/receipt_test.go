// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/sepet/sepet/core/requests"
)

func TestParseReceipt(t *testing.T) {
	t.Parallel()

	body, err := os.ReadFile("testdata/receipt.html")
	require.NoError(t, err)

	receipt, err := ParseReceipt(body)
	require.NoError(t, err)

	assert.Equal(t, "Comprovante de Agendamento – SEPET", receipt.Title())
	assert.Equal(t, "5f1c2a9e", receipt.Protocol())
	assert.True(t, receipt.RiskAlert())
	assert.Equal(t, "Avaliar convulsões antes da anestesia.", receipt.Opinion())
	assert.Equal(t, "⚠️ AVISO OBRIGATÓRIO: O questionário de triagem clínica é indispensável para a anestesia.", receipt.Notice())
	assert.Equal(t, body, receipt.HTML())

	sections := receipt.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "📋 Dados do Animal", sections[0].Heading)
	assert.Equal(t, []ReceiptField{
		{Label: "Nome", Value: "Rex"},
		{Label: "Idade", Value: "2 Anos e 3 Meses"},
		{Label: "Peso", Value: "12.5 kg"},
	}, sections[0].Fields)

	fields := receipt.Fields()
	require.Len(t, fields, 5)
	assert.Equal(t, ReceiptField{Label: "Data do Atendimento", Value: "2025-03-01"}, fields[4])
}

func TestParseReceipt_WithoutAnalysis(t *testing.T) {
	t.Parallel()

	receipt, err := ParseReceipt([]byte(`<html><body><div class="protocolo">Protocolo: x</div></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "x", receipt.Protocol())
	assert.False(t, receipt.RiskAlert())
	assert.Empty(t, receipt.Opinion())
	assert.Empty(t, receipt.Sections())
}

func TestGenerateReceipt(t *testing.T) {
	t.Parallel()

	body, err := os.ReadFile("testdata/receipt.html")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/comprovantes/5f1c2a9e", r.URL.Path)
		assert.Equal(t, "tenant", r.Header.Get(TenantHeader))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	tr, err := requests.NewTransport(requests.Options{HTTPClient: srv.Client()})
	require.NoError(t, err)

	c := NewClient(srv.URL+"/api", tr, WithTenantID("tenant"))

	receipt, err := c.GenerateReceipt(context.Background(), "5f1c2a9e")
	require.NoError(t, err)
	assert.Equal(t, "5f1c2a9e", receipt.Protocol())
}

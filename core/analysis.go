// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"net/http"
)

// AnalysisCompleted is the status the backend reports for a finished analysis.
const AnalysisCompleted = "analise_concluida"

// Analysis is the outcome of a risk analysis run.
type Analysis struct {
	TriageID  string `json:"triagem_id"`
	RiskAlert bool   `json:"alerta_risco"`
	Opinion   string `json:"parecer_ia"`
	Status    string `json:"status"`
}

// Completed reports whether the backend finished the analysis.
func (a Analysis) Completed() bool {
	return a.Status == AnalysisCompleted
}

// AnalyzeTriage runs the risk analysis of a triage. The request has no body.
func (c *Client) AnalyzeTriage(ctx context.Context, triageID string) (Analysis, error) {
	if triageID == "" {
		return Analysis{}, ErrEmptyID
	}

	return call[Analysis](ctx, c, c.TenantID(), http.MethodPost, c.endpoint("analise", triageID), nil)
}

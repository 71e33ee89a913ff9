// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// OverviewEntry pairs an appointment with its triage, if any.
type OverviewEntry struct {
	Appointment Appointment
	Triage      *Triage
}

// Overview is the management listing of a tenant.
type Overview struct {
	Tenant  string
	Entries []OverviewEntry

	// Orphans are triages not attached to any entry: their appointment was
	// not listed, or a newer triage of the same appointment was attached.
	Orphans []Triage
}

// Alerts counts the entries whose triage raised a risk alert.
func (o Overview) Alerts() int {
	n := 0

	for _, e := range o.Entries {
		if e.Triage != nil && e.Triage.RiskAlert {
			n++
		}
	}

	return n
}

// Pending counts the entries still waiting for an analysis.
func (o Overview) Pending() int {
	n := 0

	for _, e := range o.Entries {
		if e.Triage == nil || !e.Triage.Analyzed() {
			n++
		}
	}

	return n
}

// LoadOverview fetches appointments and triages concurrently and joins them.
//
// Both requests are sent under the same tenant, read once before either
// starts. The first error cancels the other request and is returned.
func LoadOverview(ctx context.Context, c *Client) (Overview, error) {
	tenant := c.TenantID()

	var (
		appointments []Appointment
		triages      []Triage
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		appointments, err = list[Appointment](gctx, c, tenant, c.endpoint("agendamentos", ""))

		return err
	})

	g.Go(func() error {
		var err error

		triages, err = list[Triage](gctx, c, tenant, c.endpoint("triagens", ""))

		return err
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	// The newest triage of each appointment is attached. CreatedAt is an
	// ISO 8601 timestamp; on a tie the later one in the listing wins.
	newest := make(map[string]int, len(triages))
	for i, t := range triages {
		if prev, seen := newest[t.AppointmentID]; !seen || t.CreatedAt >= triages[prev].CreatedAt {
			newest[t.AppointmentID] = i
		}
	}

	overview := Overview{
		Tenant:  tenant,
		Entries: make([]OverviewEntry, 0, len(appointments)),
		Orphans: []Triage{},
	}

	attached := make(map[int]bool, len(appointments))

	for _, a := range appointments {
		entry := OverviewEntry{Appointment: a}

		if i, ok := newest[a.ID]; ok && !attached[i] {
			entry.Triage = &triages[i]
			attached[i] = true
		}

		overview.Entries = append(overview.Entries, entry)
	}

	for i, t := range triages {
		if !attached[i] {
			overview.Orphans = append(overview.Orphans, t)
		}
	}

	return overview, nil
}

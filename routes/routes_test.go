// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	table := Default()
	all := table.Routes()
	require.Len(t, all, 2)

	assert.Equal(t, Route{Path: "/", Name: "agendamento", View: SchedulingView, TitleKey: SchedulingTitle}, all[0])
	assert.Equal(t, Route{Path: "/gestao", Name: "gestao", View: ManagementView, TitleKey: ManagementTitle}, all[1])

	r, ok := table.Lookup("gestao")
	require.True(t, ok)
	assert.Equal(t, "/gestao", r.Path)

	_, ok = table.Lookup("missing")
	assert.False(t, ok)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	table := Default()

	tests := []struct {
		path string
		want string
	}{
		{"/", "agendamento"},
		{"", "agendamento"},
		{"/?tab=1", "agendamento"},
		{"/gestao", "gestao"},
		{"/gestao/", "gestao"},
		{"gestao", "gestao"},
		{"/gestao#top", "gestao"},
	}

	for _, tt := range tests {
		r, err := table.Match(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, r.Name, tt.path)
	}

	for _, path := range []string{"/gestao/extra", "/Gestao", "/desconhecida"} {
		_, err := table.Match(path)
		require.ErrorIs(t, err, ErrNotFound, path)
	}
}

func TestNewTable_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewTable(Route{Path: "/a"}, Route{Path: "/a/"})
	require.ErrorIs(t, err, ErrDuplicatePath)

	_, err = NewTable(Route{Path: " ", Name: "blank"})
	require.ErrorIs(t, err, ErrInvalidRoute)

	table, err := NewTable(Route{Path: "/untitled"})
	require.NoError(t, err)

	r, err := table.Match("/untitled")
	require.NoError(t, err)
	assert.Empty(t, r.TitleKey)
	assert.Empty(t, r.Title)
}

func TestRoutes_ReturnsCopy(t *testing.T) {
	t.Parallel()

	table := Default()
	all := table.Routes()
	all[0].Name = "changed"

	assert.Equal(t, "agendamento", table.Routes()[0].Name)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"":          "/",
		"/":         "/",
		"//":        "/",
		"/a/":       "/a",
		"a":         "/a",
		"/a?b=c":    "/a",
		"/a/#frag":  "/a",
		" /gestao ": "/gestao",
	} {
		assert.Equal(t, want, Normalize(in), in)
	}
}

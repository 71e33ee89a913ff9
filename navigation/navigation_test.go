// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/sepet/sepet/i18n"
	"codeberg.org/sepet/sepet/routes"
)

type mapTranslator map[string]string

func (m mapTranslator) Resolve(key string) string {
	if s, ok := m[key]; ok {
		return s
	}

	return key
}

func newStore(t *testing.T) *i18n.Store {
	t.Helper()

	catalogs, err := i18n.Embedded()
	require.NoError(t, err)

	s, err := i18n.NewStore("", i18n.DefaultLocale, catalogs)
	require.NoError(t, err)

	return s
}

func TestResolver_Title(t *testing.T) {
	t.Parallel()

	res := Resolver{Translator: mapTranslator{"k": "Translated", "empty": ""}}

	tests := []struct {
		name  string
		route routes.Route
		want  string
	}{
		{"key", routes.Route{TitleKey: "k", Title: "Literal"}, "Translated"},
		{"missing key returns key", routes.Route{TitleKey: "absent"}, "absent"},
		{"empty translation is kept", routes.Route{TitleKey: "empty", Title: "Literal"}, ""},
		{"literal", routes.Route{Title: "Literal"}, "Literal"},
		{"default", routes.Route{}, DefaultTitle},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, res.Title(tt.route), tt.name)
	}

	assert.Equal(t, "k", Resolver{}.Title(routes.Route{TitleKey: "k"}))
}

func TestPipeline_Navigate(t *testing.T) {
	t.Parallel()

	var applied []string

	p := NewPipeline(routes.Default(), newStore(t), func(title string) { applied = append(applied, title) })

	r, title, err := p.Navigate(Event{To: "/"})
	require.NoError(t, err)
	assert.Equal(t, "agendamento", r.Name)
	assert.Equal(t, "Agendamento – SEPET", title)

	r, _, err = p.Navigate(Event{From: "/", To: "/gestao"})
	require.NoError(t, err)
	assert.Equal(t, routes.ManagementView, r.View)
	assert.Equal(t, "gestao", p.Current().Name)

	_, _, err = p.Navigate(Event{From: "/gestao", To: "/nowhere"})
	require.ErrorIs(t, err, routes.ErrNotFound)
	assert.Equal(t, "gestao", p.Current().Name, "failed navigation keeps the current route")

	assert.Equal(t, []string{"Agendamento – SEPET", "Gestão – SEPET"}, applied)
}

func TestPipeline_WatchReappliesOnLocaleChange(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	var applied []string

	p := NewPipeline(routes.Default(), store, func(title string) { applied = append(applied, title) })

	_, _, err := p.Navigate(Event{To: "/gestao"})
	require.NoError(t, err)

	stop := p.Watch(store)

	require.NoError(t, store.SetLocale("en"))
	require.NoError(t, store.SetLocale("es"))
	require.ErrorIs(t, store.SetLocale("fr"), i18n.ErrUnknownLocale)

	stop()
	require.NoError(t, store.SetLocale("pt-BR"))

	assert.Equal(t, []string{"Gestão – SEPET", "Management – SEPET", "Gestión – SEPET"}, applied)
}

func TestPipeline_NilApply(t *testing.T) {
	t.Parallel()

	p := NewPipeline(routes.Default(), nil, nil)

	_, title, err := p.Navigate(Event{To: "/"})
	require.NoError(t, err)
	assert.Equal(t, string(routes.SchedulingTitle), title)
}

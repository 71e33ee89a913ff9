// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Flattens(t *testing.T) {
	t.Parallel()

	messages, err := ParseJSON([]byte(`{
		"routes": {"scheduling": "Agendamento", "nested": {"deep": "fundo"}},
		"steps": ["um", "dois"],
		"count": 3,
		"flag": true,
		"nothing": null
	}`))
	require.NoError(t, err)

	assert.Equal(t, Messages{
		"routes.scheduling":  "Agendamento",
		"routes.nested.deep": "fundo",
		"steps.0":            "um",
		"steps.1":            "dois",
		"count":              "3",
		"flag":               "true",
	}, messages)
}

func TestParseJSON_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`[]`, `"x"`, `{`, ``} {
		_, err := ParseJSON([]byte(in))
		require.ErrorIs(t, err, errInvalidCatalog, in)
	}
}

const testPO = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Language: en\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

msgid "routes.scheduling"
msgstr "Scheduling (po)"

msgid "po.only"
msgstr "from po"
`

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/pt_BR.json": {Data: []byte(`{"routes":{"scheduling":"Agendamento"}}`)},
		"locales/en.json":    {Data: []byte(`{"routes":{"scheduling":"Scheduling"}}`)},
		"locales/README.md":  {Data: []byte(`ignored`)},
		"locales/bad!.json":  {Data: []byte(`{}`)},
		"po/en.po":           {Data: []byte(testPO)},
		"po/es.po":           {Data: []byte(`msgid "po.only"` + "\n" + `msgstr "desde po"` + "\n")},
		"po/sepet.pot":       {Data: []byte(``)},
	}

	catalogs, err := LoadFS(fsys)
	require.NoError(t, err)
	require.Len(t, catalogs, 3)

	lookup := func(code, key string) string {
		text, _ := catalogs[code].Lookup(key)

		return text
	}

	assert.Equal(t, "Agendamento", lookup("pt-BR", "routes.scheduling"))
	assert.Equal(t, "Scheduling", lookup("en", "routes.scheduling"), "JSON wins over PO")
	assert.Equal(t, "from po", lookup("en", "po.only"))
	assert.Equal(t, "desde po", lookup("es", "po.only"))

	_, ok := catalogs["es"].Lookup("routes.scheduling")
	assert.False(t, ok)
}

const testPOSpanish = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Language: es\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

msgid "routes.scheduling"
msgstr "Agendamiento (po)"

msgid "routes.untranslated"
msgstr ""
`

func TestLoadFS_PluralFormsHeader(t *testing.T) {
	t.Parallel()

	catalogs, err := LoadFS(fstest.MapFS{
		"locales/pt-BR.json": {Data: []byte(`{"routes":{"scheduling":"Agendamento","untranslated":"Sem tradução"}}`)},
		"po/es.po":           {Data: []byte(testPOSpanish)},
	})
	require.NoError(t, err)

	text, ok := catalogs["es"].Lookup("routes.scheduling")
	require.True(t, ok)
	assert.Equal(t, "Agendamiento (po)", text)

	_, ok = catalogs["es"].Lookup("routes.untranslated")
	assert.False(t, ok, "empty msgstr is not a translation")

	_, ok = catalogs["es"].Lookup("")
	assert.False(t, ok, "header entry is not a message")

	s, err := NewStore("es", DefaultLocale, catalogs)
	require.NoError(t, err)
	assert.Equal(t, "Agendamiento (po)", s.Resolve("routes.scheduling"))
	assert.Equal(t, "Sem tradução", s.Resolve("routes.untranslated"))
}

func TestLoadFS_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadFS(fstest.MapFS{"locales/en.json": {Data: []byte(`[]`)}})
	require.ErrorIs(t, err, errInvalidCatalog)

	_, err = LoadFS(fstest.MapFS{
		"locales/pt-BR.json": {Data: []byte(`{}`)},
		"locales/pt_BR.json": {Data: []byte(`{}`)},
	})
	require.ErrorIs(t, err, ErrConfiguration)

	catalogs, err := LoadFS(fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, catalogs)
}

func TestEmbedded(t *testing.T) {
	t.Parallel()

	catalogs, err := Embedded()
	require.NoError(t, err)

	s, err := NewStore("", DefaultLocale, catalogs)
	require.NoError(t, err)

	codes := make([]string, 0, 3)
	for _, tag := range s.Languages() {
		codes = append(codes, tag.String())
	}

	assert.Equal(t, []string{"en", "es", "pt-BR"}, codes)

	for _, key := range []string{"routes.scheduling", "routes.management", "app.name"} {
		for _, code := range codes {
			_, ok := catalogs[code].Lookup(key)
			assert.True(t, ok, "%s missing in %s", key, code)
		}
	}

	assert.Equal(t, "Agendamento – SEPET", s.Resolve("routes.scheduling"))
	assert.Equal(t, "Gestão – SEPET", s.Resolve("routes.management"))
}

// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalogs() map[string]Catalog {
	return map[string]Catalog{
		"pt-BR": Messages{
			"routes.scheduling": "Agendamento – SEPET",
			"routes.management": "Gestão – SEPET",
			"only.pt":           "apenas pt",
			"greeting":          "Olá, {name}!",
		},
		"en": Messages{
			"routes.scheduling": "Scheduling – SEPET",
			"greeting":          "Hello, {name}!",
		},
		"es": Messages{},
	}
}

func newTestStore(t *testing.T, persisted string, opts ...Option) *Store {
	t.Helper()

	s, err := NewStore(persisted, DefaultLocale, testCatalogs(), opts...)
	require.NoError(t, err)

	return s
}

func TestNewStore_PicksPersistedOrDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		persisted string
		want      string
	}{
		{"absent", "", "pt-BR"},
		{"known", "en", "en"},
		{"canonicalised", "pt_br", "pt-BR"},
		{"unknown", "fr", "pt-BR"},
		{"garbage", "not a locale!", "pt-BR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestStore(t, tt.persisted)
			assert.Equal(t, tt.want, s.Locale())
			assert.Equal(t, "pt-BR", s.Fallback())
		})
	}
}

func TestNewStore_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	_, err := NewStore("", "fr", testCatalogs())
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewStore("", DefaultLocale, testCatalogs(), WithFallback("de"))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewStore("", "en", map[string]Catalog{"en": Messages{}, "EN": Messages{}})
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewStore("", "en", map[string]Catalog{"en": Messages{}, "???": Messages{}})
	require.ErrorIs(t, err, ErrConfiguration)

	s, err := NewStore("", DefaultLocale, testCatalogs(), WithFallback("en"))
	require.NoError(t, err)
	assert.Equal(t, "en", s.Fallback())
}

func TestResolve_FallbackChain(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "en")

	assert.Equal(t, "Scheduling – SEPET", s.Resolve("routes.scheduling"))
	assert.Equal(t, "Gestão – SEPET", s.Resolve("routes.management"), "missing in en falls back to pt-BR")
	assert.Equal(t, "does.not.exist", s.Resolve("does.not.exist"), "missing everywhere returns the key")
	assert.Empty(t, s.Resolve(""))
}

func TestResolve_FallbackIsAlwaysConsulted(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "")
	for _, code := range []string{"pt-BR", "en", "es"} {
		require.NoError(t, s.SetLocale(code))
		assert.Equal(t, "apenas pt", s.Resolve("only.pt"), code)
	}
}

func TestTr_Interpolation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "en")

	assert.Equal(t, "Hello, Ana!", s.Tr("greeting", "name", "Ana"))
	assert.Equal(t, "Hello, {name}!", s.Tr("greeting"))
	assert.Equal(t, "Hello, 3!", Key("greeting").Tr(s, "name", 3))

	assert.Panics(t, func() { s.Tr("greeting", "name") })
	assert.Panics(t, func() { s.Tr("greeting", 1, 2) })
}

func TestSetLocale_ReplaceOrReject(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "")

	require.NoError(t, s.SetLocale("es"))
	assert.Equal(t, "es", s.Locale())

	err := s.SetLocale("fr")
	require.ErrorIs(t, err, ErrUnknownLocale)
	assert.Equal(t, "es", s.Locale(), "rejected switch keeps the previous locale")

	require.ErrorIs(t, s.SetLocale(""), ErrUnknownLocale)

	require.NoError(t, s.SetLocale("EN"))
	assert.Equal(t, "en", s.Locale())
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "")

	var got []string

	unsubscribe := s.Subscribe(func(locale string) {
		got = append(got, locale+":"+s.Resolve("routes.scheduling"))
	})

	require.NoError(t, s.SetLocale("en"))
	require.NoError(t, s.SetLocale("en"))
	require.Error(t, s.SetLocale("fr"))
	require.NoError(t, s.SetLocale("pt-BR"))

	unsubscribe()
	require.NoError(t, s.SetLocale("es"))

	assert.Equal(t, []string{"en:Scheduling – SEPET", "pt-BR:Agendamento – SEPET"}, got)
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "")

	langs := s.Languages()
	require.Len(t, langs, 3)
	assert.Equal(t, "en", langs[0].String())
	assert.Equal(t, "es", langs[1].String())
	assert.Equal(t, "pt-BR", langs[2].String())

	langs[0] = langs[1]
	assert.Equal(t, "en", s.Languages()[0].String(), "result is a copy")

	assert.True(t, s.Has("pt_BR"))
	assert.False(t, s.Has("fr"))
}

// syncBuffer guards a bytes.Buffer for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestStrictMissingKeys_LogsOncePerLocaleAndKey(t *testing.T) {
	t.Parallel()

	var out syncBuffer

	s := newTestStore(t, "en", WithStrictMissingKeys(true), WithLogger(zerolog.New(&out)))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			s.Resolve("routes.management")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, strings.Count(out.String(), "Missing i18n translation"))

	s.Resolve("nowhere")
	assert.Equal(t, 3, strings.Count(out.String(), "Missing i18n translation"), "missing in en and in pt-BR")
}

func TestStrictMissingKeys_DisabledIsSilent(t *testing.T) {
	t.Parallel()

	var out syncBuffer

	s := newTestStore(t, "en", WithLogger(zerolog.New(&out)))
	s.Resolve("nowhere")

	assert.NotContains(t, out.String(), "Missing i18n translation")
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"pt-BR": "pt-BR",
		"pt_br": "pt-BR",
		"EN":    "en",
		" es ":  "es",
	} {
		got, err := Canonicalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Canonicalize("")
	require.ErrorIs(t, err, errInvalidLocaleCode)

	_, err = Canonicalize("???")
	require.ErrorIs(t, err, errInvalidLocaleCode)
}

func TestUserError(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "en")

	err := NewUserError(s, "greeting", "name", "Rex")
	assert.Equal(t, "Hello, Rex!", err.Error())
	assert.Equal(t, Key("greeting"), err.Key())
}

// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Store holds the active locale, the fallback locale and the catalogs.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	active   string
	fallback string

	catalogs map[string]Catalog
	tags     []language.Tag

	subMu       sync.Mutex
	subscribers []subscriber
	nextSubID   int

	strict bool

	// missingKeyOnce deduplicates WARN logs for missing keys in strict mode.
	// The key is locale+"\x00"+key.
	missingKeyOnce sync.Map

	logger zerolog.Logger
}

type subscriber struct {
	id int
	fn func(locale string)
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	fallback string
	strict   bool
	logger   *zerolog.Logger
}

// WithFallback sets the fallback locale. It defaults to the default locale.
func WithFallback(code string) Option {
	return func(o *storeOptions) {
		o.fallback = code
	}
}

// WithStrictMissingKeys enables logging of keys missing from the active locale.
func WithStrictMissingKeys(strict bool) Option {
	return func(o *storeOptions) {
		o.strict = strict
	}
}

// WithLogger replaces the package logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *storeOptions) {
		o.logger = &logger
	}
}

// NewStore builds a Store over catalogs.
//
// The active locale is persisted if it names a catalog, otherwise defaultCode.
// An empty persisted value means no preference was stored. NewStore fails with
// ErrConfiguration if defaultCode or the fallback locale has no catalog.
func NewStore(persisted, defaultCode string, catalogs map[string]Catalog, opts ...Option) (*Store, error) {
	var o storeOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		catalogs: make(map[string]Catalog, len(catalogs)),
		strict:   o.strict,
		logger:   log.With().Str("sys", "i18n").Logger(),
	}

	if o.logger != nil {
		s.logger = *o.logger
	}

	for code, cat := range catalogs {
		canonical, err := Canonicalize(code)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}

		if _, dup := s.catalogs[canonical]; dup {
			return nil, fmt.Errorf("%w: locale %s is defined more than once", ErrConfiguration, canonical)
		}

		s.catalogs[canonical] = cat
		s.tags = append(s.tags, language.Make(canonical))
	}

	sort.Slice(s.tags, func(i, j int) bool { return s.tags[i].String() < s.tags[j].String() })

	def, ok := s.known(defaultCode)
	if !ok {
		return nil, fmt.Errorf("%w: default locale %q has no catalog", ErrConfiguration, defaultCode)
	}

	s.fallback = def

	if o.fallback != "" {
		fb, ok := s.known(o.fallback)
		if !ok {
			return nil, fmt.Errorf("%w: fallback locale %q has no catalog", ErrConfiguration, o.fallback)
		}

		s.fallback = fb
	}

	s.active = def

	if persisted != "" {
		if code, ok := s.known(persisted); ok {
			s.active = code
		} else {
			s.logger.Warn().
				Str("persisted", persisted).
				Str("locale", def).
				Msg("Ignoring stored locale without catalog")
		}
	}

	s.logger.Info().
		Str("locale", s.active).
		Str("fallback", s.fallback).
		Int("catalogs", len(s.catalogs)).
		Msg("Initialized locale store")

	return s, nil
}

// known canonicalises code and reports whether it has a catalog.
func (s *Store) known(code string) (string, bool) {
	canonical, err := Canonicalize(code)
	if err != nil {
		return "", false
	}

	_, ok := s.catalogs[canonical]

	return canonical, ok
}

// Locale returns the active locale.
func (s *Store) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active
}

// Fallback returns the fallback locale.
func (s *Store) Fallback() string {
	return s.fallback
}

// Languages returns the locales that have a catalog.
//
// The returned slice is a copy, is sorted by tag string, and is safe to retain.
func (s *Store) Languages() []language.Tag {
	out := make([]language.Tag, len(s.tags))
	copy(out, s.tags)

	return out
}

// Has reports whether code names a locale with a catalog.
func (s *Store) Has(code string) bool {
	_, ok := s.known(code)

	return ok
}

// Resolve returns the display string for key.
//
// The active catalog is consulted first, then the fallback catalog. If neither
// has the key, the key itself is returned.
func (s *Store) Resolve(key string) string {
	s.mu.RLock()
	active, fallback := s.active, s.fallback
	s.mu.RUnlock()

	if text, ok := s.catalogs[active].Lookup(key); ok {
		return text
	}

	s.logMissingOnce(active, key)

	if fallback != active {
		if text, ok := s.catalogs[fallback].Lookup(key); ok {
			return text
		}

		s.logMissingOnce(fallback, key)
	}

	return key
}

// SetLocale switches the active locale.
//
// An unknown code is rejected with ErrUnknownLocale and the previous locale
// stays active. Subscribers are notified only when the locale changes.
func (s *Store) SetLocale(code string) error {
	canonical, ok := s.known(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLocale, code)
	}

	s.mu.Lock()
	prev := s.active
	s.active = canonical
	s.mu.Unlock()

	if prev == canonical {
		return nil
	}

	s.logger.Debug().Str("from", prev).Str("to", canonical).Msg("Locale changed")

	s.notify(canonical)

	return nil
}

// Subscribe registers fn to be called with the new locale after every change.
// Subscribers run synchronously in registration order. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(locale string)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()

		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)

				return
			}
		}
	}
}

func (s *Store) notify(locale string) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(locale)
	}
}

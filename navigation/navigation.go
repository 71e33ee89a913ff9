// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package navigation turns navigation events into document titles.
package navigation

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/sepet/sepet/routes"
)

// DefaultTitle is shown for routes that declare no title.
const DefaultTitle = "SEPET"

// Translator resolves message keys. *i18n.Store satisfies it.
type Translator interface {
	Resolve(key string) string
}

// Subscriber notifies about locale changes. *i18n.Store satisfies it.
type Subscriber interface {
	Subscribe(fn func(locale string)) (unsubscribe func())
}

// TitleSink receives the resolved title, for example to set the window title.
type TitleSink func(title string)

// Resolver computes route titles.
type Resolver struct {
	Translator Translator
}

// Title returns the title of r: the translated title key, else the literal
// title, else DefaultTitle. A route with a title key always gets whatever the
// translator resolves for it, even an empty string. Title has no side effects.
func (res Resolver) Title(r routes.Route) string {
	if r.TitleKey != "" {
		if res.Translator == nil {
			return string(r.TitleKey)
		}

		return res.Translator.Resolve(string(r.TitleKey))
	}

	if r.Title != "" {
		return r.Title
	}

	return DefaultTitle
}

// Watch applies the title of the current route again after every locale change.
// The returned function stops watching.
func (res Resolver) Watch(sub Subscriber, current func() routes.Route, apply TitleSink) (stop func()) {
	return sub.Subscribe(func(string) {
		apply(res.Title(current()))
	})
}

// Event is a navigation from one path to another. From is empty on the first navigation.
type Event struct {
	From string
	To   string
}

// Pipeline runs lookup, title resolution and application for each event.
type Pipeline struct {
	Table    *routes.Table
	Resolver Resolver
	Apply    TitleSink

	mu      sync.RWMutex
	current routes.Route

	logger *zerolog.Logger
}

// NewPipeline returns a Pipeline over table that resolves titles with tr.
func NewPipeline(table *routes.Table, tr Translator, apply TitleSink) *Pipeline {
	logger := log.With().Str("sys", "navigation").Logger()

	return &Pipeline{
		Table:    table,
		Resolver: Resolver{Translator: tr},
		Apply:    apply,
		logger:   &logger,
	}
}

// Navigate resolves ev.To and applies its title.
//
// An unmatched path returns routes.ErrNotFound unchanged and Apply is not called.
func (p *Pipeline) Navigate(ev Event) (routes.Route, string, error) {
	r, err := p.Table.Match(ev.To)
	if err != nil {
		return routes.Route{}, "", err
	}

	p.mu.Lock()
	p.current = r
	p.mu.Unlock()

	title := p.Resolver.Title(r)

	if p.logger != nil {
		p.logger.Debug().Str("from", ev.From).Str("to", r.Path).Str("title", title).Msg("Navigated")
	}

	if p.Apply != nil {
		p.Apply(title)
	}

	return r, title, nil
}

// Current returns the route of the last successful navigation.
func (p *Pipeline) Current() routes.Route {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.current
}

// Watch re-applies the current route's title whenever sub reports a locale change.
func (p *Pipeline) Watch(sub Subscriber) (stop func()) {
	return p.Resolver.Watch(sub, p.Current, func(title string) {
		if p.Apply != nil {
			p.Apply(title)
		}
	})
}

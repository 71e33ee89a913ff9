// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package routes declares the application's views and the paths that reach them.
package routes

import (
	"errors"
	"fmt"
	"strings"

	"codeberg.org/sepet/sepet/i18n"
)

var (
	// ErrNotFound is returned when no route matches a path.
	ErrNotFound = errors.New("route not found")

	// ErrDuplicatePath is returned when two routes declare the same path.
	ErrDuplicatePath = errors.New("duplicate route path")

	// ErrInvalidRoute is returned for a route without a path.
	ErrInvalidRoute = errors.New("invalid route")
)

// View identifies the component rendered for a route.
type View string

// Views rendered by the shell.
const (
	SchedulingView View = "AgendamentoView"
	ManagementView View = "GestaoView"
)

// Message keys of the route titles.
const (
	SchedulingTitle i18n.Key = "routes.scheduling"
	ManagementTitle i18n.Key = "routes.management"
)

// Route binds a path to a view and its title.
type Route struct {
	Path string
	Name string
	View View

	// TitleKey is resolved through the locale store when set.
	TitleKey i18n.Key

	// Title is used verbatim when TitleKey is empty.
	Title string
}

// Table is an immutable set of routes.
type Table struct {
	routes []Route
	byPath map[string]int
}

// NewTable builds a table, keeping the declaration order.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byPath: make(map[string]int, len(routes)),
	}

	for _, r := range routes {
		if strings.TrimSpace(r.Path) == "" {
			return nil, fmt.Errorf("%w: route %q has no path", ErrInvalidRoute, r.Name)
		}

		r.Path = Normalize(r.Path)

		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, r.Path)
		}

		t.byPath[r.Path] = len(t.routes)
		t.routes = append(t.routes, r)
	}

	return t, nil
}

// Default returns the application's route table.
func Default() *Table {
	t, err := NewTable(
		Route{Path: "/", Name: "agendamento", View: SchedulingView, TitleKey: SchedulingTitle},
		Route{Path: "/gestao", Name: "gestao", View: ManagementView, TitleKey: ManagementTitle},
	)
	if err != nil {
		panic(err)
	}

	return t
}

// Match returns the route declared for path. Matching is exact after
// normalisation; there are no patterns or wildcards.
func (t *Table) Match(path string) (Route, error) {
	p := Normalize(path)

	i, ok := t.byPath[p]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrNotFound, p)
	}

	return t.routes[i], nil
}

// Lookup returns the route with the given name.
func (t *Table) Lookup(name string) (Route, bool) {
	for _, r := range t.routes {
		if r.Name == name {
			return r, true
		}
	}

	return Route{}, false
}

// Routes returns a copy of the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)

	return out
}

// Normalize strips the query and fragment, ensures a leading slash and removes
// a trailing slash except for the root path.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	path = strings.TrimSpace(path)

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}

	return path
}

// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"strconv"

	"github.com/leonelquinteros/gotext"
	"github.com/tidwall/gjson"
)

var errInvalidCatalog = errors.New("catalog must be a JSON object")

// Catalog maps message keys to display strings. Implementations must be
// safe for concurrent reads and must not change after loading.
type Catalog interface {
	Lookup(key string) (string, bool)
}

// Messages is a flat catalog keyed by dot path.
type Messages map[string]string

// Lookup implements Catalog.
func (m Messages) Lookup(key string) (string, bool) {
	s, ok := m[key]

	return s, ok
}

// ParseJSON flattens a nested JSON catalog into dot paths.
//
// Objects contribute path segments; array elements are addressed by index
// ("steps.0"). Numbers and booleans are kept as their JSON text, nulls are skipped.
func ParseJSON(data []byte) (Messages, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidCatalog
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errInvalidCatalog
	}

	out := make(Messages)
	flatten("", root, out)

	return out, nil
}

func flatten(prefix string, node gjson.Result, out Messages) {
	join := func(seg string) string {
		if prefix == "" {
			return seg
		}

		return prefix + "." + seg
	}

	switch {
	case node.IsObject():
		node.ForEach(func(key, value gjson.Result) bool {
			flatten(join(key.String()), value, out)

			return true
		})
	case node.IsArray():
		for i, value := range node.Array() {
			flatten(join(strconv.Itoa(i)), value, out)
		}
	case node.Type == gjson.Null:
		// skipped
	default:
		if prefix != "" {
			out[prefix] = node.String()
		}
	}
}

// poMessages copies the translated singular entries of a gettext catalog
// whose msgids are dot paths. Plural forms and contexts are ignored.
func poMessages(po *gotext.Po) Messages {
	out := make(Messages)

	for id, tr := range po.GetDomain().GetTranslations() {
		if id == "" || !tr.IsTranslated() {
			continue
		}

		out[id] = tr.Get()
	}

	return out
}

// chain consults each catalog in order.
type chain []Catalog

// Lookup implements Catalog.
func (c chain) Lookup(key string) (string, bool) {
	for _, cat := range c {
		if s, ok := cat.Lookup(key); ok {
			return s, true
		}
	}

	return "", false
}

// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"strings"
)

// Vars holds named placeholder values.
type Vars map[string]any

// Tr resolves key and substitutes {name} placeholders from alternating
// key, value pairs:
//
//	s.Tr("cli.appointments.count", "count", 3)
//
// Placeholders without a value are left as they are.
func (s *Store) Tr(key string, kv ...any) string {
	return interpolate(s.Resolve(key), v(kv...))
}

// interpolate replaces each {name} in text with the matching value.
func interpolate(text string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(text, "{") {
		return text
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(value))
	}

	return strings.NewReplacer(pairs...).Replace(text)
}

// NewUserError creates a new UserError whose message is key resolved in s.
func NewUserError(s *Store, key Key, kv ...any) *UserError {
	return &UserError{
		key: key,
		msg: s.Tr(string(key), kv...),
	}
}

// UserError is an error type whose message is a translated string.
// It is intended for errors that can be shown directly to the end user.
type UserError struct {
	key Key
	msg string
}

// Error returns the translated error message.
func (e *UserError) Error() string {
	return e.msg
}

// Key returns the message key the error was built from.
func (e *UserError) Key() Key {
	return e.key
}

// v builds Vars from alternating key, value pairs.
// Panics on programmer error.
func v(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n.Tr: odd number of arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n.Tr: key must be string")
		}

		m[k] = kv[i+1]
	}

	return m
}

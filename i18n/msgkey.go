// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

// Translatable is a value that can translate itself using a Store.
// Types such as [Key] implement Translatable.
type Translatable interface {
	Tr(s *Store, kv ...any) string
}

// Key is a message key, a dot path into the catalogs.
//
// Declare keys as constants so that cmd/i18n_check can find them:
//
//	const titleKey = i18n.Key("routes.scheduling")
type Key string

// Tr resolves the key in s. It is equivalent to calling [Store.Tr] with the same key.
func (k Key) Tr(s *Store, kv ...any) string {
	return s.Tr(string(k), kv...)
}

// String returns the key itself.
func (k Key) String() string {
	return string(k)
}

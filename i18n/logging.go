// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

// logMissingOnce logs a missing translation warning once per (locale, key) pair
// when strict mode is enabled.
func (s *Store) logMissingOnce(locale, key string) {
	if !s.strict {
		return
	}

	id := locale + "\x00" + key
	if _, loaded := s.missingKeyOnce.LoadOrStore(id, struct{}{}); !loaded {
		s.logger.Warn().
			Str("locale", locale).
			Str("key", key).
			Msg("Missing i18n translation")
	}
}

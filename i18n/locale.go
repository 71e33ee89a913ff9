// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is the locale used when no preference is stored. It is also
// the default fallback locale.
const DefaultLocale = "pt-BR"

var (
	// ErrUnknownLocale is returned when switching to a locale that has no catalog.
	ErrUnknownLocale = errors.New("unknown locale")

	// ErrConfiguration is returned when a Store cannot be built from its inputs.
	ErrConfiguration = errors.New("invalid i18n configuration")

	errInvalidLocaleCode = errors.New("invalid locale code")
)

// Canonicalize converts code to its canonical BCP 47 form, for example
// "pt_br" to "pt-BR" or "EN" to "en".
//
// Variants and extensions are dropped, so the result only carries the base
// language, script and region.
func Canonicalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errInvalidLocaleCode
	}

	// Accept both underscore and hyphen.
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", errInvalidLocaleCode, code, err)
	}

	return strippedTagString(tag), nil
}

// strippedTagString removes variants to form a stable key using base, script and region only.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}

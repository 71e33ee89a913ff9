// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n resolves opaque message keys against per-locale catalogs.

# Quick start

Keys are dot-separated paths into nested catalogs, not UI text:

	store, err := i18n.NewStore(persisted, i18n.DefaultLocale, catalogs)
	store.Resolve("routes.scheduling")
	store.Tr("cli.appointments.count", "count", 3) // "{count} agendamentos"

# Resolution

A key is looked up in the active locale first, then in the fallback locale.
If neither catalog has it, the key itself is returned. Resolution never fails.

When strict mode is enabled, each (locale, key) pair missing from the active
locale is logged once.

# Catalogs

Catalogs are loaded from JSON documents, where nested objects are flattened
into dot paths, and from gettext .po files, where each msgid is a dot path:

	locales/<locale>.json
	po/<locale>.po

The <locale> filename part may use hyphens or underscores, for example
"pt-BR.json" or "pt_BR.json", and is normalised to a canonical BCP 47 tag.
The JSON catalogs for pt-BR, en and es are embedded in the binary; see [Embedded].

# Locale changes

[Store.SetLocale] replaces the active locale or rejects an unknown code, leaving
the previous locale active. Subscribers registered with [Store.Subscribe] are
notified after every change, so dependent text can be rendered again.
*/
package i18n

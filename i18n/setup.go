// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
)

//go:embed locales/*.json
var embedded embed.FS

// Embedded returns the catalogs bundled with the binary.
func Embedded() (map[string]Catalog, error) {
	return LoadFS(embedded)
}

// LoadDir loads catalogs from a directory on disk laid out like [LoadFS].
func LoadDir(dir string) (map[string]Catalog, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS loads every catalog found in fsys. The expected layout is:
//
//	locales/<locale>.json
//	po/<locale>.po
//
// Either directory may be missing. Files whose name is not a valid locale
// are skipped with a warning. When a locale has both forms, keys are looked up
// in the JSON catalog first.
func LoadFS(fsys fs.FS) (map[string]Catalog, error) {
	logger := log.With().Str("sys", "i18n").Logger()

	jsonCatalogs := make(map[string]Catalog)
	poCatalogs := make(map[string]Catalog)

	err := eachLocaleFile(fsys, "locales", ".json", func(code, file string) error {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read catalog %s: %w", file, err)
		}

		messages, err := ParseJSON(data)
		if err != nil {
			return fmt.Errorf("failed to parse catalog %s: %w", file, err)
		}

		jsonCatalogs[code] = messages

		logger.Debug().Str("locale", code).Str("file", file).Int("keys", len(messages)).Msg("Loaded catalog")

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachLocaleFile(fsys, "po", ".po", func(code, file string) error {
		po := gotext.NewPoFS(fsys)
		po.ParseFile(file)

		messages := poMessages(po)
		poCatalogs[code] = messages

		logger.Debug().Str("locale", code).Str("file", file).Int("keys", len(messages)).Msg("Loaded catalog")

		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]Catalog, len(jsonCatalogs)+len(poCatalogs))

	for code, cat := range jsonCatalogs {
		if po, ok := poCatalogs[code]; ok {
			out[code] = chain{cat, po}
		} else {
			out[code] = cat
		}
	}

	for code, po := range poCatalogs {
		if _, ok := out[code]; !ok {
			out[code] = po
		}
	}

	return out, nil
}

// eachLocaleFile calls fn for each file in dir with the given extension,
// passing the canonical locale code derived from the file name.
func eachLocaleFile(fsys fs.FS, dir, ext string, fn func(code, file string) error) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to read %s directory: %w", dir, err)
	}

	seen := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}

		code, err := Canonicalize(strings.TrimSuffix(entry.Name(), ext))
		if err != nil {
			log.Warn().Str("sys", "i18n").Err(err).Str("file", entry.Name()).Msg("Skipping invalid locale file")

			continue
		}

		if prev, dup := seen[code]; dup {
			return fmt.Errorf("%w: %s and %s both define locale %s", ErrConfiguration, prev, entry.Name(), code)
		}

		seen[code] = entry.Name()

		if err := fn(code, path.Join(dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

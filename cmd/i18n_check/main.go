// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_check reports message keys used in the source that the
// catalogs do not define.
//
//	go run ./cmd/i18n_check [-catalogs dir] [-fallback pt-BR] [-unused] [-pot po/sepet.pot]
//
// It exits with status 1 if the fallback catalog lacks a key.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"codeberg.org/sepet/sepet/core/audit"
	"codeberg.org/sepet/sepet/i18n"
)

func main() {
	catalogDir := flag.String("catalogs", "", "directory with locales/*.json and po/*.po (default: embedded catalogs)")
	fallback := flag.String("fallback", i18n.DefaultLocale, "locale that must define every key")
	unused := flag.Bool("unused", false, "also list catalog keys that no source file uses")
	potPath := flag.String("pot", "", "write a gettext template with every key to this file")
	flag.Parse()

	audit.SetDefaultLogger()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get working directory")
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: false}, "./...")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load packages")
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal().Msg("Failed to load packages due to errors")
	}

	i18nPkgs := findI18nPkgPaths(pkgs)
	if len(i18nPkgs) == 0 {
		log.Fatal().Msg("No i18n package with a Key type found")
	}

	refs := extractRefs(pkgs, findProjectRoot(wd), i18nPkgs)

	catalogs, err := loadCatalogs(*catalogDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalogs")
	}

	if *potPath != "" {
		if err := writePOT(*potPath, refs); err != nil {
			log.Fatal().Err(err).Str("path", *potPath).Msg("Failed to write template")
		}

		log.Info().Str("path", *potPath).Int("keys", len(refs)).Msg("Wrote message template")
	}

	r, err := check(refs, catalogs, *fallback)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check catalogs")
	}

	r.print(os.Stdout, refs, *unused)

	if len(r.missingFallback) > 0 {
		os.Exit(1)
	}
}

func loadCatalogs(dir string) (map[string]i18n.Catalog, error) {
	if dir == "" {
		return i18n.Embedded()
	}

	return i18n.LoadDir(dir)
}

// report lists the keys each catalog lacks.
type report struct {
	fallback        string
	missingFallback []string
	missing         map[string][]string
	unused          map[string][]string
}

// check compares the keys in refs against catalogs.
func check(refs map[string][]ref, catalogs map[string]i18n.Catalog, fallback string) (report, error) {
	canonical := make(map[string]i18n.Catalog, len(catalogs))
	for code, cat := range catalogs {
		c, err := i18n.Canonicalize(code)
		if err != nil {
			return report{}, err
		}

		canonical[c] = cat
	}

	fb, err := i18n.Canonicalize(fallback)
	if err != nil {
		return report{}, err
	}

	if _, ok := canonical[fb]; !ok {
		return report{}, fmt.Errorf("%w: no catalog for fallback locale %s", i18n.ErrConfiguration, fb)
	}

	r := report{
		fallback: fb,
		missing:  make(map[string][]string),
		unused:   make(map[string][]string),
	}

	for _, key := range sortedKeys(refs) {
		for code, cat := range canonical {
			if _, ok := cat.Lookup(key); ok {
				continue
			}

			if code == fb {
				r.missingFallback = append(r.missingFallback, key)
			} else {
				r.missing[code] = append(r.missing[code], key)
			}
		}
	}

	for code, cat := range canonical {
		messages, ok := cat.(i18n.Messages)
		if !ok {
			continue
		}

		for key := range messages {
			if _, used := refs[key]; !used {
				r.unused[code] = append(r.unused[code], key)
			}
		}

		sort.Strings(r.unused[code])
	}

	return r, nil
}

func (r report) print(w io.Writer, refs map[string][]ref, withUnused bool) {
	for _, key := range r.missingFallback {
		fmt.Fprintf(w, "ERROR %s: missing %q (%s)\n", r.fallback, key, where(refs[key]))
	}

	for _, code := range sortedKeys(r.missing) {
		for _, key := range r.missing[code] {
			fmt.Fprintf(w, "WARN  %s: missing %q, falls back to %s\n", code, key, r.fallback)
		}
	}

	if withUnused {
		for _, code := range sortedKeys(r.unused) {
			for _, key := range r.unused[code] {
				fmt.Fprintf(w, "INFO  %s: unused %q\n", code, key)
			}
		}
	}

	fmt.Fprintf(w, "%d keys used, %d missing from %s\n", len(refs), len(r.missingFallback), r.fallback)
}

func where(rs []ref) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, fmt.Sprintf("%s:%d", r.file, r.line))
	}

	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// writePOT writes a gettext template whose msgids are the message keys,
// for translators who maintain po/<locale>.po catalogs.
func writePOT(path string, refs map[string][]ref) error {
	var b strings.Builder

	writeHeader(&b)

	keys := sortedKeys(refs)
	for i, key := range keys {
		rs := refs[key]
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].file != rs[j].file {
				return rs[i].file < rs[j].file
			}

			return rs[i].line < rs[j].line
		})

		// After sorting by file and line, duplicates will be adjacent.
		fmt.Fprint(&b, "#:")

		var last ref
		for _, r := range rs {
			if r != last {
				fmt.Fprintf(&b, " %s:%d", r.file, r.line)

				last = r
			}
		}

		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "msgid %q\n", key)
		fmt.Fprintf(&b, "msgstr \"\"\n")

		if i < len(keys)-1 {
			fmt.Fprintln(&b)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// writeHeader emits a POT header.
func writeHeader(b *strings.Builder) {
	fmt.Fprintln(b, `msgid ""`)
	fmt.Fprintln(b, `msgstr ""`)
	fmt.Fprintf(b, "\"Project-Id-Version: SEPET %s\\n\"\n", detectVersion())
	fmt.Fprintf(b, "\"POT-Creation-Date: %s\\n\"\n", time.Now().UTC().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(b, `"Language: pt_BR\n"`)
	fmt.Fprintln(b, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(b, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(b, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(b)
}

// detectVersion resolves a human-friendly version string using git describe.
// Falls back to "dev" when git is unavailable or this is not a git checkout.
func detectVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}

// findProjectRoot attempts to find a stable root directory for source references.
// Preference order:
//  1. git toplevel directory
//  2. nearest parent directory that contains go.mod
//  3. the provided working directory
func findProjectRoot(wd string) string {
	if root := gitTopLevel(wd); root != "" {
		return root
	}

	if root := nearestGoModDir(wd); root != "" {
		return root
	}

	return wd
}

func gitTopLevel(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return ""
	}

	return filepath.Clean(root)
}

func nearestGoModDir(start string) string {
	dir := filepath.Clean(start)
	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}

func fileExists(path string) bool {
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return true
	}

	return false
}

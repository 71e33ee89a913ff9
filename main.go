// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Sepet is the command-line shell of the SEPET veterinary scheduling and triage service.

Usage:

	sepet [-config file] [-tenant uuid] <command> [arguments]

Run "sepet help" for the list of commands.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/sepet/sepet/config"
	"codeberg.org/sepet/sepet/core"
	"codeberg.org/sepet/sepet/core/audit"
	"codeberg.org/sepet/sepet/core/requests"
	"codeberg.org/sepet/sepet/i18n"
	"codeberg.org/sepet/sepet/navigation"
	"codeberg.org/sepet/sepet/prefs"
	"codeberg.org/sepet/sepet/routes"
)

// main is the entry point of the application.
func main() {
	audit.SetDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses the global flags, loads the configuration and executes one command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("sepet", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configFlag := flags.String("config", "", "path to the YAML configuration file")
	tenantFlag := flags.String("tenant", "", "tenant (clinic) identifier, overrides backend.tenantId")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return err
	}

	cfg := &config.ClientConfig{}
	if err := cfg.LoadConfig(*configFlag); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if *tenantFlag != "" {
		if err := config.ValidateTenantID(*tenantFlag); err != nil {
			return err
		}

		cfg.Backend.TenantID = *tenantFlag
	}

	a, err := newApp(ctx, cfg, stdin, stdout)
	if err != nil {
		return err
	}
	defer a.close()

	return a.exec(ctx, flags.Args())
}

// app holds everything a command needs.
type app struct {
	cfg *config.ClientConfig

	client *core.Client
	store  *i18n.Store
	prefs  prefs.Store
	nav    *navigation.Pipeline

	// title is the last title applied by the navigation pipeline.
	title     string
	stopWatch func()

	stdin io.Reader
	out   io.Writer

	logger zerolog.Logger
}

// newApp wires the transport, client, preference store, locale store and
// navigation pipeline from cfg.
func newApp(ctx context.Context, cfg *config.ClientConfig, stdin io.Reader, out io.Writer) (*app, error) {
	a := &app{
		cfg:    cfg,
		stdin:  stdin,
		out:    out,
		logger: log.With().Str("sys", "cli").Logger(),
	}

	transport, err := requests.NewTransport(requests.Options{
		Cache: requests.CacheOptions{
			Enabled:  cfg.Cache.Enabled,
			Size:     cfg.Cache.Size,
			TTL:      cfg.Cache.TTL,
			Compress: cfg.Cache.Compress,
		},
		RateLimit: cfg.Request.RateLimit,
		Burst:     cfg.Request.Burst,
		Dump:      cfg.Dump(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize request transport: %w", err)
	}

	a.client = core.NewClient(cfg.Backend.BaseURL, transport, core.WithTenantID(cfg.Backend.TenantID))

	a.prefs, err = prefs.Open(cfg.Preferences.Backend, cfg.Preferences.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}

	persisted, _, err := a.prefs.Get(ctx, prefs.LocaleKey)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Failed to read stored locale")
	}

	catalogs, err := loadCatalogs(cfg.Locale.CatalogDir)
	if err != nil {
		_ = a.prefs.Close()

		return nil, fmt.Errorf("failed to load message catalogs: %w", err)
	}

	a.store, err = i18n.NewStore(persisted, cfg.Locale.Default, catalogs,
		i18n.WithFallback(cfg.Locale.Fallback),
		i18n.WithStrictMissingKeys(cfg.Locale.StrictMissingKeys),
	)
	if err != nil {
		_ = a.prefs.Close()

		return nil, fmt.Errorf("failed to initialize i18n engine: %w", err)
	}

	a.nav = navigation.NewPipeline(routes.Default(), a.store, a.setTitle)
	a.stopWatch = a.nav.Watch(a.store)

	if _, _, err := a.nav.Navigate(navigation.Event{To: "/"}); err != nil {
		a.close()

		return nil, fmt.Errorf("failed to open the start route: %w", err)
	}

	return a, nil
}

// loadCatalogs returns the catalogs in dir, or the embedded ones if dir is empty.
func loadCatalogs(dir string) (map[string]i18n.Catalog, error) {
	if dir == "" {
		return i18n.Embedded()
	}

	return i18n.LoadDir(dir)
}

func (a *app) setTitle(title string) {
	a.title = title
}

func (a *app) close() {
	if a.stopWatch != nil {
		a.stopWatch()
	}

	if err := a.prefs.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to close preference store")
	}
}

// tr resolves key in the active locale.
func (a *app) tr(key i18n.Key, kv ...any) string {
	return key.Tr(a.store, kv...)
}

// println writes a line to the command output.
func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language/display"

	"codeberg.org/sepet/sepet/core"
	"codeberg.org/sepet/sepet/i18n"
	"codeberg.org/sepet/sepet/navigation"
	"codeberg.org/sepet/sepet/prefs"
	"codeberg.org/sepet/sepet/routes"
)

var errBackendOffline = errors.New("backend is not online")

// Command is a sub-command of the shell.
type Command interface {
	Run(ctx context.Context, a *app, args []string) error
}

// CommandFunc adapts a function to Command.
type CommandFunc func(ctx context.Context, a *app, args []string) error

func (f CommandFunc) Run(ctx context.Context, a *app, args []string) error {
	return f(ctx, a, args)
}

const (
	cmdHelp         = "help"
	cmdTitle        = "title"
	cmdRoutes       = "routes"
	cmdLocale       = "locale"
	cmdLanguages    = "languages"
	cmdAppointments = "appointments"
	cmdBook         = "book"
	cmdTriages      = "triages"
	cmdAnalyze      = "analyze"
	cmdReceipt      = "receipt"
	cmdOverview     = "overview"
	cmdHealth       = "health"
)

type commandSpec struct {
	name  string
	usage string
	help  i18n.Key
	cmd   Command
}

// availableCommands lists the commands in the order they are documented.
func availableCommands() []commandSpec {
	return []commandSpec{
		{cmdHelp, "", "cli.cmd.help", CommandFunc(helpCommand)},
		{cmdTitle, "<path>", "cli.cmd.title", CommandFunc(titleCommand)},
		{cmdRoutes, "", "cli.cmd.routes", CommandFunc(routesCommand)},
		{cmdLocale, "[code]", "cli.cmd.locale", CommandFunc(localeCommand)},
		{cmdLanguages, "", "cli.cmd.languages", CommandFunc(languagesCommand)},
		{cmdAppointments, "[id]", "cli.cmd.appointments", CommandFunc(appointmentsCommand)},
		{cmdBook, "<file|->", "cli.cmd.book", CommandFunc(bookCommand)},
		{cmdTriages, "[appointmentId]", "cli.cmd.triages", CommandFunc(triagesCommand)},
		{cmdAnalyze, "<triageId>", "cli.cmd.analyze", CommandFunc(analyzeCommand)},
		{cmdReceipt, "[-json] <appointmentId>", "cli.cmd.receipt", CommandFunc(receiptCommand)},
		{cmdOverview, "", "cli.cmd.overview", CommandFunc(overviewCommand)},
		{cmdHealth, "", "cli.cmd.health", CommandFunc(healthCommand)},
	}
}

func findCommand(name string) (commandSpec, bool) {
	for _, spec := range availableCommands() {
		if spec.name == name {
			return spec, true
		}
	}

	return commandSpec{}, false
}

func commandNames() string {
	specs := availableCommands()

	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.name)
	}

	return strings.Join(names, ", ")
}

// exec runs the command named by args[0]. Errors carry the localised prefix.
func (a *app) exec(ctx context.Context, args []string) error {
	if err := a.dispatch(ctx, args); err != nil {
		return fmt.Errorf("%s %w", a.tr(msgErrorPrefix), err)
	}

	return nil
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()

		return i18n.NewUserError(a.store, msgMissingCommand, "commands", commandNames())
	}

	spec, ok := findCommand(args[0])
	if !ok {
		return i18n.NewUserError(a.store, msgUnknownCommand, "command", args[0], "commands", commandNames())
	}

	a.logger.Debug().
		Str("command", spec.name).
		Strs("args", args[1:]).
		Str("tenant", a.client.TenantID()).
		Str("locale", a.store.Locale()).
		Msg("Running command")

	return spec.cmd.Run(ctx, a, args[1:])
}

// usageError reports wrong arguments for the named command.
func (a *app) usageError(name string) error {
	spec, _ := findCommand(name)

	return i18n.NewUserError(a.store, msgUsageArgs, "usage", strings.TrimSpace(spec.name+" "+spec.usage))
}

func (a *app) printUsage() {
	a.println(a.tr(msgUsageHeader))
	a.println()
	a.println(a.tr(msgUsageCommands))

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, spec := range availableCommands() {
		fmt.Fprintf(w, "  %s\t%s\n", strings.TrimSpace(spec.name+" "+spec.usage), a.tr(spec.help))
	}

	_ = w.Flush()
}

// table starts a tab-aligned table with localised headings.
func (a *app) table(headings ...i18n.Key) *tabwriter.Writer {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)

	cols := make([]string, 0, len(headings))
	for _, h := range headings {
		cols = append(cols, a.tr(h))
	}

	row(w, cols...)

	return w
}

func row(w io.Writer, cols ...string) {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}

func (a *app) yesNo(b bool) string {
	if b {
		return a.tr(fieldYes)
	}

	return a.tr(fieldNo)
}

func (a *app) orNone(s string) string {
	if s == "" {
		return a.tr(fieldNone)
	}

	return s
}

func helpCommand(_ context.Context, a *app, _ []string) error {
	a.printUsage()

	return nil
}

// titleCommand navigates to a path and prints the resulting title.
func titleCommand(_ context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return a.usageError(cmdTitle)
	}

	_, title, err := a.nav.Navigate(navigation.Event{From: a.nav.Current().Path, To: args[0]})
	if errors.Is(err, routes.ErrNotFound) {
		return i18n.NewUserError(a.store, msgRouteNotFound, "path", args[0])
	} else if err != nil {
		return err
	}

	a.println(title)

	return nil
}

func routesCommand(_ context.Context, a *app, args []string) error {
	if len(args) != 0 {
		return a.usageError(cmdRoutes)
	}

	w := a.table(fieldPath, fieldName, fieldView, fieldTitle)
	for _, r := range a.nav.Table.Routes() {
		row(w, r.Path, r.Name, string(r.View), a.nav.Resolver.Title(r))
	}

	return w.Flush()
}

// localeCommand shows the active locale, or switches and persists it.
func localeCommand(ctx context.Context, a *app, args []string) error {
	switch len(args) {
	case 0:
		a.println(a.tr(msgLocaleCurrent, "locale", a.store.Locale(), "fallback", a.store.Fallback()))

		return nil
	case 1:
	default:
		return a.usageError(cmdLocale)
	}

	if err := a.store.SetLocale(args[0]); err != nil {
		if errors.Is(err, i18n.ErrUnknownLocale) {
			return i18n.NewUserError(a.store, msgLocaleUnknown, "locale", args[0], "locales", a.localeCodes())
		}

		return err
	}

	if err := a.prefs.Set(ctx, prefs.LocaleKey, a.store.Locale()); err != nil {
		return fmt.Errorf("failed to store locale: %w", err)
	}

	a.println(a.tr(msgLocaleChanged, "locale", a.store.Locale()))
	a.println(a.tr(msgTitleApplied, "title", a.title))

	return nil
}

func (a *app) localeCodes() string {
	tags := a.store.Languages()

	codes := make([]string, 0, len(tags))
	for _, tag := range tags {
		codes = append(codes, tag.String())
	}

	return strings.Join(codes, ", ")
}

// languagesCommand lists the locales, marking the active one.
func languagesCommand(_ context.Context, a *app, args []string) error {
	if len(args) != 0 {
		return a.usageError(cmdLanguages)
	}

	active := a.store.Locale()

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, tag := range a.store.Languages() {
		marker := " "
		if tag.String() == active {
			marker = "*"
		}

		row(w, marker+" "+tag.String(), display.Self.Name(tag))
	}

	return w.Flush()
}

func appointmentsCommand(ctx context.Context, a *app, args []string) error {
	switch len(args) {
	case 0:
	case 1:
		appt, err := a.client.GetAppointment(ctx, args[0])
		if err != nil {
			return err
		}

		a.printAppointment(appt)

		return nil
	default:
		return a.usageError(cmdAppointments)
	}

	appts, err := a.client.ListAppointments(ctx)
	if err != nil {
		return err
	}

	if len(appts) == 0 {
		a.println(a.tr(msgAppointmentsEmpty))

		return nil
	}

	w := a.table(fieldID, fieldTutor, fieldPet, fieldSpecies, fieldDate, fieldStatus)
	for _, appt := range appts {
		row(w, appt.ID, appt.TutorName, appt.PetName, appt.Species, appt.Date, a.orNone(appt.Status))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	a.println(a.tr(msgAppointmentsCount, "count", len(appts)))

	return nil
}

func (a *app) printAppointment(appt core.Appointment) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	row(w, a.tr(fieldID), appt.ID)
	row(w, a.tr(fieldTutor), appt.TutorName)
	row(w, a.tr(fieldPet), appt.PetName)
	row(w, a.tr(fieldSpecies), strings.TrimSpace(appt.Species+" "+appt.Breed))
	row(w, a.tr(fieldDate), appt.Date)
	row(w, a.tr(fieldStatus), a.orNone(appt.Status))
	_ = w.Flush()
}

// bookCommand creates an appointment from a JSON or YAML document.
// "-" reads the document from standard input.
func bookCommand(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return a.usageError(cmdBook)
	}

	var (
		data []byte
		err  error
	)

	if args[0] == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}

	if err != nil {
		return i18n.NewUserError(a.store, msgBookInvalid, "error", err)
	}

	payload, err := decodeAppointment(data)
	if err != nil {
		return i18n.NewUserError(a.store, msgBookInvalid, "error", err)
	}

	appt, err := a.client.CreateAppointment(ctx, payload)
	if err != nil {
		return err
	}

	a.println(a.tr(msgAppointmentBooked, "id", appt.ID, "pet", appt.PetName))

	return nil
}

// decodeAppointment accepts JSON, or YAML using the same field names.
func decodeAppointment(data []byte) (core.AppointmentCreate, error) {
	var payload core.AppointmentCreate

	if json.Valid(data) {
		if err := json.Unmarshal(data, &payload); err != nil {
			return payload, fmt.Errorf("failed to decode JSON: %w", err)
		}

		return payload, nil
	}

	if err := yaml.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode YAML: %w", err)
	}

	return payload, nil
}

func triagesCommand(ctx context.Context, a *app, args []string) error {
	switch len(args) {
	case 0:
	case 1:
		triage, err := a.client.GetTriage(ctx, args[0])
		if err != nil {
			return err
		}

		a.printTriage(triage)

		return nil
	default:
		return a.usageError(cmdTriages)
	}

	triages, err := a.client.ListTriages(ctx)
	if err != nil {
		return err
	}

	if len(triages) == 0 {
		a.println(a.tr(msgTriagesEmpty))

		return nil
	}

	w := a.table(fieldID, fieldAppointment, fieldRisk, fieldOpinion)
	for _, t := range triages {
		row(w, t.ID, t.AppointmentID, a.yesNo(t.RiskAlert), a.orNone(t.Opinion))
	}

	return w.Flush()
}

func (a *app) printTriage(t core.Triage) {
	pet := t.PetMeta()

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	row(w, a.tr(fieldID), t.ID)
	row(w, a.tr(fieldAppointment), t.AppointmentID)
	row(w, a.tr(fieldPet), strings.TrimSpace(pet.Sex+" "+formatWeight(pet.WeightKg)))
	row(w, a.tr(fieldRisk), a.yesNo(t.RiskAlert))
	row(w, a.tr(fieldOpinion), a.orNone(t.Opinion))
	_ = w.Flush()
}

func formatWeight(kg float64) string {
	if kg <= 0 {
		return ""
	}

	return strconv.FormatFloat(kg, 'f', -1, 64) + " kg"
}

func analyzeCommand(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return a.usageError(cmdAnalyze)
	}

	analysis, err := a.client.AnalyzeTriage(ctx, args[0])
	if err != nil {
		return err
	}

	a.println(a.tr(msgAnalysisDone, "id", analysis.TriageID, "status", analysis.Status))
	a.println(a.tr(msgAnalysisRisk, "risk", a.yesNo(analysis.RiskAlert)))

	if analysis.Opinion != "" {
		a.println(analysis.Opinion)
	}

	return nil
}

// receiptCommand prints the receipt of an appointment, or its JSON form with -json.
func receiptCommand(ctx context.Context, a *app, args []string) error {
	flags := flag.NewFlagSet(cmdReceipt, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	asJSON := flags.Bool("json", false, "print the structured receipt")

	if err := flags.Parse(args); err != nil || flags.NArg() != 1 {
		return a.usageError(cmdReceipt)
	}

	id := flags.Arg(0)

	if *asJSON {
		data, err := a.client.GenerateReceiptData(ctx, id)
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode receipt: %w", err)
		}

		a.println(string(encoded))

		return nil
	}

	receipt, err := a.client.GenerateReceipt(ctx, id)
	if err != nil {
		return err
	}

	a.println(receipt.Title())
	a.println(a.tr(msgReceiptProtocol, "protocol", receipt.Protocol()))

	for _, section := range receipt.Sections() {
		a.println()
		a.println(section.Heading)

		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for _, field := range section.Fields {
			row(w, "  "+field.Label, field.Value)
		}

		if err := w.Flush(); err != nil {
			return err
		}
	}

	if receipt.RiskAlert() {
		a.println()
		a.println(a.tr(msgReceiptAlert))
	}

	if opinion := receipt.Opinion(); opinion != "" {
		a.println()
		a.println(a.tr(fieldOpinion) + ": " + opinion)
	}

	if notice := receipt.Notice(); notice != "" {
		a.println()
		a.println(notice)
	}

	return nil
}

// overviewCommand prints the management listing of the tenant.
func overviewCommand(ctx context.Context, a *app, args []string) error {
	if len(args) != 0 {
		return a.usageError(cmdOverview)
	}

	if _, _, err := a.nav.Navigate(navigation.Event{From: a.nav.Current().Path, To: "/gestao"}); err != nil {
		return err
	}

	overview, err := core.LoadOverview(ctx, a.client)
	if err != nil {
		return err
	}

	a.println(a.title)

	if len(overview.Entries) > 0 {
		w := a.table(fieldID, fieldPet, fieldDate, fieldStatus, fieldRisk)
		for _, e := range overview.Entries {
			risk := a.tr(fieldNone)
			if e.Triage != nil {
				risk = a.yesNo(e.Triage.RiskAlert)
			}

			row(w, e.Appointment.ID, e.Appointment.PetName, e.Appointment.Date, a.orNone(e.Appointment.Status), risk)
		}

		if err := w.Flush(); err != nil {
			return err
		}
	}

	a.println(a.tr(msgOverviewSummary,
		"count", len(overview.Entries),
		"pending", overview.Pending(),
		"alerts", overview.Alerts(),
	))

	if len(overview.Orphans) > 0 {
		a.println(a.tr(msgOverviewOrphans, "count", len(overview.Orphans)))
	}

	return nil
}

func healthCommand(ctx context.Context, a *app, args []string) error {
	if len(args) != 0 {
		return a.usageError(cmdHealth)
	}

	health, err := a.client.Health(ctx)
	if err != nil {
		return err
	}

	a.println(a.tr(msgHealthStatus, "status", health.Status, "service", health.Service, "address", health.Address))

	if !health.Online() {
		return fmt.Errorf("%w: %q", errBackendOffline, health.Status)
	}

	return nil
}

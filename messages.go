// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import "codeberg.org/sepet/sepet/i18n"

// Messages shown by the command-line shell.
const (
	msgErrorPrefix    i18n.Key = "cli.error"
	msgUsageHeader    i18n.Key = "cli.usage.header"
	msgUsageCommands  i18n.Key = "cli.usage.commands"
	msgUsageArgs      i18n.Key = "cli.usage.args"
	msgMissingCommand i18n.Key = "cli.command.missing"
	msgUnknownCommand i18n.Key = "cli.command.unknown"

	msgRouteNotFound i18n.Key = "cli.title.notFound"
	msgTitleApplied  i18n.Key = "cli.title.applied"

	msgLocaleCurrent i18n.Key = "cli.locale.current"
	msgLocaleChanged i18n.Key = "cli.locale.changed"
	msgLocaleUnknown i18n.Key = "cli.locale.unknown"

	msgAppointmentsEmpty i18n.Key = "cli.appointments.empty"
	msgAppointmentsCount i18n.Key = "cli.appointments.count"
	msgAppointmentBooked i18n.Key = "cli.appointments.created"
	msgBookInvalid       i18n.Key = "cli.book.invalid"
	msgTriagesEmpty      i18n.Key = "cli.triages.empty"
	msgAnalysisDone      i18n.Key = "cli.analysis.done"
	msgAnalysisRisk      i18n.Key = "cli.analysis.risk"
	msgReceiptProtocol   i18n.Key = "cli.receipt.protocol"
	msgReceiptAlert      i18n.Key = "cli.receipt.alert"
	msgHealthStatus      i18n.Key = "cli.health.status"
	msgOverviewSummary   i18n.Key = "cli.overview.summary"
	msgOverviewOrphans   i18n.Key = "cli.overview.orphans"
)

// Column headings and values.
const (
	fieldID          i18n.Key = "fields.id"
	fieldTutor       i18n.Key = "fields.tutor"
	fieldPet         i18n.Key = "fields.pet"
	fieldSpecies     i18n.Key = "fields.species"
	fieldDate        i18n.Key = "fields.date"
	fieldStatus      i18n.Key = "fields.status"
	fieldRisk        i18n.Key = "fields.risk"
	fieldOpinion     i18n.Key = "fields.opinion"
	fieldAppointment i18n.Key = "fields.appointment"
	fieldPath        i18n.Key = "fields.path"
	fieldName        i18n.Key = "fields.name"
	fieldView        i18n.Key = "fields.view"
	fieldTitle       i18n.Key = "fields.title"
	fieldYes         i18n.Key = "fields.yes"
	fieldNo          i18n.Key = "fields.no"
	fieldNone        i18n.Key = "fields.none"
)

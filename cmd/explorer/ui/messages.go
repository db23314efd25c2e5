package ui

import (
	"policyexplorer/internal/chart"
	"policyexplorer/internal/country"

	"github.com/atotto/clipboard"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// GroupSelectedMsg is emitted by the menu when a group is chosen.
type GroupSelectedMsg struct {
	Path string
}

// ParameterEditedMsg is emitted by the control pane when a value is
// committed. Unset reverts the parameter to its default.
type ParameterEditedMsg struct {
	ID    string
	Value any
	Unset bool
}

// CountryReloadedMsg carries a reparsed country file from the watcher.
type CountryReloadedMsg struct {
	File *country.File
	Err  error
}

// chartFetchedMsg delivers the outcome of an age chart request.
type chartFetchedMsg struct {
	outcome chart.Outcome
}

// reformSavedMsg reports the result of saving the current reform.
type reformSavedMsg struct {
	id   string
	name string
	err  error
}

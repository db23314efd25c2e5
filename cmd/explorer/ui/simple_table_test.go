package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTableEmpty(t *testing.T) {
	tbl := NewSimpleTable("Empty", "A", "B")
	assert.Empty(t, tbl.View(NewStyles(LightTheme())))
}

func TestSimpleTableView(t *testing.T) {
	tbl := NewSimpleTable("Reforms", "ID", "Name")
	tbl.AddRow("1", "Raise basic rate")
	tbl.AddRow("2")

	out := tbl.View(NewStyles(LightTheme()))
	for _, want := range []string{"Reforms", "ID", "Name", "Raise basic rate", "---"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

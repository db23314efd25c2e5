package main

import (
	"fmt"

	"policyexplorer/cmd/explorer/ui"

	"github.com/spf13/cobra"
)

// resolveCmd shows the controls a group path renders
var resolveCmd = &cobra.Command{
	Use:   "resolve [path]",
	Short: "Show the parameters and controls for a group path",
	Long: `Resolves a group path against the parameter hierarchy and lists the
controls the explorer would render for it. Without a path the country's
default group is used. A path that does not resolve yields no controls.

Example:
  explorer resolve /policy/tax/income_tax`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := loadCountry(cfg)
	if err != nil {
		return err
	}

	path := c.DefaultSelectedParameterGroup()
	if len(args) == 1 {
		path = args[0]
	}
	descs := c.Controls(path)
	out := cmd.OutOrStdout()
	if len(descs) == 0 {
		fmt.Fprintf(out, "No parameters under %s\n", path)
		return nil
	}

	table := ui.NewSimpleTable(path, "Parameter", "Label", "Control", "Default")
	for _, d := range descs {
		p, _ := c.Parameter(d.Name())
		label := p.Label
		if d.Label != "" {
			label = d.Label
		}
		kind := d.Kind
		if d.Override {
			kind += " (override)"
		}
		table.AddRow(d.Key, label, kind, formatDefault(p.ValueKind(), p.Default))
	}
	fmt.Fprintln(out, table.View(ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))))
	return nil
}

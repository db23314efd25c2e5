package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// groupsCmd prints the parameter hierarchy
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Print the parameter group tree",
	Long: `Prints every group of the country's parameter hierarchy with the path
that selects it. Leaves show their parameter count.

Example:
  explorer groups --country uk.yaml`,
	Args: cobra.NoArgs,
	RunE: runGroups,
}

func runGroups(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := loadCountry(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (/%s)\n", c.Name(), c.RootMarker())
	for _, g := range c.Groups() {
		unit := "groups"
		if g.Leaf {
			unit = "parameters"
		}
		fmt.Fprintf(out, "%s%s  %s  [%d %s]\n", strings.Repeat("  ", g.Depth+1), g.Name, g.Path, g.Count, unit)
	}
	return nil
}

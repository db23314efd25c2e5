package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"policyexplorer/cmd/explorer/ui"
	"policyexplorer/internal/chart"
	"policyexplorer/internal/country"
	"policyexplorer/internal/reform"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	chartSets  []string
	chartWidth int
	chartJSON  bool
)

// chartCmd fetches the age chart for a reform once
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Fetch and print the impact-by-age chart for a reform",
	Long: `Builds a reform from --set edits, submits it to the simulation API and
prints the impact-by-age chart.

Values are parsed by the parameter's kind: percentages as whole percents,
booleans as yes/no.

Example:
  explorer chart --set basic_rate=22 --set personal_allowance=15000`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := loadCountry(cfg)
	if err != nil {
		return err
	}
	sub, err := parseSets(c, chartSets)
	if err != nil {
		return err
	}
	if c.APIURL() == "" {
		return fmt.Errorf("no simulation API configured (set api_url or --api-url)")
	}

	ctx := cmdContext(cmd)
	if t := cfg.GetAPITimeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	client := chart.NewClient(c.APIURL(), chart.WithHTTPClient(&http.Client{}))
	logger.Debug("Requesting age chart",
		zap.String("api", client.BaseURL()),
		zap.Int("edits", sub.Len()))
	res, err := client.FetchAgeChart(ctx, sub)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if chartJSON {
		body, err := json.MarshalIndent(res.AgeChart, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(body))
		return nil
	}
	fmt.Fprintln(out, ui.RenderPlot(res.AgeChart, chartWidth, ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))))
	return nil
}

// parseSets turns id=value flags into a submission, in flag order.
func parseSets(c *country.Context, sets []string) (*reform.Submission, error) {
	sub := reform.NewSubmission()
	for _, s := range sets {
		id, text, ok := strings.Cut(s, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --set %q: want id=value", s)
		}
		p, _ := c.Parameter(id)
		v, err := reform.ParseValue(p.ValueKind(), text)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %s: %w", id, err)
		}
		sub.Set(id, v)
	}
	return sub, nil
}

func formatDefault(kind string, v any) string {
	if v == nil {
		return "-"
	}
	return reform.FormatValue(kind, v)
}

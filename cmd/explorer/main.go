// Command explorer is a terminal explorer for tax and benefit policy
// parameters. It browses a country's parameter hierarchy, edits a reform and
// charts its impact by age through the simulation API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"policyexplorer/internal/config"
	"policyexplorer/internal/country"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath  string
	countryFile string
	apiURL      string
	verbose     bool
	timeout     time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Explore policy parameters and their impact by age",
	Long: `explorer browses the parameter hierarchy of a country configuration,
edits a reform and charts its impact by age through the simulation API.

Run without arguments to start the interactive explorer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		zapCfg.OutputPaths = []string{"stderr"}
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runExplorer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "explorer.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&countryFile, "country", "", "Country configuration file (overrides country.file)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Simulation API base URL (overrides the country api_url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Chart request timeout (0 = api.timeout)")

	rootCmd.Flags().StringVar(&openReform, "reform", "", "Start from a saved reform id")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the country file on change")

	chartCmd.Flags().StringArrayVar(&chartSets, "set", nil, "Parameter edit as id=value (repeatable)")
	chartCmd.Flags().IntVar(&chartWidth, "width", 72, "Plot width in columns")
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "Print the figure as JSON")

	reformsListCmd.Flags().BoolVar(&reformsAll, "all", false, "List reforms of every country")

	reformsCmd.AddCommand(reformsListCmd)
	reformsCmd.AddCommand(reformsShowCmd)
	reformsCmd.AddCommand(reformsDeleteCmd)

	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(reformsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if countryFile != "" {
		cfg.Country.File = countryFile
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if timeout > 0 {
		cfg.API.Timeout = timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCountry builds the shared country context for cfg.
func loadCountry(cfg *config.Config) (*country.Context, error) {
	f, err := country.LoadFile(cfg.Country.File)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded country file",
		zap.String("path", cfg.Country.File),
		zap.String("country", f.Name))
	return country.NewContext(f, country.WithAPIURL(cfg.API.BaseURL)), nil
}

// cmdContext returns the command's context, or Background when run directly.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

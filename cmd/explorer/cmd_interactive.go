package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"policyexplorer/cmd/explorer/ui"
	"policyexplorer/internal/chart"
	"policyexplorer/internal/config"
	"policyexplorer/internal/country"
	"policyexplorer/internal/logging"
	"policyexplorer/internal/store"
	"policyexplorer/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	openReform string
	noWatch    bool
)

// runExplorer starts the interactive explorer.
func runExplorer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Initialize(cfg.StateDir, cfg.Logging.Settings()); err != nil {
		logger.Warn("File logging disabled", zap.Error(err))
	}
	defer logging.CloseAll()

	ctx, cancel := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, reforms, err := boot(ctx, cfg)
	if err != nil {
		return err
	}
	defer reforms.Close()

	opts := ui.Options{
		Styles:         ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)),
		Store:          reforms,
		FetchTimeout:   cfg.GetAPITimeout(),
		ResizeDebounce: cfg.GetResizeDebounce(),
		ChartExpanded:  cfg.UI.ChartExpanded,
		NewFetcher:     newFetcher,
	}
	if url := c.APIURL(); url != "" {
		opts.Fetcher = newFetcher(url)
	}
	if openReform != "" {
		saved, err := reforms.Get(ctx, openReform)
		if err != nil {
			return err
		}
		opts.Submission = saved.Submission
	}

	var reloads chan ui.CountryReloadedMsg
	if cfg.Country.Watch && !noWatch {
		reloads = make(chan ui.CountryReloadedMsg, 1)
		w, err := startWatcher(ctx, cfg.Country.File, reloads)
		if err != nil {
			logger.Warn("Country file watcher disabled", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	logging.Boot("Starting explorer for %s (api %q)", c.Name(), c.APIURL())
	return ui.Run(ctx, c, opts, reloads)
}

// boot loads the country file and opens the reform store concurrently.
func boot(ctx context.Context, cfg *config.Config) (*country.Context, *store.Store, error) {
	var (
		c       *country.Context
		reforms *store.Store
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = loadCountry(cfg)
		return err
	})
	g.Go(func() error {
		var err error
		reforms, err = store.Open(cfg.DatabasePath())
		return err
	})
	if err := g.Wait(); err != nil {
		if reforms != nil {
			reforms.Close()
		}
		return nil, nil, err
	}
	return c, reforms, nil
}

func newFetcher(apiURL string) chart.Fetcher {
	return chart.NewClient(apiURL, chart.WithHTTPClient(&http.Client{}))
}

// startWatcher forwards settled country file changes to reloads. A pending
// reload is replaced by a newer one.
func startWatcher(ctx context.Context, path string, reloads chan ui.CountryReloadedMsg) (*watch.Watcher, error) {
	w, err := watch.New(path, func(f *country.File, err error) {
		msg := ui.CountryReloadedMsg{File: f, Err: err}
		select {
		case reloads <- msg:
		default:
			select {
			case <-reloads:
			default:
			}
			select {
			case reloads <- msg:
			default:
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return w, nil
}

var _ ui.Saver = (*store.Store)(nil)

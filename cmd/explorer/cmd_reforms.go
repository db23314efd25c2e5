package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"policyexplorer/cmd/explorer/ui"
	"policyexplorer/internal/store"

	"github.com/spf13/cobra"
)

var reformsAll bool

// reformsCmd manages saved reforms
var reformsCmd = &cobra.Command{
	Use:   "reforms",
	Short: "Manage saved reforms",
	Long: `Lists, shows and deletes reforms saved from the explorer (press s in the
explorer to save the current reform).`,
}

var reformsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reforms for the country, newest first",
	Args:  cobra.NoArgs,
	RunE:  runReformsList,
}

var reformsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a saved reform as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runReformsShow,
}

var reformsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved reform",
	Args:  cobra.ExactArgs(1),
	RunE:  runReformsDelete,
}

func openStore() (*store.Store, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	s, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, "", err
	}
	name := ""
	if c, err := loadCountry(cfg); err == nil {
		name = c.Name()
	}
	return s, name, nil
}

func runReformsList(cmd *cobra.Command, args []string) error {
	s, countryName, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if reformsAll {
		countryName = ""
	}
	reforms, err := s.List(cmdContext(cmd), countryName)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(reforms) == 0 {
		fmt.Fprintln(out, "No saved reforms")
		return nil
	}

	table := ui.NewSimpleTable("Saved reforms", "ID", "Name", "Country", "Edits", "Created")
	for _, r := range reforms {
		edits := fmt.Sprintf("%d", r.Submission.Len())
		if r.EditsBaseline {
			edits += " (baseline)"
		}
		table.AddRow(r.ID, r.Name, r.Country, edits, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(out, table.View(ui.DefaultStyles()))
	return nil
}

func runReformsShow(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.Get(cmdContext(cmd), args[0])
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(r.Submission, "", "  ")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s, %s)\n", r.Name, r.Country, r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(out, string(body))
	return nil
}

func runReformsDelete(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Delete(cmdContext(cmd), args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no saved reform %s", args[0])
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seenimoa/fundlens/internal/config"
	"github.com/seenimoa/fundlens/internal/dataset"
	"github.com/seenimoa/fundlens/internal/datasource"
	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/internal/scheduler"
)

// --- Import Command ---

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import funds from a CSV or HTML file into the snapshot store",
	Long: `Import funds from a CSV export or an HTML factsheet table into the
snapshot store. The stored snapshot is served when data.source is sqlite.
The whole file is rejected if any row is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		kind, _ := cmd.Flags().GetString("kind")
		if kind == "" {
			kind = kindFromExt(path)
		}

		funds, err := dataset.ReadFile(kind, path)
		if err != nil {
			return err
		}
		if _, err := repository.New(funds, repository.WithLogger(log)); err != nil {
			return fmt.Errorf("import rejected: %w", err)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		runID, err := st.SaveSnapshot(cmd.Context(), funds, "import:"+filepath.Base(path))
		if err != nil {
			return err
		}
		fmt.Printf("Imported %s into %s (run %s)\n", numbers.Sprintf("%d funds", len(funds)), st.Path(), runID)
		return nil
	},
}

func init() {
	importCmd.Flags().String("kind", "", "file kind: csv or html (default: from extension)")
}

func kindFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return config.SourceHTML
	}
	return config.SourceCSV
}

// --- Sync Command ---

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull every fund from the remote API into the snapshot store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Remote.Enabled {
			return errNoRemote
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		job := scheduler.NewSyncJob(datasource.NewRemote(cfg.Remote), st, syncTimeout(), log)
		runID, err := job.Sync(cmd.Context())
		if err != nil {
			return err
		}
		run, err := st.LastRun(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Stored %s from %s (run %s)\n", numbers.Sprintf("%d funds", run.FundCount), run.Source, runID)
		return nil
	},
}

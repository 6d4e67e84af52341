package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jcdickinson/doxyschema/internal/db"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the resolved schema to a DuckDB database",
	Example: `  doxyschema export
  doxyschema export --db ./schema.duckdb`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

var exportDB string

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "", "database path (overrides export.db_path)")
}

func runExport(cmd *cobra.Command, args []string) {
	cfg, ws := openWorkspace()
	s, err := ws.Schema(context.Background())
	if err != nil {
		slog.Error("failed to resolve schema", "error", err)
		os.Exit(1)
	}

	path := cfg.Export.DBPath
	if exportDB != "" {
		path = exportDB
	}

	database, err := db.New(path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.ReplaceSchema(s); err != nil {
		slog.Error("export failed", "error", err)
		os.Exit(1)
	}

	n, err := database.ClassCount()
	if err != nil {
		slog.Error("export verification failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("exported %d classes to %s\n", n, path)
}

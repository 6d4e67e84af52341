package cmd

import (
	"fmt"
	"log"

	"github.com/jcdickinson/doxyschema/internal/config"
	"github.com/jcdickinson/doxyschema/internal/db"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a DuckDB export written by the export command",
}

var queryTraitsCmd = &cobra.Command{
	Use:   "traits",
	Short: "List abstract base classes in the export",
	Args:  cobra.NoArgs,
	Run:   runQueryTraits,
}

var queryUsesCmd = &cobra.Command{
	Use:   "uses <type>",
	Short: "List fields whose type is or directly wraps a class",
	Example: `  doxyschema query uses MessageContent
  doxyschema query uses User --db ./schema.duckdb`,
	Args: cobra.ExactArgs(1),
	Run:  runQueryUses,
}

var queryDB string

func init() {
	queryCmd.PersistentFlags().StringVar(&queryDB, "db", "", "database path (overrides export.db_path)")
	queryCmd.AddCommand(queryTraitsCmd)
	queryCmd.AddCommand(queryUsesCmd)
}

func openExport() *db.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	path := cfg.Export.DBPath
	if queryDB != "" {
		path = queryDB
	}

	database, err := db.New(path)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return database
}

func runQueryTraits(cmd *cobra.Command, args []string) {
	database := openExport()
	defer database.Close()

	names, err := database.TraitClasses()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(names) == 0 {
		fmt.Println("no trait classes in export")
		return
	}
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
}

func runQueryUses(cmd *cobra.Command, args []string) {
	database := openExport()
	defer database.Close()

	refs, err := database.FieldsOfType(args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(refs) == 0 {
		fmt.Printf("no fields use %s\n", args[0])
		return
	}
	for _, r := range refs {
		fmt.Printf("  %s.%-24s %s\n", r.Class, r.Field, r.Type)
	}
}

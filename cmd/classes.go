package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jcdickinson/doxyschema/internal/schema"
	"github.com/spf13/cobra"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List documented classes",
	Example: `  doxyschema classes --docs td/docs/html
  doxyschema classes --traits`,
	Args: cobra.NoArgs,
	Run:  runClasses,
}

var (
	classesTraits bool
	classesJSON   bool
)

func init() {
	classesCmd.Flags().BoolVar(&classesTraits, "traits", false, "only list abstract base classes")
	classesCmd.Flags().BoolVar(&classesJSON, "json", false, "output as JSON")
}

// loadSchema builds or restores the schema for the configured docs directory.
func loadSchema() *schema.Schema {
	_, ws := openWorkspace()
	s, err := ws.Schema(context.Background())
	if err != nil {
		log.Fatalf("failed to resolve schema: %v", err)
	}
	return s
}

func runClasses(cmd *cobra.Command, args []string) {
	s := loadSchema()

	names := []string{}
	for _, name := range s.KnownClassNames() {
		if classesTraits && !s.IsTrait(name) {
			continue
		}
		names = append(names, name)
	}

	if classesJSON {
		out, _ := json.MarshalIndent(names, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(names) == 0 {
		fmt.Println("no classes found")
		return
	}

	for _, name := range names {
		line := "  " + name
		if s.IsTrait(name) {
			line += " [trait]"
		}
		if parent, ok := s.ParentClass(name); ok {
			line += " : " + parent
		}
		fmt.Println(line)
	}
}

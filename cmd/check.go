package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report member table irregularities",
	Long: `Resolves the schema and lists every field row that was dropped or kept with a
best-effort type. Exits with status 1 when anything was found.`,
	Args: cobra.NoArgs,
	Run:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) {
	s := loadSchema()

	diags := s.Diagnostics()
	if len(diags) == 0 {
		fmt.Printf("%d classes, no irregularities\n", len(s.KnownClassNames()))
		return
	}

	for _, d := range diags {
		fmt.Printf("  %s: %s: %s\n", d.Class, d.Kind, d.Detail)
	}
	fmt.Printf("%d irregularities\n", len(diags))
	os.Exit(1)
}

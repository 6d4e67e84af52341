package cmd

import (
	"github.com/jcdickinson/doxyschema/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the resolved schema over MCP (stdio)",
	Long: `Runs an MCP server on stdin/stdout. The schema is resolved on the first
request and shared by every later one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ws := openWorkspace()
		return mcp.NewServer(ws, version).Run()
	},
}

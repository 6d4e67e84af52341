package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/jcdickinson/doxyschema/internal/markdown"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [class ...]",
	Short: "Render a Markdown or HTML class reference",
	Long:  `Renders the given classes, or every known class when none are given.`,
	Example: `  doxyschema render -o api.md
  doxyschema render --html --toc -o api.html
  doxyschema render message user`,
	Run: runRender,
}

var (
	renderHTML   bool
	renderTOC    bool
	renderOutput string
	renderTitle  string
)

func init() {
	renderCmd.Flags().BoolVar(&renderHTML, "html", false, "render HTML instead of Markdown")
	renderCmd.Flags().BoolVar(&renderTOC, "toc", false, "prepend a table of contents (HTML only)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write to file instead of stdout")
	renderCmd.Flags().StringVar(&renderTitle, "title", "API reference", "document title")
}

func runRender(cmd *cobra.Command, args []string) {
	s := loadSchema()

	var md string
	if len(args) == 0 {
		md = markdown.RenderAll(s, renderTitle)
	} else {
		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n", renderTitle)
		for _, name := range args {
			section, err := markdown.RenderClass(s, name)
			if err != nil {
				log.Fatalf("%v", err)
			}
			b.WriteString(section)
		}
		md = b.String()
	}
	md = markdown.LocalizeLinks(md)

	out := []byte(md)
	if renderHTML {
		out = markdown.ToHTML(md, renderTOC)
	}

	if renderOutput == "" {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(renderOutput, out, 0644); err != nil {
		slog.Error("failed to write output", "path", renderOutput, "error", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", renderOutput)
}

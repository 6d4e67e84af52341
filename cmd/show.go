package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/jcdickinson/doxyschema/internal/markdown"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <class>",
	Short: "Show the resolved metadata of one class",
	Example: `  doxyschema show userStatus
  doxyschema show --json message`,
	Args: cobra.ExactArgs(1),
	Run:  runShow,
}

var (
	showJSON     bool
	showMarkdown bool
)

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	showCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "output as Markdown")
}

func runShow(cmd *cobra.Command, args []string) {
	s := loadSchema()

	info, err := s.Class(args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}

	switch {
	case showJSON:
		out, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(out))
		return
	case showMarkdown:
		text, err := markdown.RenderClass(s, args[0])
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Print(text)
		return
	}

	fmt.Printf("%s (%s)\n", info.Name, info.Path)
	if info.Description != nil {
		fmt.Printf("  %s\n", *info.Description)
	}
	fmt.Printf("  trait: %v\n", info.Trait)
	if info.Parent != nil {
		fmt.Printf("  parent: %s\n", *info.Parent)
	}
	if len(info.Subclasses) > 0 {
		fmt.Println("  subclasses:")
		for _, sub := range info.Subclasses {
			fmt.Printf("    %s\n", sub)
		}
	}
	if info.Fields == nil {
		return
	}
	fmt.Println("  fields:")
	for _, f := range info.Fields {
		fmt.Printf("    %-24s %-32s %s\n", f.Name, f.Type, f.Description)
	}
}

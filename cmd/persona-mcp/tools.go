package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/persona-mcp/internal/persona"
)

func newToolsCmd() *cobra.Command {
	var (
		readOnly   bool
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the Persona tools exposed over MCP",
		Long: `List the catalog tools that serve would register.

Examples:
  # Everything
  persona-mcp tools

  # Only read-only inquiry and case tools
  persona-mcp tools --read-only --category inquiries --category cases`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := persona.DefaultCatalog()
			if err := catalog.CheckCategories(categories); err != nil {
				return err
			}
			renderTools(cmd.OutOrStdout(), catalog.Filter(readOnly, categories))
			return nil
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", false, "only tools that never modify Persona state")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "limit to these categories (repeatable)")
	return cmd
}

func renderTools(w io.Writer, catalog persona.Catalog) {
	rows := make([][]string, 0, len(catalog))
	for _, spec := range catalog {
		rows = append(rows, []string{
			spec.Name,
			spec.Category,
			spec.Route.Method,
			spec.Route.Path,
			accessLabel(spec),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 || col == 3:
				return dimStyle
			default:
				return cellStyle
			}
		}).
		Headers("TOOL", "CATEGORY", "METHOD", "PATH", "ACCESS").
		Rows(rows...)

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d tools\n", len(catalog))
}

func accessLabel(spec persona.ToolSpec) string {
	switch {
	case spec.ReadOnly:
		return "read"
	case spec.Destructive:
		return "destructive"
	default:
		return "write"
	}
}

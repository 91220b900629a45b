package docs

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsharvest/cmd/common"
)

// titleColumnWidth truncates long titles in the table.
const titleColumnWidth = 60

// listCommand returns the docs list command.
func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stored documents in a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, depsErr := common.New()
			if depsErr != nil {
				return depsErr
			}

			st := deps.OpenStore()

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Title", "URL", "Extracted"})

			for i, doc := range st.Documents() {
				t.AppendRow(table.Row{
					i + 1,
					truncate(doc.Title, titleColumnWidth),
					doc.URL,
					doc.ExtractedAt.Format("2006-01-02 15:04"),
				})
			}

			t.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "%d documents in %s\n", st.Len(), st.Path())
			if next := st.NextLink(); next != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Pagination continuation: %s\n", next)
			}

			return nil
		},
	}
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

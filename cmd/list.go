package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hmans/threads/internal/ui"
)

var (
	listJSON  bool
	listQuiet bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog items",
	Long:    `Lists every item in the catalog, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := db.Items(context.Background(), nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		if listQuiet {
			for _, item := range items {
				fmt.Println(item.ID)
			}
			return nil
		}

		if len(items) == 0 {
			fmt.Println(ui.Muted.Render("No items found. Seed the catalog with: threads seed <dir>"))
			return nil
		}

		// Terminal width bounds the title column
		width := 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}

		maxIDWidth := 2 // minimum for "ID" header
		for _, item := range items {
			if len(item.ID) > maxIDWidth {
				maxIDWidth = len(item.ID)
			}
		}
		maxIDWidth += 2 // padding

		priceWidth := 12
		titleWidth := width - maxIDWidth - priceWidth - 2
		if titleWidth < 10 {
			titleWidth = 10
		}

		idStyle := lipgloss.NewStyle().Width(maxIDWidth)
		priceStyle := lipgloss.NewStyle().Width(priceWidth)
		titleStyle := lipgloss.NewStyle()

		headerCol := lipgloss.NewStyle().Foreground(ui.ColorMuted)

		header := lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(headerCol.Render("ID")),
			priceStyle.Render(headerCol.Render("PRICE")),
			titleStyle.Render(headerCol.Render("TITLE")),
		)
		fmt.Println(header)
		fmt.Println(ui.Muted.Render(strings.Repeat("─", min(width, maxIDWidth+priceWidth+30))))

		for _, item := range items {
			row := lipgloss.JoinHorizontal(lipgloss.Top,
				idStyle.Render(ui.ID.Render(item.ID)),
				priceStyle.Render(ui.RenderPrice(item.Price)),
				titleStyle.Render(truncate(item.Title, titleWidth)),
			)
			fmt.Println(row)
		}
		return nil
	},
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 3 || len([]rune(s)) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVarP(&listQuiet, "quiet", "q", false, "Only print item IDs")
	rootCmd.AddCommand(listCmd)
}

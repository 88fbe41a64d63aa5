package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hmans/threads/internal/ui"
)

var showItemJSON bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalog item",
	Long:  `Displays one item: title, price, images, and the markdown description.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := db.ItemByID(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to find item: %w", err)
		}

		if showItemJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(item)
		}

		var header strings.Builder
		header.WriteString(ui.ID.Render(item.ID))
		header.WriteString("  ")
		header.WriteString(ui.RenderPrice(item.Price))
		header.WriteString("\n")
		header.WriteString(ui.Title.Render(item.Title))
		if item.Image != nil && *item.Image != "" {
			header.WriteString("\n")
			header.WriteString(ui.Muted.Render("image: " + *item.Image))
		}
		header.WriteString("\n")
		header.WriteString(ui.Muted.Render(strings.Repeat("─", 50)))

		headerBox := lipgloss.NewStyle().
			MarginBottom(1).
			Render(header.String())

		fmt.Println(headerBox)

		if item.Description != "" {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				return fmt.Errorf("failed to create renderer: %w", err)
			}

			rendered, err := renderer.Render(item.Description)
			if err != nil {
				return fmt.Errorf("failed to render markdown: %w", err)
			}
			fmt.Print(rendered)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showItemJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}

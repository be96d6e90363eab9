package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wanderly/wanderly/cli/helpers"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	dayStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	timeStyle  = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245"))
	mealStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	restStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("108"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print a document as a readable day-by-day plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := helpers.ReadDocument(inputs(args)[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), RenderDocument(doc))
			return err
		},
	}
}

// RenderDocument formats doc for a terminal.
func RenderDocument(doc *legacy.Document) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = "untitled trip"
	}
	b.WriteString(titleStyle.Render(caser.String(title)))
	b.WriteString("\n")
	for _, day := range doc.Days {
		b.WriteString(dayStyle.Render(fmt.Sprintf("Day %d", day.Day)))
		b.WriteString("\n")
		if len(day.Blocks) == 0 {
			b.WriteString(mutedStyle.Render("  Free day"))
			b.WriteString("\n")
		}
		for i := range day.Blocks {
			b.WriteString("  ")
			b.WriteString(renderBlock(&day.Blocks[i]))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBlock(block *legacy.Block) string {
	activity := block.Activity
	switch {
	case block.IsMeal():
		activity = mealStyle.Render(activity)
	case block.IsRest():
		activity = restStyle.Render(activity)
	}
	line := timeStyle.Render(block.Time) + " " + activity
	if block.Duration != "" {
		line += " " + mutedStyle.Render("("+block.Duration+")")
	}
	return line
}

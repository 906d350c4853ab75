package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Style "auto" follows the terminal background, "notty" produces plain text.
func NewRenderer(style string, width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render, nil
}

// ProtocolMarkdown documents the protocol rules as a markdown table.
func ProtocolMarkdown(rules []domain.Rule) string {
	var sb strings.Builder
	sb.WriteString("# Onboard controller protocol\n\n")
	sb.WriteString("One JSON object per message. Each cycle the controller handles at most one ")
	sb.WriteString("message, or a tick when none arrived.\n\n")
	sb.WriteString("| From | Trigger | Reply | To |\n")
	sb.WriteString("|------|---------|-------|----|\n")
	for _, r := range rules {
		fmt.Fprintf(&sb, "| %s | `%s` | %s | %s |\n", r.From, r.Trigger, escapeCell(r.Effect), r.To)
	}
	sb.WriteString("\nAnything else is logged and ignored: the state does not change and nothing is sent.\n")
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

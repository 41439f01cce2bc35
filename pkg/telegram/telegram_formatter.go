package telegram

import (
	"fmt"
	"strings"
)

// FormatRegimeChange formats a regime transition notification as Markdown.
func FormatRegimeChange(previous, current string, whatChanged []string) string {
	var sb strings.Builder
	sb.WriteString("⚠️ *Market Regime Change*\n\n")
	if previous != "" {
		sb.WriteString(fmt.Sprintf("Previous: %s\n", previous))
	}
	sb.WriteString(fmt.Sprintf("Current: *%s*\n", current))

	if len(whatChanged) > 0 {
		sb.WriteString("\n*What changed:*\n")
		for _, c := range whatChanged {
			sb.WriteString(fmt.Sprintf("• %s\n", c))
		}
	}
	return sb.String()
}

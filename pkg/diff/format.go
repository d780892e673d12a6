package diff

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format renders a Result in the named format: "text", "markdown" or "json".
func Format(result *Result, format string) (string, error) {
	switch format {
	case "", "text":
		return formatText(result), nil
	case "markdown", "md":
		return formatMarkdown(result), nil
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding diff: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown diff format: %s", format)
	}
}

func formatText(result *Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "diff %s -> %s: %d change(s), %d breaking\n",
		result.OldVersion, result.NewVersion, result.Summary.Total, result.Summary.Breaking)
	for _, c := range result.Changes {
		marker := " "
		if c.Breaking {
			marker = "!"
		}
		fmt.Fprintf(&sb, "%s %-20s %s: %s", marker, c.KindName, c.Location, c.Message)
		if c.OldValue != "" || c.NewValue != "" {
			fmt.Fprintf(&sb, " (%s -> %s)", c.OldValue, c.NewValue)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatMarkdown(result *Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Schema diff `%s` → `%s`\n\n", result.OldVersion, result.NewVersion)
	fmt.Fprintf(&sb, "%d change(s), **%d breaking**, %d warning(s)\n\n",
		result.Summary.Total, result.Summary.Breaking, result.Summary.Warnings)

	if len(result.Changes) == 0 {
		sb.WriteString("No structural changes.\n")
		return sb.String()
	}

	sb.WriteString("| Kind | Location | Change | Breaking |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, c := range result.Changes {
		detail := c.Message
		if c.OldValue != "" || c.NewValue != "" {
			detail = fmt.Sprintf("%s: `%s` → `%s`", c.Message, c.OldValue, c.NewValue)
		}
		breaking := "no"
		if c.Breaking {
			breaking = "**yes**"
		}
		fmt.Fprintf(&sb, "| %s | `%s` | %s | %s |\n", c.KindName, c.Location, detail, breaking)
	}
	return sb.String()
}

package schema

import (
	"fmt"
	"strings"

	"github.com/finlens/insight-go/core"
)

// Render flattens sections into the markdown stored as the analysis
// content, so raw-text and structured results read the same way.
func Render(sections []core.InsightSection) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + s.Title + "\n\n")
		switch s.Type {
		case core.SectionList:
			for _, item := range s.Items {
				b.WriteString("- " + item + "\n")
			}
		case core.SectionNumberedList:
			for n, item := range s.Items {
				b.WriteString(fmt.Sprintf("%d. %s\n", n+1, item))
			}
		case core.SectionHighlight:
			b.WriteString("**" + s.Highlight + "**\n")
		default:
			b.WriteString(s.Text + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

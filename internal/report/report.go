// Package report renders cut plans into review documents: a markdown
// summary of what was kept and what was cut, and the same content as a
// styled Word document. Reports are advisory output for the editor;
// nothing in the engine reads them back.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
)

// Markdown renders the plan as a markdown review document.
func Markdown(title string, plan *cutplan.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Cut Report — %s\n\n", title)
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().Format("2006-01-02 15:04"))

	st := plan.Stats
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Original duration: %s\n", st.OriginalDurationFormatted())
	fmt.Fprintf(&b, "- Kept: %s (%s)\n", st.KeptDurationFormatted(), keptShare(st))
	fmt.Fprintf(&b, "- Removed: %s\n", st.TimeSavedFormatted())
	fmt.Fprintf(&b, "- Pauses cut: %d\n", st.SilencesRemoved)
	fmt.Fprintf(&b, "- Duplicate takes cut: %d\n", st.DuplicatesRemoved)

	if removed := plan.RemovedSegments(); len(removed) > 0 {
		b.WriteString("\n## Cuts\n\n")
		for _, s := range removed {
			fmt.Fprintf(&b, "- %s – %s (%.1fs) %s\n",
				cutplan.FormatDuration(s.Start), cutplan.FormatDuration(s.End), s.Duration(), s.Reason)
		}
	}

	if len(plan.Paragraphs) > 0 {
		b.WriteString("\n## Paragraphs\n\n")
		for _, p := range plan.Paragraphs {
			marker := "KEEP"
			if p.Action == cutplan.ActionRemove {
				marker = "CUT"
			}
			fmt.Fprintf(&b, "- **%s** [%s – %s]", marker,
				cutplan.FormatDuration(p.Start), cutplan.FormatDuration(p.End))
			if p.Reason != "" {
				fmt.Fprintf(&b, " (%s)", p.Reason)
			}
			fmt.Fprintf(&b, " %s\n", p.Text)
		}
	}

	return b.String()
}

// WriteMarkdown writes the markdown report to path.
func WriteMarkdown(title string, plan *cutplan.Plan, path string) error {
	if err := os.WriteFile(path, []byte(Markdown(title, plan)), 0o644); err != nil {
		return fmt.Errorf("write cut report: %w", err)
	}
	return nil
}

func keptShare(st cutplan.Stats) string {
	if st.OriginalDuration <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", st.KeptDuration/st.OriginalDuration*100)
}

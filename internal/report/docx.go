package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/smartcut/internal/cutplan"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// WriteDocx renders the same content as Markdown into a styled Word
// document at path.
func WriteDocx(title string, plan *cutplan.Plan, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	for _, line := range strings.Split(Markdown(title, plan), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			p := doc.AddParagraph("")
			p.AddText(m[2]).Font(fontName).Size(headingSize(len(m[1]))).Color("000000").Bold(true)
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("write cut report: %w", err)
	}
	return nil
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	default:
		return fontSize
	}
}

// addRichText splits **bold** spans into separate styled runs.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(part).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(matches[i][1]).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

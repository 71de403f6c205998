package report

import (
	"fmt"
	"strings"
)

// Terminal renders the report with colours for interactive output
func Terminal(r *Report) string {
	if r.IsEmpty() {
		return EmptyStyle.Render("No changes detected.") + "\n"
	}

	var b strings.Builder
	for _, f := range r.Changed() {
		b.WriteString(FolderHeaderStyle.Render(f.Name))
		b.WriteString(" ")
		b.WriteString(FolderPathStyle.Render(fmt.Sprintf("%s - %s", f.Path, f.Summary())))
		b.WriteString("\n")

		for _, e := range f.Entries {
			line := e.Symbol() + " " + e.Path
			b.WriteString(entryStyle(e).Render(line))
			if e.Detail != "" {
				b.WriteString(" ")
				b.WriteString(DetailStyle.Render(e.Detail))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	additions, deletions, modifications := r.Totals()
	b.WriteString(DetailStyle.Render(fmt.Sprintf("%d added, %d deleted, %d modified", additions, deletions, modifications)))
	b.WriteString("\n")
	return b.String()
}

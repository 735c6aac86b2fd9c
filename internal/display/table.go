package display

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/backmassage/batchren/internal/term"
)

// Row is one line of the rename preview.
type Row struct {
	From string
	To   string
	Note string
}

// PreviewTable renders the preview as a rounded table on w. The NOTE column
// only appears when at least one row carries a note.
func PreviewTable(w io.Writer, rows []Row) {
	notes := false
	for _, r := range rows {
		if r.Note != "" {
			notes = true
			break
		}
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if notes {
		tw.AppendHeader(table.Row{"#", "CURRENT NAME", "NEW NAME", "NOTE"})
	} else {
		tw.AppendHeader(table.Row{"#", "CURRENT NAME", "NEW NAME"})
	}
	for i, r := range rows {
		if notes {
			tw.AppendRow(table.Row{i + 1, r.From, r.To, r.Note})
		} else {
			tw.AppendRow(table.Row{i + 1, r.From, r.To})
		}
	}

	style := table.StyleRounded
	if term.Enabled() {
		style.Color.Header = text.Colors{text.FgHiCyan, text.Bold}
	}
	tw.SetStyle(style)
	tw.Render()
}

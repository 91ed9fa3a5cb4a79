package cmd

import (
	"io"

	"github.com/ardanlabs/algoapps/foundation/appstate"
	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

func renderState(w io.Writer, state appstate.State) {
	t := newTable(w, "Key", "Type", "Value")
	for _, key := range state.Keys() {
		v := state[key]

		typ := "uint"
		if v.Type == appstate.TypeBytes {
			typ = "bytes"
		}

		t.AppendRow(table.Row{key, typ, v.String()})
	}
	t.Render()
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alfredjeanlab/wledrelay/internal/model"
	"github.com/alfredjeanlab/wledrelay/internal/ui"
)

// printEffectJSON writes rec as stored JSON, or the empty record when nil.
func printEffectJSON(w io.Writer, rec *model.EffectRecord) {
	if rec == nil {
		fmt.Fprintln(w, string(model.EmptyRecordJSON))
		return
	}
	data, err := rec.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

func printEffectTable(w io.Writer, rec *model.EffectRecord) {
	if rec == nil {
		fmt.Fprintln(w, ui.RenderMuted("No effect set."))
		return
	}
	fmt.Fprintf(w, "Effect:   %s\n", ui.RenderEffect(rec.EffectString()))
	fmt.Fprintf(w, "Updated:  %s\n", ui.RenderMuted(rec.UpdatedAt))
}

// printEffectLine writes a single-line summary, used while watching.
func printEffectLine(w io.Writer, rec *model.EffectRecord) {
	if jsonOutput {
		printEffectJSON(w, rec)
		return
	}
	if rec == nil {
		fmt.Fprintln(w, ui.RenderMuted("(none)"))
		return
	}
	fmt.Fprintf(w, "%s  %s\n", ui.RenderMuted(rec.UpdatedAt), ui.RenderEffect(rec.EffectString()))
}

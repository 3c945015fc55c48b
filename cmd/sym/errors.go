package main

import (
	"fmt"
	"io"

	"github.com/Konfuzian/symbolic-language/symerr"
)

// formatError prints err to w, giving symerr.Error values the detailed,
// span-aware treatment and falling back to a plain one-liner for
// anything else (e.g. a file-not-found from the CLI's own I/O).
func formatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *symerr.Error:
		formatSymError(w, e, useColor)
	case symerr.List:
		for _, sub := range e {
			formatError(w, sub, useColor)
		}
	default:
		fmt.Fprintf(w, "%s%s\n", colorize("Error: ", colorRed, useColor), err.Error())
	}
}

func formatSymError(w io.Writer, e *symerr.Error, useColor bool) {
	fmt.Fprintf(w, "%s: %s\n", colorize(e.Kind.String(), colorRed, useColor), e.Message)
	fmt.Fprintf(w, "  %s\n", colorize("at "+e.Span.String(), colorGray, useColor))

	if len(e.Chain) > 1 {
		fmt.Fprintf(w, "  %s\n", colorize("imported via: "+joinChain(e.Chain), colorGray, useColor))
	}
	for _, r := range e.Related {
		fmt.Fprintf(w, "  %s\n", colorize("related: "+r.String(), colorGray, useColor))
	}
	if e.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", colorize(fmt.Sprintf("did you mean %q?", e.Suggestion), colorYellow, useColor))
	}
}

func joinChain(chain []string) string {
	out := chain[0]
	for _, c := range chain[1:] {
		out += " -> " + c
	}
	return out
}

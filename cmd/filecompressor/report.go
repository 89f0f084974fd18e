package main

import (
	"fmt"
	"io"

	"github.com/infracollect/filecompressor/internal/engine"
)

// printResult writes a human readable build summary.
func printResult(w io.Writer, target string, sources int, result engine.Result) {
	if !result.Success {
		fmt.Fprintf(w, "✗ Failed to build '%s'\n", target)
		return
	}

	fmt.Fprintf(w, "✓ Built '%s' (%d of %d files)\n", target, sources-len(result.Skipped), sources)
	for _, skip := range result.Skipped {
		fmt.Fprintf(w, "  • skipped %s: %s\n", skip.Path, skip.Reason)
	}
}

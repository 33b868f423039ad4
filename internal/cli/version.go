package cli

import (
	"fmt"
	"io"

	"github.com/i5heu/pngstash"
)

// Version prints the tool version.
func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "pngstash %s\n", pngstash.Version)
}

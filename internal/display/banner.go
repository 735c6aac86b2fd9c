package display

import (
	"fmt"
	"os"

	"github.com/backmassage/batchren/internal/term"
)

// PrintBanner prints the ASCII art banner; cyan when colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Cyan)
	}
	fmt.Fprint(os.Stdout, ` ____        _       _     ____
| __ )  __ _| |_ ___| |__ |  _ \ ___ _ __
|  _ \ / _` + "`" + ` | __/ __| '_ \| |_) / _ \ '_ \
| |_) | (_| | || (__| | | |  _ <  __/ | | |
|____/ \__,_|\__\___|_| |_|_| \_\___|_| |_|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}

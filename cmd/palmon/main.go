// Command palmon exercises the palrtos timers on the local host and
// inspects the priority mapping.
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}

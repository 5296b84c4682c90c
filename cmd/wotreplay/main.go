// Command wotreplay unpacks, packs, disassembles, and assembles World
// of Tanks Blitz .wotreplay container files.
package main

import (
	"os"

	"wotreplay/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}

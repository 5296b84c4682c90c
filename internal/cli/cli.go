// Package cli dispatches the wotreplay command-line subcommands,
// wiring internal/container, internal/cipherstream, internal/packet,
// and internal/textform together into one file-conversion tool with
// a flag.FlagSet per subcommand and the usual 0/non-zero exit code
// convention.
package cli

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"wotreplay/internal/container"
	"wotreplay/internal/logging"
	"wotreplay/internal/packet"
	"wotreplay/internal/textform"
)

// Execute dispatches one subcommand invocation and returns a process
// exit code: 0 on success, non-zero on any error.
func Execute(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "unpack":
		return runUnpack(args[1:])
	case "pack":
		return runPack(args[1:])
	case "dis":
		return runDis(args[1:])
	case "asm":
		return runAsm(args[1:])
	case "inspect":
		return runInspect(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		logging.L().Err("unknown subcommand", logging.String("subcommand", args[0]))
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: wotreplay <subcommand> [flags]

subcommands:
  unpack <replay> -1 <first.json> -2 <second.json> -p <packets.bin> [-log-file <path>]
  pack -1 <first.json> [-2 <second.json>] -p <packets.bin> -o <replay> [-log-file <path>]
  dis <packets.bin> -o <packets.txt> [-log-file <path>]
  asm <packets.txt> -o <packets.bin> [-log-file <path>]
  inspect <replay> [-log-file <path>]`)
}

// addLogFileFlag registers the -log-file flag shared by every
// subcommand and returns the pointer fs.Parse will populate.
func addLogFileFlag(fs *flag.FlagSet) *string {
	logFile := fs.String("log-file", "", "mirror log output to this file in addition to stderr")
	return logFile
}

// positionalLast moves a leading positional argument behind the flags,
// so "<subcommand> <path> -flag value" parses: flag.FlagSet.Parse
// stops at the first non-flag argument.
func positionalLast(args []string) []string {
	if len(args) > 1 && !strings.HasPrefix(args[0], "-") {
		return append(append([]string{}, args[1:]...), args[0])
	}
	return args
}

// applyLogFile wires -log-file into the default logger, if given.
func applyLogFile(path string) bool {
	if path == "" {
		return true
	}
	if err := logging.L().AddFileSink(path); err != nil {
		logging.L().Err("open log file", logging.Error(err))
		return false
	}
	return true
}

func runUnpack(args []string) int {
	fs := flag.NewFlagSet("unpack", flag.ContinueOnError)
	var first, second, packets string
	fs.StringVar(&first, "1", "", "output path for the first JSON block")
	fs.StringVar(&second, "2", "", "output path for the second JSON block (if present)")
	fs.StringVar(&packets, "p", "", "output path for the decoded packet stream")
	logFile := addLogFileFlag(fs)
	if err := fs.Parse(positionalLast(args)); err != nil {
		return 2
	}
	if !applyLogFile(*logFile) {
		return 1
	}
	if fs.NArg() != 1 || first == "" || packets == "" {
		logging.L().Err("unpack requires <replay>, -1 and -p")
		return 2
	}
	replayPath := fs.Arg(0)

	in, err := os.Open(replayPath)
	if err != nil {
		logging.L().Err("open replay", logging.Error(err))
		return 1
	}
	defer in.Close()

	decoded, err := container.New().Read(in)
	if err != nil {
		logging.L().Err("read container", logging.Error(err))
		return 1
	}
	logging.L().Info("read container",
		logging.Int("json_blocks", len(decoded.JSONBlocks)),
		logging.Int("payload_bytes", len(decoded.Payload)))

	if err := os.WriteFile(first, decoded.JSONBlocks[0], 0o644); err != nil {
		logging.L().Err("write first json block", logging.Error(err))
		return 1
	}
	logging.L().Debug("wrote json block", logging.String("path", first), logging.Int("bytes", len(decoded.JSONBlocks[0])))

	// The second output path is created lazily: it is written only
	// when the container carries a second JSON block, so no zero-byte
	// file appears for a single-block container.
	if second != "" && len(decoded.JSONBlocks) > 1 {
		secondContent := decoded.JSONBlocks[1]
		if err := os.WriteFile(second, secondContent, 0o644); err != nil {
			logging.L().Err("write second json block", logging.Error(err))
			return 1
		}
		logging.L().Debug("wrote json block", logging.String("path", second), logging.Int("bytes", len(secondContent)))
	}
	if err := os.WriteFile(packets, decoded.Payload, 0o644); err != nil {
		logging.L().Err("write packet stream", logging.Error(err))
		return 1
	}
	logging.L().Info("wrote decoded packet stream", logging.String("path", packets), logging.Int("bytes", len(decoded.Payload)))
	return 0
}

func runPack(args []string) int {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	var first, second, packets, out string
	fs.StringVar(&first, "1", "", "input path for the first JSON block")
	fs.StringVar(&second, "2", "", "input path for the second JSON block")
	fs.StringVar(&packets, "p", "", "input path for the decoded packet stream")
	fs.StringVar(&out, "o", "", "output replay path")
	logFile := addLogFileFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !applyLogFile(*logFile) {
		return 1
	}
	if first == "" || packets == "" || out == "" {
		logging.L().Err("pack requires -1, -p and -o")
		return 2
	}

	blocks := [][]byte{}
	firstContent, err := os.ReadFile(first)
	if err != nil {
		logging.L().Err("read first json block", logging.Error(err))
		return 1
	}
	blocks = append(blocks, firstContent)
	if second != "" {
		secondContent, err := os.ReadFile(second)
		if err != nil {
			logging.L().Err("read second json block", logging.Error(err))
			return 1
		}
		blocks = append(blocks, secondContent)
	}
	logging.L().Debug("read json blocks", logging.Int("count", len(blocks)))

	payload, err := os.ReadFile(packets)
	if err != nil {
		logging.L().Err("read packet stream", logging.Error(err))
		return 1
	}
	logging.L().Debug("read packet stream", logging.String("path", packets), logging.Int("bytes", len(payload)))

	outFile, err := os.Create(out)
	if err != nil {
		logging.L().Err("create replay", logging.Error(err))
		return 1
	}
	defer outFile.Close()

	if err := container.New().Write(outFile, blocks, nil, payload); err != nil {
		logging.L().Err("write container", logging.Error(err))
		return 1
	}
	logging.L().Info("wrote replay", logging.String("path", out), logging.Int("json_blocks", len(blocks)), logging.Int("payload_bytes", len(payload)))
	return 0
}

func runDis(args []string) int {
	fs := flag.NewFlagSet("dis", flag.ContinueOnError)
	var out string
	fs.StringVar(&out, "o", "", "output text-form path")
	logFile := addLogFileFlag(fs)
	if err := fs.Parse(positionalLast(args)); err != nil {
		return 2
	}
	if !applyLogFile(*logFile) {
		return 1
	}
	if fs.NArg() != 1 || out == "" {
		logging.L().Err("dis requires <packets.bin> and -o")
		return 2
	}

	in, err := os.Open(fs.Arg(0))
	if err != nil {
		logging.L().Err("open packet stream", logging.Error(err))
		return 1
	}
	defer in.Close()

	outFile, err := os.Create(out)
	if err != nil {
		logging.L().Err("create text form output", logging.Error(err))
		return 1
	}
	defer outFile.Close()

	for {
		p, err := packet.ReadPacket(in)
		if err != nil {
			logging.L().Err("read packet", logging.Error(err))
			return 1
		}
		if p == nil {
			break
		}
		if err := textform.Render(outFile, p); err != nil {
			logging.L().Err("render packet", logging.Error(err))
			return 1
		}
	}
	return 0
}

func runAsm(args []string) int {
	fs := flag.NewFlagSet("asm", flag.ContinueOnError)
	var out string
	fs.StringVar(&out, "o", "", "output packet stream path")
	logFile := addLogFileFlag(fs)
	if err := fs.Parse(positionalLast(args)); err != nil {
		return 2
	}
	if !applyLogFile(*logFile) {
		return 1
	}
	if fs.NArg() != 1 || out == "" {
		logging.L().Err("asm requires <packets.txt> and -o")
		return 2
	}

	in, err := os.Open(fs.Arg(0))
	if err != nil {
		logging.L().Err("open text form", logging.Error(err))
		return 1
	}
	defer in.Close()

	packets, err := textform.Parse(in)
	if err != nil {
		logging.L().Err("parse text form", logging.Error(err))
		return 1
	}

	outFile, err := os.Create(out)
	if err != nil {
		logging.L().Err("create packet stream output", logging.Error(err))
		return 1
	}
	defer outFile.Close()

	for _, p := range packets {
		if err := packet.WritePacket(outFile, p.Type, p.Body); err != nil {
			logging.L().Err("write packet", logging.Error(err))
			return 1
		}
	}
	return 0
}

// runInspect prints a read-only summary of a replay — JSON block
// count, inner magic, decoded payload length and packet-type
// histogram — useful when iterating on a disassembly without
// re-unpacking.
func runInspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	logFile := addLogFileFlag(fs)
	if err := fs.Parse(positionalLast(args)); err != nil {
		return 2
	}
	if !applyLogFile(*logFile) {
		return 1
	}
	if fs.NArg() != 1 {
		logging.L().Err("inspect requires <replay>")
		return 2
	}

	in, err := os.Open(fs.Arg(0))
	if err != nil {
		logging.L().Err("open replay", logging.Error(err))
		return 1
	}
	defer in.Close()

	decoded, err := container.New().Read(in)
	if err != nil {
		logging.L().Err("read container", logging.Error(err))
		return 1
	}

	counts := map[packet.Type]int{}
	r := bytes.NewReader(decoded.Payload)
	for {
		p, err := packet.ReadPacket(r)
		if err != nil {
			logging.L().Err("read packet", logging.Error(err))
			return 1
		}
		if p == nil {
			break
		}
		counts[p.Type]++
	}

	fmt.Printf("json_blocks: %d\n", len(decoded.JSONBlocks))
	fmt.Printf("inner_magic: % x\n", decoded.InnerMagic)
	fmt.Printf("payload_bytes: %d\n", len(decoded.Payload))
	for t, n := range counts {
		fmt.Printf("  %s: %d\n", t.String(), n)
	}
	return 0
}

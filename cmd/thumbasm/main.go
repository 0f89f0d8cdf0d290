// Command thumbasm is the CLI front end (C9): a thin dispatcher over the
// thumbasm library and its internal/tools, matching the teacher's main.go
// pattern of holding no assembly logic of its own.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/thumbasm/thumbasm"
	"github.com/thumbasm/thumbasm/apiserver"
	"github.com/thumbasm/thumbasm/config"
	"github.com/thumbasm/thumbasm/internal/engine"
	"github.com/thumbasm/thumbasm/internal/listing"
	"github.com/thumbasm/thumbasm/internal/tools"
)

// Version information, can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "-help", "--help", "help":
		printHelp()
	case "-version", "--version", "version":
		printVersion()
	case "assemble":
		cmdAssemble(os.Args[2:])
	case "fmt":
		cmdFmt(os.Args[2:])
	case "lint":
		cmdLint(os.Args[2:])
	case "xref":
		cmdXref(os.Args[2:])
	case "tui":
		cmdTUI(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("thumbasm %s\n", Version)
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if Date != "unknown" {
		fmt.Printf("Built: %s\n", Date)
	}
}

func printHelp() {
	fmt.Print(`thumbasm: a two-pass ARM Thumb/Thumb-2 assembler

Usage:
  thumbasm assemble <file.s> [-format hex|bin|listing] [-symbols] [-config path.toml]
  thumbasm fmt <file.s>
  thumbasm lint <file.s>
  thumbasm xref <file.s>
  thumbasm tui <file.s>
  thumbasm serve [-addr host:port] [-config path.toml]
  thumbasm -version
  thumbasm -help
`)
}

func readFile(path string) []string {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a user-supplied CLI argument by design
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", path)
		os.Exit(1)
	}
	return strings.Split(string(data), "\n")
}

func requireFile(args []string, usage string) string {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
	return args[0]
}

// cmdAssemble implements `thumbasm assemble`.
func cmdAssemble(args []string) {
	var (
		format      = "hex"
		dumpSymbols bool
		configPath  string
		positionals []string
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-format":
			i++
			if i < len(args) {
				format = args[i]
			}
		case "-symbols":
			dumpSymbols = true
		case "-config":
			i++
			if i < len(args) {
				configPath = args[i]
			}
		default:
			positionals = append(positionals, args[i])
		}
	}
	file := requireFile(positionals, "Usage: thumbasm assemble <file.s> [-format hex|bin|listing] [-symbols] [-config path.toml]")

	cfg := loadConfig(configPath)
	lines := readFile(file)

	if cfg.Assemble.TreatLintAsErr {
		if issues := tools.Lint(strings.Join(lines, "\n"), nil); len(issues) > 0 {
			for _, issue := range issues {
				fmt.Fprintln(os.Stderr, issue.String())
			}
			os.Exit(1)
		}
	}

	if dumpSymbols {
		for _, sym := range tools.Generate(strings.Join(lines, "\n")) {
			if sym.Definition != nil {
				fmt.Printf("%-20s line %d (%d references)\n", sym.Name, sym.Definition.Line, len(sym.References))
			}
		}
		return
	}

	switch format {
	case "listing":
		printListing(lines, file)
	case "bin":
		halfwords, err := thumbasm.AssembleFile(lines, file)
		exitOnAssembleErr(err)
		for _, w := range halfwords {
			fmt.Printf("%016b\n", w)
		}
	default: // hex
		halfwords, err := thumbasm.AssembleFile(lines, file)
		exitOnAssembleErr(err)
		for _, w := range halfwords {
			fmt.Printf("%04X\n", w)
		}
	}
}

func printListing(lines []string, file string) {
	_, entries, err := engine.AssembleWithListing(lines, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	byLine := make(map[int][]uint16, len(entries))
	for _, e := range entries {
		byLine[e.Line] = e.Opcodes
	}
	for i, raw := range lines {
		lineNo := i + 1
		if words, ok := byLine[lineNo]; ok {
			hexWords := make([]string, len(words))
			for j, w := range words {
				hexWords[j] = fmt.Sprintf("%04X", w)
			}
			fmt.Printf("%4d  %-14s  %s\n", lineNo, strings.Join(hexWords, " "), raw)
		} else {
			fmt.Printf("%4d  %-14s  %s\n", lineNo, "", raw)
		}
	}
}

func exitOnAssembleErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cmdFmt implements `thumbasm fmt`.
func cmdFmt(args []string) {
	file := requireFile(args, "Usage: thumbasm fmt <file.s>")
	lines := readFile(file)
	fmt.Print(tools.Format(strings.Join(lines, "\n"), tools.DefaultFormatOptions()))
	fmt.Println()
}

// cmdLint implements `thumbasm lint`.
func cmdLint(args []string) {
	file := requireFile(args, "Usage: thumbasm lint <file.s>")
	lines := readFile(file)
	issues := tools.Lint(strings.Join(lines, "\n"), nil)
	for _, issue := range issues {
		fmt.Println(issue.String())
	}
	if len(issues) == 0 {
		fmt.Println("no issues found")
	}
}

// cmdXref implements `thumbasm xref`.
func cmdXref(args []string) {
	file := requireFile(args, "Usage: thumbasm xref <file.s>")
	lines := readFile(file)
	for _, sym := range tools.Generate(strings.Join(lines, "\n")) {
		fmt.Printf("%s:\n", sym.Name)
		if sym.Definition != nil {
			fmt.Printf("  defined at line %d\n", sym.Definition.Line)
		}
		for _, ref := range sym.References {
			fmt.Printf("  %s at line %d\n", ref.Type, ref.Line)
		}
	}
}

// cmdTUI implements `thumbasm tui`.
func cmdTUI(args []string) {
	file := requireFile(args, "Usage: thumbasm tui <file.s>")
	lines := readFile(file)
	l := listing.Build(strings.Join(lines, "\n"))
	view := listing.NewView(l)
	if err := view.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cmdServe implements `thumbasm serve`.
func cmdServe(args []string) {
	var addr, configPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-addr":
			i++
			if i < len(args) {
				addr = args[i]
			}
		case "-config":
			i++
			if i < len(args) {
				configPath = args[i]
			}
		}
	}

	cfg := loadConfig(configPath)
	bindAddr := cfg.Server.BindAddress
	if addr != "" {
		bindAddr = addr
	}

	server := apiserver.NewServer(bindAddr)
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) *config.Config {
	if path != "" {
		cfg, err := config.LoadFrom(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

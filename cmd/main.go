// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// gradescan extracts student score records from photographed or scanned
// grade sheets and links them to rows of a destination table snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"gradescan/internal/config"
	"gradescan/internal/help"
	"gradescan/internal/observability"
	"gradescan/internal/paths"
	"gradescan/internal/pipeline"
	"gradescan/internal/recognition"
	"gradescan/internal/report"
	"gradescan/internal/version"
)

// Exit codes: 0 when extraction produced a usable report, 1 for recoverable
// failures (empty or invalid result), 2 for fatal errors (service
// unreachable, unusable input).
const (
	exitOK          = 0
	exitRecoverable = 1
	exitFatal       = 2
)

type cliFlags struct {
	inputFile     string
	snapshotFile  string
	payloadFile   string
	configFile    string
	outputFormat  string
	outputFile    string
	documentType  string
	languageHints string
	endpoint      string
	expectedCount int
	critical      bool
	verbose       bool
	debug         bool
	noColor       bool
	showVersion   bool
	showHelp      bool
}

func parseFlags() *cliFlags {
	flags := &cliFlags{}
	flag.StringVar(&flags.inputFile, "file", "", "Path to the input image or PDF")
	flag.StringVar(&flags.snapshotFile, "snapshot", "", "Path to a destination-table snapshot (JSON) to link records against")
	flag.StringVar(&flags.payloadFile, "payload", "", "Path to a saved recognition payload (JSON); skips the recognition service")
	flag.StringVar(&flags.configFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&flags.outputFormat, "format", "", "Output format: text, json (default: text)")
	flag.StringVar(&flags.outputFile, "output", "", "Path to output file (if not specified, output to stdout)")
	flag.StringVar(&flags.documentType, "doc-type", "", "Document type hint: printed_table, scanned_table, handwritten_table, mixed, freeform")
	flag.StringVar(&flags.languageHints, "languages", "", "Comma-separated recognition language hints (default: ar,fr)")
	flag.StringVar(&flags.endpoint, "endpoint", "", "Recognition service endpoint (overrides config)")
	flag.IntVar(&flags.expectedCount, "expected-count", 0, "Expected number of records, when known")
	flag.BoolVar(&flags.critical, "critical", false, "Raise confidence thresholds for high-stakes documents")
	flag.BoolVar(&flags.verbose, "verbose", false, "Display detailed information for each record")
	flag.BoolVar(&flags.debug, "debug", false, "Enable debug logging of pipeline stages")
	flag.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version information")
	flag.BoolVar(&flags.showHelp, "help", false, "Show help (use '-help topics' to list help topics)")
	flag.Parse()

	// A bare positional argument is accepted as the input file.
	if !flags.showHelp && flags.inputFile == "" && flag.NArg() > 0 {
		flags.inputFile = flag.Arg(0)
	}
	return flags
}

func main() {
	os.Exit(run())
}

func run() int {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Println(version.Info())
		return exitOK
	}
	if flags.showHelp {
		helpSystem := help.NewSystem(flags.noColor || !isTerminal(os.Stdout))
		switch topic := flag.Arg(0); topic {
		case "":
			helpSystem.ShowGeneralHelp()
		case "topics":
			helpSystem.ShowTopicsHelp()
		default:
			if !helpSystem.ShowTopicHelp(topic) {
				return exitFatal
			}
		}
		return exitOK
	}
	if flags.inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified (use -file or a positional argument)")
		flag.Usage()
		return exitFatal
	}
	for _, p := range []string{flags.inputFile, flags.snapshotFile, flags.outputFile} {
		if err := paths.ValidatePath(p); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitFatal
		}
	}
	resolved, err := paths.ResolvePath(flags.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot resolve input path: %v\n", err)
		return exitFatal
	}
	flags.inputFile = resolved

	cfg := loadConfig(flags)
	applyFlagOverrides(cfg, flags)

	formatName := cfg.Defaults.Format
	if formatName == "" {
		formatName = "text"
	}
	registry := report.NewRegistry()
	if err := registry.ValidateFormat(formatName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFatal
	}
	formatter, _ := registry.Get(formatName)

	observer := buildObserver(cfg)
	recognizer, err := buildRecognizer(cfg, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFatal
	}

	p, err := pipeline.New(pipeline.Options{
		Config:           cfg,
		Observer:         observer,
		Recognizer:       recognizer,
		DocumentType:     flags.documentType,
		ExpectedCount:    flags.expectedCount,
		CriticalAccuracy: flags.critical,
		LanguageHints:    splitHints(cfg.Defaults.LanguageHints),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFatal
	}

	ctx := context.Background()
	if cfg.Recognition.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Recognition.TimeoutSeconds+30)*time.Second)
		defer cancel()
	}

	rep, err := p.Run(ctx, flags.inputFile, flags.snapshotFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", pipeline.UserMessage(err))
		if flags.debug {
			fmt.Fprintf(os.Stderr, "Detail: %v\n", err)
		}
		if pipeline.IsFatal(err) {
			return exitFatal
		}
		return exitRecoverable
	}

	output, err := formatter.Format(rep, report.Options{
		Verbose: cfg.Defaults.Verbose,
		NoColor: cfg.Defaults.NoColor || !terminalOutput(flags),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to format output: %v\n", err)
		return exitFatal
	}

	if flags.outputFile != "" {
		if err := os.WriteFile(flags.outputFile, []byte(output+"\n"), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write output file: %v\n", err)
			return exitFatal
		}
	} else {
		fmt.Println(output)
	}

	if !rep.Valid {
		return exitRecoverable
	}
	return exitOK
}

func loadConfig(flags *cliFlags) *config.Config {
	path := flags.configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config %s: %v (using defaults)\n", path, err)
		return config.DefaultConfig()
	}
	return cfg
}

func applyFlagOverrides(cfg *config.Config, flags *cliFlags) {
	if flags.outputFormat != "" {
		cfg.Defaults.Format = flags.outputFormat
	}
	if flags.endpoint != "" {
		cfg.Recognition.Endpoint = flags.endpoint
	}
	if flags.languageHints != "" {
		cfg.Defaults.LanguageHints = flags.languageHints
	}
	if flags.verbose {
		cfg.Defaults.Verbose = true
	}
	if flags.debug {
		cfg.Defaults.Debug = true
	}
	if flags.noColor {
		cfg.Defaults.NoColor = true
	}
}

func buildObserver(cfg *config.Config) *observability.StandardObserver {
	level := observability.ObservabilityOff
	if cfg.Defaults.Debug {
		level = observability.ObservabilityDebug
	}
	return observability.NewStandardObserver(level, os.Stderr)
}

// buildRecognizer prefers a saved payload when one is given; otherwise it
// requires a configured endpoint and an API key in the environment. PDF
// inputs with a text layer never reach the recognizer, so a missing
// endpoint is not fatal for them.
func buildRecognizer(cfg *config.Config, flags *cliFlags) (recognition.Client, error) {
	if flags.payloadFile != "" {
		return recognition.NewFileSource(flags.payloadFile), nil
	}
	if strings.HasSuffix(strings.ToLower(flags.inputFile), ".pdf") && cfg.Recognition.Endpoint == "" {
		// The text layer usually serves born-digital PDFs without any remote
		// call; scanned PDFs still need an endpoint and fail with a
		// configuration error rather than a bogus payload-read error.
		return recognition.NewUnconfigured(), nil
	}
	if cfg.Recognition.Endpoint == "" {
		return nil, fmt.Errorf("no recognition endpoint configured (use -endpoint, a config file, or -payload)")
	}
	apiKey := os.Getenv(cfg.Recognition.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("recognition API key not set (export %s)", cfg.Recognition.APIKeyEnv)
	}
	timeout := time.Duration(cfg.Recognition.TimeoutSeconds) * time.Second
	return recognition.NewHTTPClient(cfg.Recognition.Endpoint, apiKey, timeout), nil
}

func splitHints(hints string) []string {
	var out []string
	for _, h := range strings.Split(hints, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

// terminalOutput reports whether colored output should be considered, i.e.
// stdout is a terminal and no output file was requested.
func terminalOutput(flags *cliFlags) bool {
	if flags.outputFile != "" {
		return false
	}
	return isTerminal(os.Stdout)
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// TopicInfo contains standardized information about a help topic
type TopicInfo struct {
	Name                string   // Name of the topic (e.g., "strategies")
	ShortDescription    string   // Short description for the topics list
	DetailedDescription string   // Detailed description of the topic
	Sections            []string // Bullet points shown under the description
	Examples            []string // Usage examples
}

// System manages help content for the application
type System struct {
	topics  map[string]TopicInfo
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	s := &System{
		topics:  make(map[string]TopicInfo),
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"example":  color.New(color.FgMagenta),
			"negative": color.New(color.FgRed),
		},
	}
	for _, topic := range builtinTopics() {
		s.RegisterTopic(topic)
	}
	return s
}

// RegisterTopic adds a help topic to the system
func (s *System) RegisterTopic(info TopicInfo) {
	s.topics[strings.ToLower(info.Name)] = info
}

// ShowGeneralHelp displays general help information
func (s *System) ShowGeneralHelp() {
	s.colors["title"].Println("Gradescan - Score Sheet Extraction Tool")
	fmt.Println("=======================================")
	fmt.Println()
	s.colors["header"].Println("USAGE:")
	fmt.Println("  gradescan -file <image-or-pdf> [options]")
	fmt.Println("  gradescan <image-or-pdf> [options]")
	fmt.Println()

	s.colors["header"].Println("OPTIONS:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  -file\t<path>\tPath to the input image or PDF (required)")
	fmt.Fprintln(w, "  -snapshot\t<path>\tDestination-table snapshot (JSON) to link records against")
	fmt.Fprintln(w, "  -payload\t<path>\tSaved recognition payload (JSON); skips the recognition service")
	fmt.Fprintln(w, "  -config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  -format\t<format>\tOutput format: text, json (default: text)")
	fmt.Fprintln(w, "  -output\t<path>\tPath to output file (default: stdout)")
	fmt.Fprintln(w, "  -doc-type\t<type>\tDocument type hint: printed_table, scanned_table, handwritten_table, mixed, freeform")
	fmt.Fprintln(w, "  -languages\t<hints>\tComma-separated recognition language hints (default: ar,fr)")
	fmt.Fprintln(w, "  -endpoint\t<url>\tRecognition service endpoint (overrides config)")
	fmt.Fprintln(w, "  -expected-count\t<n>\tExpected number of records, when known")
	fmt.Fprintln(w, "  -critical\t\tRaise confidence thresholds for high-stakes documents")
	fmt.Fprintln(w, "  -verbose\t\tDisplay detailed information for each record")
	fmt.Fprintln(w, "  -debug\t\tEnable debug logging of pipeline stages")
	fmt.Fprintln(w, "  -no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  -version\t\tShow version information")
	fmt.Fprintln(w, "  -help\t\tShow this help message")
	fmt.Fprintln(w, "  -help topics\t\tList all help topics")
	fmt.Fprintln(w, "  -help <topic>\t\tShow detailed help for a topic")
	w.Flush()

	fmt.Println()
	s.colors["header"].Println("EXAMPLES:")
	s.colors["example"].Println("  gradescan -file sheet.jpg -snapshot class.json")
	s.colors["example"].Println("  gradescan -file sheet.pdf -format json -output result.json")
	s.colors["example"].Println("  gradescan -payload saved.json -doc-type handwritten_table -critical")

	fmt.Println()
	s.colors["header"].Println("CONFIGURATION:")
	fmt.Println("  Project config: gradescan.yaml or .gradescan.yaml (in current directory)")
	fmt.Println("  User config: ~/.gradescan/config.yaml (or $XDG_CONFIG_HOME/gradescan/config.yaml)")
	fmt.Println("  Environment: GRADESCAN_CONFIG_DIR - Override config directory")
}

// ShowTopicsHelp displays the list of available help topics
func (s *System) ShowTopicsHelp() {
	s.colors["title"].Println("Gradescan Help Topics")
	fmt.Println("=====================")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	s.colors["header"].Fprintln(w, "  TOPIC\tDESCRIPTION")
	s.colors["header"].Fprintln(w, "  -----\t-----------")

	names := make([]string, 0, len(s.topics))
	for name := range s.topics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := s.topics[name]
		fmt.Fprintf(w, "  ")
		s.colors["emphasis"].Fprintf(w, "%s", info.Name)
		fmt.Fprintf(w, "\t%s\n", info.ShortDescription)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("For detailed information about a topic, use:")
	s.colors["example"].Println("  gradescan -help <topic>")
}

// ShowTopicHelp displays detailed help for a specific topic. It returns false
// when the topic is unknown.
func (s *System) ShowTopicHelp(topic string) bool {
	info, exists := s.topics[strings.ToLower(topic)]
	if !exists {
		s.colors["negative"].Printf("Error: help topic '%s' not found.\n", topic)
		fmt.Println("Use 'gradescan -help topics' to see a list of available topics.")
		return false
	}

	s.colors["title"].Printf("%s\n", strings.ToUpper(info.Name[:1])+info.Name[1:])
	fmt.Println(strings.Repeat("=", len(info.Name)))
	fmt.Println()
	fmt.Println(info.DetailedDescription)
	fmt.Println()

	for _, section := range info.Sections {
		fmt.Print("  - ")
		s.colors["item"].Println(section)
	}
	if len(info.Sections) > 0 {
		fmt.Println()
	}

	if len(info.Examples) > 0 {
		s.colors["header"].Println("EXAMPLES:")
		for _, example := range info.Examples {
			fmt.Print("  ")
			s.colors["example"].Println(example)
		}
	}

	return true
}

func builtinTopics() []TopicInfo {
	return []TopicInfo{
		{
			Name:                "strategies",
			ShortDescription:    "How records are extracted from the recognized text",
			DetailedDescription: "Three extraction strategies compete on every document and the highest-confidence valid result wins.",
			Sections: []string{
				"table: follows the reconstructed column grid; preferred for printed and scanned tables",
				"line: pairs names and values that share a text line; used when the grid is unreliable",
				"aggressive: pairs name runs with number runs across lines; used only when the others find nothing",
			},
			Examples: []string{
				"gradescan -file sheet.jpg -doc-type handwritten_table",
			},
		},
		{
			Name:                "formats",
			ShortDescription:    "Output formats for extraction reports",
			DetailedDescription: "Reports can be rendered as a colored text table or as machine-readable JSON.",
			Sections: []string{
				"text: human-readable table with per-record scores and link assignments (default)",
				"json: stable machine-readable report for downstream tooling",
			},
			Examples: []string{
				"gradescan -file sheet.jpg -format json -output result.json",
			},
		},
		{
			Name:                "linking",
			ShortDescription:    "Matching extracted names to destination table rows",
			DetailedDescription: "With -snapshot, each extracted record is matched to a row of the destination table by student name. Matching tolerates diacritics, swapped name order, dropped particles and small spelling differences.",
			Sections: []string{
				"exact: normalized names are identical",
				"token: same name tokens in any order, ignoring particles",
				"fuzzy: small edit distance between names",
				"row-scan: target name found inside a row's concatenated cells",
			},
			Examples: []string{
				"gradescan -file sheet.jpg -snapshot class.json",
			},
		},
		{
			Name:                "exit-codes",
			ShortDescription:    "Process exit codes and their meaning",
			DetailedDescription: "The exit code distinguishes usable results from recoverable and fatal failures so scripts can branch on it.",
			Sections: []string{
				"0: extraction produced a valid report",
				"1: recoverable failure (no records found, or result below confidence thresholds)",
				"2: fatal failure (recognition service unreachable, unusable input, bad configuration)",
			},
		},
	}
}

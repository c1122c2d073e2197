// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package report renders pipeline outcomes for humans and for machines.
package report

import (
	"fmt"
	"strings"

	"gradescan/internal/pipeline"
)

// Options defines configuration options for formatters
type Options struct {
	Verbose bool // Whether to display per-record detail
	NoColor bool // Whether to disable colored output
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the report according to the formatter's output format
	Format(report *pipeline.Report, options Options) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a registry pre-loaded with the built-in formatters.
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[string]Formatter)}
	r.Register(NewJSONFormatter())
	r.Register(NewTextFormatter())
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	return names
}

// ValidateFormat returns an error naming the available formats when the
// requested one is unknown.
func (r *Registry) ValidateFormat(name string) error {
	if _, ok := r.Get(name); !ok {
		return fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(r.List(), ", "))
	}
	return nil
}

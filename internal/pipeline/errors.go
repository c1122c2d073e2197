// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"

	"gradescan/internal/docinput"
	"gradescan/internal/extraction"
	"gradescan/internal/layout"
	"gradescan/internal/recognition"
)

// Error kinds surfaced by the pipeline. Structural failures are recovered
// internally by falling back to less structured strategies; confidence
// failures travel as data on the Report; service unavailability, unusable
// input and zero-records-after-all-strategies abort the invocation.
var (
	ErrServiceUnavailable = recognition.ErrServiceUnavailable
	ErrUnusableInput      = docinput.ErrUnusableInput
	ErrNoStructure        = layout.ErrNoStructure
	ErrNoRecords          = extraction.ErrNoRecords
)

// userMessages maps fatal error kinds to human-readable, localization-ready
// messages distinct from the error kind itself.
var userMessages = []struct {
	kind    error
	message string
}{
	{ErrServiceUnavailable, "The text-recognition service could not be reached. Check the network connection and service credentials, then try again."},
	{ErrUnusableInput, "The input file could not be used. Check that the path exists and points to a supported image, PDF or snapshot file."},
	{ErrNoRecords, "No usable records could be read from this document. Retake the photo with better lighting and framing, or enter the values manually."},
	{ErrNoStructure, "No table structure was found in this document."},
}

// UserMessage returns the human-readable message for a fatal error, or a
// generic fallback for unexpected failures.
func UserMessage(err error) string {
	for _, entry := range userMessages {
		if errors.Is(err, entry.kind) {
			return entry.message
		}
	}
	return "Processing failed unexpectedly. See the error details for diagnosis."
}

// IsFatal reports whether the error aborts the invocation (as opposed to a
// recoverable empty result). Unreachable services and unusable input files
// exit with the fatal code; an empty or invalid extraction does not.
func IsFatal(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrUnusableInput)
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"encoding/json"
	"io"
	"time"
)

// StandardObserver implements observability for all pipeline components.
type StandardObserver struct {
	level  ObservabilityLevel
	writer io.Writer
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	return &StandardObserver{
		level:  level,
		writer: writer,
	}
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		duration := time.Since(start)

		data := StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			FilePath:   filePath,
			DurationMs: duration.Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		}

		o.LogOperation(data)
	}
}

// LogOperation logs operation data. Debug level writes the full record;
// Metrics level keeps the timing and outcome but drops per-request detail.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o.level == ObservabilityOff || o.writer == nil {
		return
	}

	data.RequestID = "req-" + time.Now().Format("20060102-150405")

	if o.level == ObservabilityMetrics {
		data.FilePath = ""
		data.Metadata = nil
		data.Error = ""
	}
	json.NewEncoder(o.writer).Encode(data)
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component   string                 `json:"component"`
	Operation   string                 `json:"operation"`
	RequestID   string                 `json:"request_id"`
	FilePath    string                 `json:"file_path,omitempty"`
	DurationMs  int64                  `json:"duration_ms,omitempty"`
	Success     bool                   `json:"success"`
	Error       string                 `json:"error,omitempty"`
	RecordCount int                    `json:"record_count,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

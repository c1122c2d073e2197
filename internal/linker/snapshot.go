// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package linker matches extracted person records to rows of a destination
// table snapshot by fuzzy name comparison.
package linker

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Snapshot is a read-only capture of the destination table's used range,
// taken once per linking session and never mutated by the linker.
type Snapshot struct {
	Values    [][]interface{} `json:"values"`
	RowOffset int             `json:"row_offset"`
	ColOffset int             `json:"col_offset"`
}

// LoadSnapshot reads a destination-table snapshot from a JSON file.
func LoadSnapshot(path string) (*Snapshot, error) {
	if strings.Contains(path, "..") {
		return nil, fmt.Errorf("path traversal not allowed in snapshot path")
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

// CellString renders a snapshot cell as text. Numbers keep a compact
// representation; nil cells are empty.
func CellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package docinput

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.JPG")
	if err := os.WriteFile(path, []byte("not really a jpeg"), 0600); err != nil {
		t.Fatal(err)
	}

	doc, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if doc.Kind != KindImage {
		t.Errorf("kind = %v, want KindImage", doc.Kind)
	}
}

func TestResolveRejectsUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("text"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := Resolve(path)
	if err == nil {
		t.Fatal("unsupported extension must be rejected")
	}
	if !errors.Is(err, ErrUnusableInput) {
		t.Errorf("error must carry ErrUnusableInput, got %v", err)
	}
}

func TestResolveMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("missing file must be rejected")
	}
	if !errors.Is(err, ErrUnusableInput) {
		t.Errorf("error must carry ErrUnusableInput, got %v", err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	_, err := Resolve("../outside.png")
	if err == nil {
		t.Fatal("path traversal must be rejected")
	}
	if !errors.Is(err, ErrUnusableInput) {
		t.Errorf("error must carry ErrUnusableInput, got %v", err)
	}
}

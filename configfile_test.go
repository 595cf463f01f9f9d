// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package loco

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loco.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("setup: write config: %v", err)
	}
	return path
}

func TestLoadConfigAppliesOnlyPresentFields(t *testing.T) {
	path := writeTempConfig(t, "gravity: -20\njumpHeight: 2.5\n")
	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	c := configDefaults
	for _, opt := range opts {
		opt(&c)
	}
	if c.gravity != -20 {
		t.Errorf("expected gravity -20, got %v", c.gravity)
	}
	if c.jumpHeight != 2.5 {
		t.Errorf("expected jumpHeight 2.5, got %v", c.jumpHeight)
	}
	if c.maxDropDistance != configDefaults.maxDropDistance {
		t.Errorf("expected maxDropDistance untouched, got %v", c.maxDropDistance)
	}
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoadConfigCapsuleSizePartialOverride(t *testing.T) {
	path := writeTempConfig(t, "capsuleRadius: 0.4\n")
	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	c := configDefaults
	for _, opt := range opts {
		opt(&c)
	}
	if c.capsuleRadius != 0.4 {
		t.Errorf("expected capsuleRadius 0.4, got %v", c.capsuleRadius)
	}
	if c.capsuleHalfHeight != configDefaults.capsuleHalfHeight {
		t.Errorf("expected capsuleHalfHeight to keep its default, got %v", c.capsuleHalfHeight)
	}
}

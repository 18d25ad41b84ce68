//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// featureTests matches the godog suites, which drive features/*.feature.
const featureTests = "Features$"

// Test groups the test targets.
type Test mg.Namespace

// All runs every test with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Unit runs every test except the feature suites.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-skip", featureTests, "./...")
}

// Features runs only the feature suites.
func (Test) Features() error {
	return sh.RunV(binGo, "test", "-run", featureTests, "-v", "./...")
}

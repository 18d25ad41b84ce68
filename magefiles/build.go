//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the tracker project using Mage.
//
// Usage:
//
//	mage build          Compile the tracker binary to bin/
//	mage test:all       Run every test, including the feature suites
//	mage test:unit      Run tests without the godog feature suites
//	mage test:features  Run only the godog feature suites
//	mage lint           Run golangci-lint
//	mage dev            Build and serve the local development backend
//	mage clean          Remove build artifacts
//	mage install        Install tracker to GOPATH/bin
//	mage stats          Print Go LOC per package as JSON
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo       = "go"
	binaryName  = "tracker"
	binaryDir   = "bin"
	cmdDir      = "./cmd/tracker"
	versionVar  = "github.com/mesh-intelligence/tracker/internal/cli.Version"
	envVersion  = "TRACKER_VERSION"
	defaultAddr = "127.0.0.1:8080"
)

// ldflags stamps the version from $TRACKER_VERSION, or from git describe
// when that is unset.
func ldflags() string {
	v := os.Getenv(envVersion)
	if v == "" {
		out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
		if err != nil {
			return ""
		}
		v = strings.TrimPrefix(out, "v")
	}
	return "-X " + versionVar + "=" + v
}

// Build compiles the tracker binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Dev builds the binary and runs the development backend in memory with a
// seeded admin (admin@example.com, password from $TRACKER_ADMIN_PASSWORD or
// "admin").
func Dev() error {
	mg.Deps(Build)
	env := map[string]string{"TRACKER_ADMIN_PASSWORD": os.Getenv("TRACKER_ADMIN_PASSWORD")}
	if env["TRACKER_ADMIN_PASSWORD"] == "" {
		env["TRACKER_ADMIN_PASSWORD"] = "admin"
	}
	return sh.RunWithV(env, filepath.Join(binaryDir, binaryName), "serve",
		"--memory", "--addr", defaultAddr, "--log-level", "info",
		"--admin-email", "admin@example.com", "--admin-name", "Admin")
}

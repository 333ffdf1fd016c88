// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main holds the mage targets of the treegrid module.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo     = "go"
	binaryDir = "bin"
)

// binaries maps output names to their main packages.
var binaries = map[string]string{
	"treegrid":        "./cmd/treegrid",
	"treegrid-lambda": "./cmd/treegrid-lambda",
}

// ldflags stamps the version from TREEGRID_VERSION or git describe.
func ldflags() string {
	v := os.Getenv("TREEGRID_VERSION")
	if v == "" {
		out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
		if err != nil {
			out = "dev"
		}
		v = strings.TrimSpace(out)
	}
	return "-X main.version=" + v
}

// Build compiles the treegrid binaries to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	flags := ldflags()
	for name, pkg := range binaries {
		if err := sh.RunV(binGo, "build", "-ldflags", flags, "-o", filepath.Join(binaryDir, name), pkg); err != nil {
			return err
		}
	}
	return nil
}

// Lambda cross-compiles the Lambda handler as bin/lambda/bootstrap for the
// provided.al2023 runtime.
func Lambda() error {
	out := filepath.Join(binaryDir, "lambda", "bootstrap")
	env := map[string]string{"GOOS": "linux", "GOARCH": "arm64", "CGO_ENABLED": "0"}
	return sh.RunWithV(env, binGo, "build", "-tags", "lambda.norpc", "-ldflags", ldflags(), "-o", out, binaries["treegrid-lambda"])
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the treegrid binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", "treegrid"), filepath.Join(binaryDir, "treegrid"))
}

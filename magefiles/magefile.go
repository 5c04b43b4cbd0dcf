//go:build mage

// Package main contains Mage build targets for the wayfinding services.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binDir = "bin"

// binaries maps output names to their main packages.
var binaries = map[string]string{
	"gateway":     "./cmd/gateway",
	"converter":   "./cmd/converter",
	"patients":    "./cmd/patients",
	"dxf2geojson": "./cmd/dxf2geojson",
}

// dataDirs lists the working directories the services expect.
var dataDirs = []string{
	"data/maps",
	"data/db",
	"plans",
}

// Init creates the data directory structure.
func Init() error {
	for _, dir := range dataDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Data directories initialized.")
	return nil
}

// Build compiles all service binaries into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	for name, pkg := range binaries {
		out := filepath.Join(binDir, name)
		ldflags := "-X main.version=" + version
		if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, pkg); err != nil {
			return fmt.Errorf("go build %s: %w", pkg, err)
		}
		fmt.Printf("Built %s\n", out)
	}
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Maps converts every floor of the manifest (MANIFEST, default floors.yaml).
func Maps() error {
	mg.Deps(Init, Build)

	manifest := os.Getenv("MANIFEST")
	if manifest == "" {
		manifest = "floors.yaml"
	}
	return sh.RunV(filepath.Join(binDir, "dxf2geojson"), "batch", "--manifest", manifest)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

//go:build mage

// Package main provides build targets for the ossuary project using Mage.
//
// Usage:
//
//	mage build    Compile the ossuary binary to bin/
//	mage test     Run all tests
//	mage race     Run all tests with the race detector
//	mage lint     Run go vet and golangci-lint
//	mage clean    Remove build artifacts
//	mage install  Install ossuary to GOPATH/bin
//	mage stats    Print Go lines of code
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "ossuary"
	binaryDir  = "bin"
	cmdDir     = "./cmd/ossuary"
	versionVar = "github.com/mesh-intelligence/ossuary/internal/cli.Version"
)

// ldflags stamps the version from OSSUARY_VERSION, or the latest git tag.
func ldflags() string {
	version := os.Getenv("OSSUARY_VERSION")
	if version == "" {
		tag, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
		if err != nil {
			return ""
		}
		version = strings.TrimPrefix(tag, "v")
	}
	return fmt.Sprintf("-X %s=%s", versionVar, version)
}

// Build compiles the ossuary binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if flags := ldflags(); flags != "" {
		args = append(args, "-ldflags", flags)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs all tests with the race detector. The locking strategies of
// pkg/store are only meaningful under it.
func Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV(binGo, "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
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

// Stats prints Go lines of code for production and test files.
func Stats() error {
	var prodLines, testLines int

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			switch path {
			case "vendor", ".git", binaryDir, "_examples", "magefiles":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		count, countErr := countLines(path)
		if countErr != nil {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") {
			testLines += count
		} else {
			prodLines += count
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Lines of code (Go, total):      %d\n", prodLines+testLines)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

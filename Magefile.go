//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace
type Test mg.Namespace

var archTargets = map[string]map[string]string{
	"darwin_amd64": {
		"CGO_ENABLED": "0",
		"GO111MODULE": "on",
		"GOARCH":      "amd64",
		"GOOS":        "darwin",
	},
	"darwin_arm64": {
		"CGO_ENABLED": "0",
		"GO111MODULE": "on",
		"GOARCH":      "arm64",
		"GOOS":        "darwin",
	},
	"linux_amd64": {
		"CGO_ENABLED": "0",
		"GO111MODULE": "on",
		"GOARCH":      "amd64",
		"GOOS":        "linux",
	},
}

// Default target to run when none is specified
var Default = Build.Cmds

func buildCommand(command string, arch string) error {
	env, ok := archTargets[arch]
	if !ok {
		return fmt.Errorf("unknown arch %s", arch)
	}
	log.Printf("Building %s/%s\n", arch, command)
	outDir := fmt.Sprintf("./bin/%s/%s", arch, command)
	cmdDir := fmt.Sprintf("./pkg/cmd/%s", command)
	return sh.RunWith(env, "go", "build", "-o", outDir, cmdDir)
}

func apkResolverCmd() error {
	return buildCommand("apkresolver", runtime.GOOS+"_"+runtime.GOARCH)
}

// Builds apkresolver for the current architecture
func (Build) Cmds(ctx context.Context) {
	mg.Deps(
		Clean,
		apkResolverCmd,
	)
}

// Builds apkresolver for every release architecture
func (Build) All(ctx context.Context) error {
	mg.Deps(Clean)
	for arch := range archTargets {
		if err := buildCommand("apkresolver", arch); err != nil {
			return err
		}
	}
	return nil
}

// Run linter against codebase
func (Build) Lint() error {
	os.Setenv("GO111MODULE", "on")
	log.Printf("Linting...")
	return sh.RunV("golangci-lint", "--timeout", "3m", "run", "-v", "./pkg/...")
}

// Formats the source files
func (Build) Format() error {
	return sh.RunV("gofmt", "-w", "./pkg")
}

func testVerbose() error {
	os.Setenv("GO111MODULE", "on")
	os.Setenv("CGO_ENABLED", "0")
	return sh.RunV("go", "test", "-v", "./pkg/...")
}

func test() error {
	os.Setenv("GO111MODULE", "on")
	os.Setenv("CGO_ENABLED", "0")
	return sh.RunV("go", "test", "./pkg/...")
}

// Run tests in verbose mode
func (Test) Verbose() {
	mg.SerialDeps(
		Build.Cmds,
		testVerbose,
	)
}

// Run tests in normal mode
func (Test) Default() {
	mg.SerialDeps(
		Build.Cmds,
		test,
	)
}

// Removes built files
func Clean() {
	log.Printf("Cleaning all")
	for arch := range archTargets {
		os.RemoveAll("./bin/" + arch)
	}
}

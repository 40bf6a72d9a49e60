//go:build mage

// Package main contains Mage build targets for glooble developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"go.yaml.in/yaml/v3"
)

const (
	binDir     = "bin"
	binName    = "glooble"
	cmdPkg     = "./cmd/glooble"
	devCorpus  = "testdata/corpus.yaml"
	journalDir = ".glooble"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet over every package.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Lint and Test.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Dev builds the binary and serves the sample corpus on the default address.
func Dev() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve-dev", "--corpus", devCorpus)
}

// Clean removes build output and the local upload journal.
func Clean() error {
	for _, dir := range []string{binDir, journalDir} {
		if err := sh.Rm(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
		fmt.Println("  removed", dir)
	}
	return nil
}

// Stats prints non-blank Go lines per package under cmd/ and internal/,
// split into production and test code, plus the sample corpus size.
func Stats() error {
	counts, err := goLinesByPackage(".")
	if err != nil {
		return err
	}

	pkgs := make([]string, 0, len(counts))
	for pkg := range counts {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var total lineCount
	fmt.Printf("%-28s  %8s  %8s\n", "Package", "Prod", "Test")
	for _, pkg := range pkgs {
		c := counts[pkg]
		total.prod += c.prod
		total.test += c.test
		if strings.HasPrefix(pkg, "cmd/") || strings.HasPrefix(pkg, "internal/") {
			fmt.Printf("%-28s  %8d  %8d\n", pkg, c.prod, c.test)
		}
	}
	fmt.Printf("%-28s  %8d  %8d\n", "total (all packages)", total.prod, total.test)

	docs, err := corpusDocuments(devCorpus)
	if err != nil {
		return err
	}
	fmt.Printf("\nSample corpus %s: %d documents\n", devCorpus, docs)
	return nil
}

type lineCount struct {
	prod, test int
}

// goLinesByPackage counts non-blank lines of every .go file below root,
// keyed by the file's directory relative to root.
func goLinesByPackage(root string) (map[string]lineCount, error) {
	counts := make(map[string]lineCount)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}

		pkg, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		c := counts[filepath.ToSlash(pkg)]
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		counts[filepath.ToSlash(pkg)] = c
		return nil
	})
	return counts, err
}

// corpusDocuments returns the number of entries in a serve-dev corpus file.
func corpusDocuments(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	var corpus struct {
		Documents []map[string]any `yaml:"documents"`
	}
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return len(corpus.Documents), nil
}

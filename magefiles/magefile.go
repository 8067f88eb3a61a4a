//go:build mage

// Package main contains Mage build targets for resume-sync developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipelines expect.
var projectDirs = []string{
	"sections",
	"output",
	".resume-sync",
	".secrets",
}

// Init creates the working directories and a starter config file.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := sh.Copy(configFile, exampleConfig); err != nil {
			return fmt.Errorf("creating %s: %w", configFile, err)
		}
		fmt.Printf("   %s (from %s)\n", configFile, exampleConfig)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir        = "bin"
	binName       = "resume-sync"
	cmdPkg        = "./cmd/resume-sync"
	configFile    = "resume-sync.yaml"
	exampleConfig = "resume-sync.example.yaml"
)

// binPath is the CLI binary produced by Build.
var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/, stamping the version from git
// when available.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", binPath, version)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Stats prints project metrics: Go production/test LOC, documentation word
// count, and the size of the generated LaTeX fragments.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	docWords, err := countWords(".", ".md")
	if err != nil {
		return err
	}
	texLines, err := countLines("sections", ".tex")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	fmt.Printf("Lines (LaTeX fragments):         %d\n", texLines)
	return nil
}

// countGoLines counts non-blank lines in Go files, either tests only or
// production files only. Directories starting with "_" or "." are skipped.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := walkFiles(root, ".go", func(path string, data []byte) {
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return
		}
		total += nonBlankLines(data)
	})
	return total, err
}

func countLines(root, ext string) (int, error) {
	total := 0
	err := walkFiles(root, ext, func(_ string, data []byte) {
		total += nonBlankLines(data)
	})
	return total, err
}

func countWords(root, ext string) (int, error) {
	total := 0
	err := walkFiles(root, ext, func(_ string, data []byte) {
		total += len(bytes.Fields(data))
	})
	return total, err
}

// walkFiles calls fn with the contents of every file under root with the
// given extension. A missing root counts as empty.
func walkFiles(root, ext string, fn func(path string, data []byte)) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		fn(path, data)
		return nil
	})
}

func nonBlankLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n
}

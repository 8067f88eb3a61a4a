//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Sections fetches the published sheets and writes the LaTeX fragments.
func Sections() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "build")
}

// Preview prints the fragments without writing them.
func Preview() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "build", "--dry-run")
}

// Compile regenerates the fragments and compiles the PDF in a TeX container.
func Compile() error {
	mg.SerialDeps(Sections)
	return sh.RunV(binPath, "compile")
}

// Publish compiles the resume and publishes the PDF.
func Publish() error {
	mg.SerialDeps(Compile)
	return sh.RunV(binPath, "publish")
}

// History lists the most recent runs.
func History() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "history")
}

//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test with the race detector.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

// Runs the tests of the rasterisation packages only.
func (Test) Renderer() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withDir("engine/renderer"), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

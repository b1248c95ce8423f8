//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds the testbed binary.
func (Build) Testbed() error {
	if _, err := executeCmd("go", withArgs("mod", "download"), withStream()); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("build", "-o", "bin/softraster", "."), withStream())
	return err
}

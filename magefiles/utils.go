//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
)

type runConfig struct {
	args   []string
	env    []string
	dir    string
	stream bool
}

type runOption func(*runConfig)

func withArgs(args ...string) runOption {
	return func(c *runConfig) { c.args = args }
}

func withDir(dir string) runOption {
	return func(c *runConfig) { c.dir = dir }
}

// withEnv appends KEY=VALUE pairs to the inherited environment.
func withEnv(kv ...string) runOption {
	return func(c *runConfig) { c.env = append(c.env, kv...) }
}

func withStream() runOption {
	return func(c *runConfig) { c.stream = true }
}

func executeCmd(command string, options ...runOption) (string, error) {
	cfg := &runConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	fmt.Printf("> %s %s\n", command, strings.Join(cfg.args, " "))
	cmd := exec.Command(command, cfg.args...)
	cmd.Dir = cfg.dir
	if len(cfg.env) > 0 {
		cmd.Env = append(os.Environ(), cfg.env...)
	}

	var out bytes.Buffer
	stream := cfg.stream || mg.Verbose()
	cmd.Stdout, cmd.Stderr = &out, &out
	if stream {
		cmd.Stdout = io.MultiWriter(&out, os.Stdout)
		cmd.Stderr = io.MultiWriter(&out, os.Stderr)
	}

	if err := cmd.Run(); err != nil {
		if !stream {
			fmt.Println(out.String())
		}
		return "", fmt.Errorf("%s failed: %w", command, err)
	}
	return out.String(), nil
}

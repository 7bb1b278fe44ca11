// Package integration provides shared test helpers for integration tests.
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// inkBin is the path of the binary built by TestMain.
var inkBin string

// buildErr records a failed build so every test reports it.
var buildErr error

// TestMain builds the ink binary once before running tests.
func TestMain(m *testing.M) {
	root, err := findProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}

	tmpDir, err := os.MkdirTemp("", "ink-test-*")
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}
	inkBin = filepath.Join(tmpDir, "ink")

	cmd := exec.Command("go", "build", "-o", inkBin, "./cmd/ink")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = fmt.Errorf("build ink: %w\n%s", err, output)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// findProjectRoot walks up from the working directory to the go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", dir)
		}
		dir = parent
	}
}

// testEnv is an isolated working directory plus a private user config dir
// whose scheduler commands are stub scripts recording their invocations.
type testEnv struct {
	Dir       string
	ConfigDir string
	DataDir   string

	// SubmitLog and CancelLog collect the arguments of each stub call.
	SubmitLog string
	CancelLog string
}

// newTestEnv builds an isolated environment with stub qsub/qdel scripts.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if buildErr != nil {
		t.Fatalf("binary not built: %v", buildErr)
	}

	dir := t.TempDir()
	configDir := t.TempDir()
	env := &testEnv{
		Dir:       dir,
		ConfigDir: configDir,
		DataDir:   filepath.Join(dir, ".ink"),
		SubmitLog: filepath.Join(dir, "submit.log"),
		CancelLog: filepath.Join(dir, "cancel.log"),
	}

	submit := filepath.Join(dir, "fake-qsub")
	writeScript(t, submit, fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %s\necho 98765.cluster\n", env.SubmitLog))
	cancel := filepath.Join(dir, "fake-qdel")
	writeScript(t, cancel, fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %s\n", env.CancelLog))

	inkConfigDir := filepath.Join(configDir, "ink")
	if err := os.MkdirAll(inkConfigDir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	userConfig := fmt.Sprintf("scheduler:\n  submit: %s\n  cancel: %s\n", submit, cancel)
	if err := os.WriteFile(filepath.Join(inkConfigDir, "config.yaml"), []byte(userConfig), 0o644); err != nil {
		t.Fatalf("write user config: %v", err)
	}
	return env
}

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

// WriteFile writes a file under the environment's working directory.
func (e *testEnv) WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// runResult carries the output of one ink invocation.
type runResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunInk runs the built binary in the environment and returns the result.
func (e *testEnv) RunInk(t *testing.T, args ...string) runResult {
	t.Helper()
	return e.RunInkInput(t, "", args...)
}

// RunInkInput runs ink with the given stdin.
func (e *testEnv) RunInkInput(t *testing.T, input string, args ...string) runResult {
	t.Helper()
	cmd := exec.Command(inkBin, args...)
	cmd.Dir = e.Dir
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+e.ConfigDir)
	cmd.Stdin = bytes.NewBufferString(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	result := runResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("run ink %v: %v", args, err)
	}
	return result
}

// MustRunInk runs ink and fails the test on a non-zero exit.
func (e *testEnv) MustRunInk(t *testing.T, args ...string) runResult {
	t.Helper()
	result := e.RunInk(t, args...)
	if result.ExitCode != 0 {
		t.Fatalf("ink %v exited %d\nstdout: %s\nstderr: %s", args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

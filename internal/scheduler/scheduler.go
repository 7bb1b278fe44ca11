// Package scheduler wraps the batch scheduler commands (qsub, qdel) and the
// per-task job-id bookkeeping that gives each task at most one active job.
package scheduler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// JobIDFile is the per-task file holding the id of the last submitted job.
const JobIDFile = ".jobid"

// execOutput runs a command in dir and returns its combined output. A
// package variable so tests can stub out the scheduler binaries.
var execOutput = func(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Scheduler submits and cancels batch jobs. The zero value uses qsub/qdel.
type Scheduler struct {
	SubmitCmd string
	CancelCmd string
}

func (s *Scheduler) submitCmd() string {
	if s.SubmitCmd == "" {
		return "qsub"
	}
	return s.SubmitCmd
}

func (s *Scheduler) cancelCmd() string {
	if s.CancelCmd == "" {
		return "qdel"
	}
	return s.CancelCmd
}

// Submit runs the submit command on script inside dir and returns the
// parsed job id.
func (s *Scheduler) Submit(dir, script string) (string, error) {
	out, err := execOutput(dir, s.submitCmd(), script)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w: %s", s.submitCmd(), script, err, strings.TrimSpace(string(out)))
	}
	id := ParseJobID(string(out))
	if id == "" {
		return "", fmt.Errorf("%s %s: no job id in output %q", s.submitCmd(), script, strings.TrimSpace(string(out)))
	}
	return id, nil
}

// Cancel runs the cancel command for a job id.
func (s *Scheduler) Cancel(dir, jobID string) error {
	out, err := execOutput(dir, s.cancelCmd(), jobID)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", s.cancelCmd(), jobID, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ParseJobID extracts the job id from scheduler submit output. PBS prints
// the bare id ("1234.head-node"); Slurm prints "Submitted batch job 49229449".
func ParseJobID(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 {
			continue
		}
		if len(fields) >= 4 && fields[0] == "Submitted" && fields[1] == "batch" && fields[2] == "job" {
			return fields[3]
		}
		if len(fields) == 1 {
			return fields[0]
		}
	}
	return ""
}

// ReadJobID returns the persisted job id for a task directory, or "" when
// none was recorded.
func ReadJobID(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, JobIDFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteJobID persists the job id for a task directory.
func WriteJobID(dir, jobID string) error {
	return os.WriteFile(filepath.Join(dir, JobIDFile), []byte(jobID+"\n"), 0o644)
}

// CancelStale reads the persisted job id and attempts to cancel it.
// Cancellation failures are reported but must not stop a resubmission; the
// returned error is only for bookkeeping problems reading the id file.
func (s *Scheduler) CancelStale(dir string, warn func(format string, args ...any)) error {
	id, err := ReadJobID(dir)
	if err != nil {
		return fmt.Errorf("read job id: %w", err)
	}
	if id == "" {
		return nil
	}
	if err := s.Cancel(dir, id); err != nil {
		warn("cancel previous job %s: %v", id, err)
	}
	return nil
}

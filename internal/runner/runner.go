// Package runner drives the per-task workflow: write the VASP inputs named
// by the task config, then hand the job to the batch scheduler.
package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sciforge/ink/internal/kpath"
	"github.com/sciforge/ink/internal/ledger"
	"github.com/sciforge/ink/internal/scheduler"
	"github.com/sciforge/ink/internal/vasp"
	"github.com/sciforge/ink/pkg/types"
)

// ErrAborted is returned when the user declines a submission prompt; the
// remaining tasks are skipped.
var ErrAborted = errors.New("remaining tasks aborted by user")

// linePointsPerSegment is the k-point sampling density of line-mode paths.
const linePointsPerSegment = 30

// batchScheduler is the slice of the scheduler the runner needs.
type batchScheduler interface {
	Submit(dir, script string) (string, error)
	CancelStale(dir string, warn func(format string, args ...any)) error
}

// runShell executes a shell command inside dir. A package variable so tests
// can avoid depending on vaspkit being installed.
var runShell = func(dir, command string, stdout, stderr io.Writer) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Runner processes tasks sequentially against one merged config.
type Runner struct {
	Config    *types.Config
	WorkDir   string
	Scheduler batchScheduler

	// Ledger records submissions when non-nil.
	Ledger *ledger.Ledger

	// AutoYes skips the submission confirmation prompt.
	AutoYes bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// stdin buffers Stdin across confirmation prompts. A fresh reader per
	// prompt would buffer and then discard the answers to later prompts.
	stdin *bufio.Reader
}

// TaskOrder resolves which tasks run and in what order. With no requested
// tasks, all config tasks run in document order. With fromLabel, execution
// starts at the first requested task and continues through the rest of the
// config order.
func (r *Runner) TaskOrder(requested []string, fromLabel bool) ([]string, error) {
	if len(requested) == 0 {
		return r.Config.TaskOrder, nil
	}
	if !fromLabel {
		return requested, nil
	}

	first := requested[0]
	for i, name := range r.Config.TaskOrder {
		if name == first {
			return r.Config.TaskOrder[i:], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", types.ErrTaskNotFound, first)
}

// Run processes the tasks in order. A declined prompt aborts the remaining
// tasks without being an error; any other failure stops the run.
func (r *Runner) Run(tasks []string) error {
	for _, name := range tasks {
		if err := r.ProcessTask(name); err != nil {
			if errors.Is(err, ErrAborted) {
				fmt.Fprintln(r.Stdout, "Aborted remaining tasks by user request.")
				break
			}
			return err
		}
	}
	fmt.Fprintln(r.Stdout, "\nAll requested tasks processed.")
	return nil
}

// ProcessTask writes the configured inputs for one task and submits its
// job. Tasks without a valid config section are reported and skipped.
func (r *Runner) ProcessTask(name string) error {
	spec, err := r.Config.Task(name)
	if err != nil {
		fmt.Fprintf(r.Stdout, "[task %s] config not found or invalid, skip.\n", name)
		return nil
	}

	fmt.Fprintf(r.Stdout, "\nProcessing task: %s\n", name)

	taskDir := filepath.Join(r.WorkDir, name)
	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		return fmt.Errorf("[task %s] create task dir: %w", name, err)
	}

	var structure *vasp.Structure
	if spec.Poscar != "" {
		structure, err = r.writePoscar(name, taskDir, spec.Poscar)
		if err != nil {
			return err
		}
	}

	if spec.Chgcar != "" {
		if err := r.copyInto(name, taskDir, spec.Chgcar, "CHGCAR"); err != nil {
			return err
		}
	}

	if spec.Potcar != "" {
		if err := r.runCommand(name, taskDir, spec.Potcar); err != nil {
			return err
		}
	}

	if spec.Kpoints != nil {
		if err := r.writeKpoints(name, taskDir, spec.Kpoints, structure); err != nil {
			return err
		}
	}

	if spec.Incar != nil {
		if err := r.writeIncar(name, taskDir, spec.Incar); err != nil {
			return err
		}
	}

	for _, extra := range spec.Cp {
		if err := r.copyInto(name, taskDir, extra, filepath.Base(extra)); err != nil {
			return err
		}
	}

	scriptPath := filepath.Join(taskDir, "jobscript.sh")
	if spec.Jobscript != "" {
		if err := r.writeJobscript(name, taskDir, spec.Jobscript); err != nil {
			return err
		}
	}

	return r.submit(name, taskDir, scriptPath)
}

// resolve interprets a config path relative to the work directory.
func (r *Runner) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.WorkDir, path)
}

// writePoscar parses the source structure and writes a canonical POSCAR.
// The parsed structure is reused for mesh generation.
func (r *Runner) writePoscar(task, taskDir, source string) (*vasp.Structure, error) {
	src := r.resolve(source)
	structure, err := vasp.ReadStructure(src)
	if err != nil {
		return nil, fmt.Errorf("[task %s] poscar source %q: %w", task, source, err)
	}
	if err := vasp.WriteStructureFile(structure, filepath.Join(taskDir, "POSCAR")); err != nil {
		return nil, fmt.Errorf("[task %s] write POSCAR: %w", task, err)
	}
	return structure, nil
}

// copyInto copies a work-dir-relative source file into the task directory.
func (r *Runner) copyInto(task, taskDir, source, target string) error {
	src := r.resolve(source)
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("[task %s] source %q: %w", task, source, err)
	}
	if err := os.WriteFile(filepath.Join(taskDir, target), data, 0o644); err != nil {
		return fmt.Errorf("[task %s] write %s: %w", task, target, err)
	}
	return nil
}

// runCommand runs a configured shell command in the task directory, with
// the leading "vaspkit" token replaced by the configured executable.
func (r *Runner) runCommand(task, taskDir, raw string) error {
	command := strings.TrimSpace(raw)
	if command == "" {
		return nil
	}
	if rest, ok := strings.CutPrefix(command, "vaspkit"); ok {
		command = r.Config.Global.VaspkitCommand() + rest
	}

	fmt.Fprintf(r.Stdout, "[task %s] running: %s\n", task, command)
	if err := runShell(taskDir, command, r.Stdout, r.Stderr); err != nil {
		return fmt.Errorf("[task %s] command %q: %w", task, command, err)
	}
	return nil
}

// writeKpoints handles the three KPOINTS forms: numeric resolution, the
// literal "line", or an existing file.
func (r *Runner) writeKpoints(task, taskDir string, value any, structure *vasp.Structure) error {
	target := filepath.Join(taskDir, "KPOINTS")

	switch v := value.(type) {
	case int:
		return r.writeResolutionMesh(task, target, float64(v), structure)
	case float64:
		return r.writeResolutionMesh(task, target, v, structure)
	case string:
		if v == "line" {
			if structure == nil {
				return fmt.Errorf("[task %s] kpoints \"line\" requires a poscar entry: %w", task, types.ErrMissingValue)
			}
			kp := vasp.LinePath(kpath.PathFor(structure), linePointsPerSegment)
			if err := kp.WriteFile(target); err != nil {
				return fmt.Errorf("[task %s] write KPOINTS: %w", task, err)
			}
			return nil
		}
		return r.copyInto(task, taskDir, v, "KPOINTS")
	default:
		return fmt.Errorf("[task %s] kpoints must be a number, \"line\", or a file path; got %T", task, value)
	}
}

func (r *Runner) writeResolutionMesh(task, target string, kpr float64, structure *vasp.Structure) error {
	if structure == nil {
		return fmt.Errorf("[task %s] numeric kpoints requires a poscar entry: %w", task, types.ErrMissingValue)
	}
	kp, err := vasp.MeshFromResolution(structure, kpr)
	if err != nil {
		return fmt.Errorf("[task %s] %w", task, err)
	}
	if err := kp.WriteFile(target); err != nil {
		return fmt.Errorf("[task %s] write KPOINTS: %w", task, err)
	}
	return nil
}

// writeIncar handles INCAR as either a tag mapping or an existing file.
func (r *Runner) writeIncar(task, taskDir string, value any) error {
	target := filepath.Join(taskDir, "INCAR")

	switch v := value.(type) {
	case map[string]any:
		if err := vasp.IncarFromMap(v).WriteFile(target); err != nil {
			return fmt.Errorf("[task %s] write INCAR: %w", task, err)
		}
		return nil
	case string:
		inc, err := vasp.ReadIncar(r.resolve(v))
		if err != nil {
			return fmt.Errorf("[task %s] incar source %q: %w", task, v, err)
		}
		if err := inc.WriteFile(target); err != nil {
			return fmt.Errorf("[task %s] write INCAR: %w", task, err)
		}
		return nil
	default:
		return fmt.Errorf("[task %s] incar must be a mapping or a file path; got %T", task, value)
	}
}

// writeJobscript writes jobscript.sh from a file path or inline content and
// marks it executable.
func (r *Runner) writeJobscript(task, taskDir, value string) error {
	content := value
	if src := r.resolve(value); !strings.ContainsAny(value, "\n") {
		if data, err := os.ReadFile(src); err == nil {
			content = string(data)
		}
	}

	target := filepath.Join(taskDir, "jobscript.sh")
	if err := os.WriteFile(target, []byte(content), 0o755); err != nil {
		return fmt.Errorf("[task %s] write jobscript: %w", task, err)
	}
	return nil
}

// submit confirms, cancels any recorded previous job, submits the new one,
// and persists the job id.
func (r *Runner) submit(task, taskDir, scriptPath string) error {
	if _, err := os.Stat(scriptPath); err != nil {
		fmt.Fprintf(r.Stdout, "[task %s] jobscript not found at %s, skip submission.\n", task, scriptPath)
		return nil
	}

	if !r.AutoYes {
		ok, err := r.confirm(fmt.Sprintf("[task %s] Submit job with qsub %s?", task, filepath.Base(scriptPath)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(r.Stdout, "[task %s] submission skipped by user.\n", task)
			return ErrAborted
		}
	}

	warn := func(format string, args ...any) {
		fmt.Fprintf(r.Stderr, "[task %s] "+format+"\n", append([]any{task}, args...)...)
	}
	if err := r.Scheduler.CancelStale(taskDir, warn); err != nil {
		return fmt.Errorf("[task %s] %w", task, err)
	}

	fmt.Fprintf(r.Stdout, "[task %s] submitting job: qsub %s\n", task, filepath.Base(scriptPath))
	jobID, err := r.Scheduler.Submit(taskDir, filepath.Base(scriptPath))
	if err != nil {
		return fmt.Errorf("[task %s] %w", task, err)
	}

	if err := scheduler.WriteJobID(taskDir, jobID); err != nil {
		return fmt.Errorf("[task %s] persist job id: %w", task, err)
	}
	if r.Ledger != nil {
		if _, err := r.Ledger.Record(task, jobID, filepath.Base(scriptPath)); err != nil {
			return fmt.Errorf("[task %s] %w", task, err)
		}
	}

	fmt.Fprintf(r.Stdout, "[task %s] submitted job %s\n", task, jobID)
	return nil
}

// confirm asks a yes/no question on Stdin. Empty input means no.
func (r *Runner) confirm(prompt string) (bool, error) {
	fmt.Fprintf(r.Stdout, "%s [y/N] ", prompt)

	if r.stdin == nil {
		r.stdin = bufio.NewReader(r.Stdin)
	}
	line, err := r.stdin.ReadString('\n')
	if err != nil && line == "" {
		// EOF without input counts as a decline.
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.Stdout)
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Package types defines the merged configuration model, per-task
// specifications, and standard errors shared by the ink commands.
package types

import "errors"

// Config is the merged task configuration: a global section plus named task
// sections. TaskOrder preserves the document order of the task sections,
// which is the order tasks run in when none are named on the command line.
type Config struct {
	Global    GlobalConfig        `json:"global" yaml:"global"`
	Tasks     map[string]TaskSpec `json:"tasks" yaml:"tasks"`
	TaskOrder []string            `json:"task_order" yaml:"task_order"`
}

// GlobalConfig holds settings shared by every task.
type GlobalConfig struct {
	// WorkDir is the root under which each task gets its own directory.
	// Empty means the current working directory.
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// Vaspkit is the executable name substituted for the leading "vaspkit"
	// token of potcar/kpoints commands. Empty means "vaspkit".
	Vaspkit string `json:"vaspkit" yaml:"vaspkit"`
}

// Configuration errors.
var (
	ErrTaskNotFound = errors.New("task not found in config")
	ErrMissingValue = errors.New("missing required value")
	ErrBadTaskSpec  = errors.New("task section is not a mapping")
)

// VaspkitCommand returns the configured vaspkit executable, defaulting to
// "vaspkit".
func (g GlobalConfig) VaspkitCommand() string {
	if g.Vaspkit == "" {
		return "vaspkit"
	}
	return g.Vaspkit
}

// Task returns the named task spec. A name that appears in the document
// order but has no parsed section was not a mapping and yields
// ErrBadTaskSpec; a name the config never mentions yields ErrTaskNotFound.
func (c *Config) Task(name string) (TaskSpec, error) {
	spec, ok := c.Tasks[name]
	if ok {
		return spec, nil
	}
	for _, ordered := range c.TaskOrder {
		if ordered == name {
			return TaskSpec{}, ErrBadTaskSpec
		}
	}
	return TaskSpec{}, ErrTaskNotFound
}

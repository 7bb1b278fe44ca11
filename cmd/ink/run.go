// Run command: generate calculation inputs and submit jobs.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sciforge/ink/internal/config"
	"github.com/sciforge/ink/internal/paths"
	"github.com/sciforge/ink/internal/runner"
)

var (
	runYes       bool
	runFromLabel bool
)

var runCmd = &cobra.Command{
	Use:   "run [TASKS...]",
	Short: "Generate calculation inputs and submit jobs",
	Long: `Run processes tasks from the merged config. With no arguments every
configured task runs in document order; with task names only those run,
in the order given. With --from-label execution starts at the first named
task and continues through the rest of the config order.

Each task writes its configured inputs (POSCAR, CHGCAR, KPOINTS, INCAR,
POTCAR via the configured command, extra files, jobscript) into
<work_dir>/<task>/ and submits jobscript.sh to the batch scheduler. Any
previously recorded job for the task is cancelled best-effort first.

Example:
  ink run
  ink run relax static
  ink run -l static
  ink run -y`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "submit without asking for confirmation")
	runCmd.Flags().BoolVarP(&runFromLabel, "from-label", "l", false, "start from the first named task and continue through the config order")
}

func runRun(cmd *cobra.Command, args []string) error {
	userCfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	cfg, workDir, err := loadTaskConfig()
	if err != nil {
		return err
	}

	// Persist the merged view next to the task directories so a later
	// invocation (or the user) sees exactly what ran.
	if err := config.WriteMerged(cfg, filepath.Join(workDir, paths.DefaultConfigName)); err != nil {
		return fmt.Errorf("write merged config: %w", err)
	}

	led, err := openLedger(workDir, userCfg)
	if err != nil {
		return err
	}
	defer led.Close()

	r := &runner.Runner{
		Config:    cfg,
		WorkDir:   workDir,
		Scheduler: newScheduler(userCfg),
		Ledger:    led,
		AutoYes:   runYes,
		Stdin:     os.Stdin,
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
	}

	tasks, err := r.TaskOrder(args, runFromLabel)
	if err != nil {
		return err
	}
	return r.Run(tasks)
}

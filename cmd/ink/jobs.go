// Jobs commands: inspect and cancel recorded submissions.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sciforge/ink/internal/ledger"
	"github.com/sciforge/ink/internal/scheduler"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and cancel recorded job submissions",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded job submissions",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

var jobsCancelCmd = &cobra.Command{
	Use:   "cancel <task>",
	Short: "Cancel the most recent job for a task",
	Long: `Cancel runs the scheduler cancel command for the most recent job
recorded for the task and marks the submission cancelled in the ledger.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobsCancel,
}

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsCancelCmd)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	userCfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	led, err := openLedger(taskWorkDir(), userCfg)
	if err != nil {
		return err
	}
	defer led.Close()

	subs, err := led.List()
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}

	if flagJSON {
		output, err := json.MarshalIndent(subs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal submissions: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tJOB\tSTATE\tSUBMITTED")
	for _, s := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Task, s.JobID, s.State, s.SubmittedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runJobsCancel(cmd *cobra.Command, args []string) error {
	task := args[0]

	userCfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	workDir := taskWorkDir()
	led, err := openLedger(workDir, userCfg)
	if err != nil {
		return err
	}
	defer led.Close()

	sub, err := led.Latest(task)
	if err != nil {
		return err
	}
	if sub.State == ledger.StateCancelled {
		fmt.Fprintf(cmd.OutOrStdout(), "job %s for task %s is already cancelled\n", sub.JobID, task)
		return nil
	}

	taskDir := filepath.Join(workDir, task)
	if err := newScheduler(userCfg).Cancel(taskDir, sub.JobID); err != nil {
		return fmt.Errorf("cancel job %s: %w", sub.JobID, err)
	}
	if err := led.MarkCancelled(sub.ID); err != nil {
		return err
	}
	// The jobid file no longer points at an active job.
	os.Remove(filepath.Join(taskDir, scheduler.JobIDFile))

	fmt.Fprintf(cmd.OutOrStdout(), "cancelled job %s for task %s\n", sub.JobID, task)
	return nil
}

// taskWorkDir resolves the work directory from the task config when one is
// present. The jobs commands still work without a config, falling back to
// the current directory for ledger resolution.
func taskWorkDir() string {
	_, workDir, err := loadTaskConfig()
	if err != nil {
		return ""
	}
	return workDir
}

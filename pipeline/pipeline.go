package pipeline

import (
	"fmt"
	"os"

	"olx-scraper/utils"
)

// Task is one pipeline stage. Its output artifact doubles as its completion
// marker: a task whose artifact exists is done and is never re-run.
type Task interface {
	Name() string
	Output() string
	// Requires returns the single predecessor task, or nil for the root.
	Requires() Task
	Run() error
}

// Runner materializes a task's artifact, resolving missing ancestors first.
type Runner struct {
	logger *utils.Logger
}

// NewRunner creates a Runner with the given logger.
func NewRunner(logger *utils.Logger) *Runner {
	return &Runner{logger: logger}
}

// Build runs the dependency chain ending at task. A task whose artifact
// already exists is skipped; otherwise its predecessor is built first, then
// the task itself. The chain halts on the first failure.
func (r *Runner) Build(task Task) error {
	if artifactExists(task.Output()) {
		r.logger.Info("[pipeline] %s: artifact %s exists — skipping", task.Name(), task.Output())
		return nil
	}

	if dep := task.Requires(); dep != nil {
		if err := r.Build(dep); err != nil {
			return err
		}
	}

	r.logger.Info("[pipeline] %s: running", task.Name())
	if err := task.Run(); err != nil {
		return fmt.Errorf("pipeline: task %s: %w", task.Name(), err)
	}

	if !artifactExists(task.Output()) {
		// The load task's audit artifact is observational: its absence after
		// a committed insert does not undo the work, so this is a warning.
		r.logger.Warn("[pipeline] %s: finished without producing %s", task.Name(), task.Output())
		return nil
	}

	r.logger.Info("[pipeline] %s: done — %s", task.Name(), task.Output())
	return nil
}

func artifactExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package reconcile

import (
	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/executor"
	"github.com/ksyq12/rproxy/internal/logger"
)

// Reloader signals nginx to pick up changed configuration
type Reloader interface {
	Reload() error
}

// CommandReloader runs the configured reload command once. A failure is
// returned as is; nothing is retried.
type CommandReloader struct {
	exec    executor.CommandExecutor
	command []string
}

// NewReloader creates a CommandReloader
func NewReloader(exec executor.CommandExecutor, command []string) *CommandReloader {
	return &CommandReloader{exec: exec, command: command}
}

// Reload implements Reloader
func (r *CommandReloader) Reload() error {
	if len(r.command) == 0 {
		return vherrors.Wrap(vherrors.ErrCodeConfig, "reload command not configured", nil)
	}
	if err := executor.Run(r.exec, r.command[0], r.command[1:]...); err != nil {
		return err
	}
	logger.Debug("Reloaded nginx with %s", executor.CommandLine(r.command[0], r.command[1:]...))
	return nil
}

// MockReloader counts reloads
type MockReloader struct {
	ReloadFunc  func() error
	ReloadCalls int
}

// Reload implements Reloader
func (m *MockReloader) Reload() error {
	m.ReloadCalls++
	if m.ReloadFunc != nil {
		return m.ReloadFunc()
	}
	return nil
}

// Package executor is the external process boundary of rproxy.
//
// The reload command and the absolute-symlink routine shell out through a
// CommandExecutor so tests can substitute MockExecutor and assert on the
// exact commands that would have run.
package executor

import (
	"os/exec"
	"strings"

	vherrors "github.com/ksyq12/rproxy/internal/errors"
)

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command with the given name and arguments
	Execute(name string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct{}

// NewSystemExecutor creates a new SystemExecutor
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{}
}

// Execute runs a command and returns combined output
func (e *SystemExecutor) Execute(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and converts a failure into an EXTERNAL_COMMAND error
// carrying the command line and its output.
func Run(e CommandExecutor, name string, args ...string) error {
	output, err := e.Execute(name, args...)
	if err != nil {
		return vherrors.ExternalCommand(CommandLine(name, args...), output, err)
	}
	return nil
}

// CommandLine renders a command for logs and error messages
func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// shellMeta lists the characters escapeshellcmd-style sanitizers neutralize.
const shellMeta = "#&;`|*?~<>^()[]{}$\\\n\r\x00'\""

// SanitizePath rejects filesystem identities that contain shell
// metacharacters or whitespace. Every path handed to an external command, and
// every artifact path derived from a domain name, passes through here. A
// leading "*." label in a path element names a wildcard vhost and is allowed.
func SanitizePath(path string) (string, error) {
	if path == "" {
		return "", vherrors.ErrInvalidPath
	}
	checked := strings.ReplaceAll(path, "/*.", "/")
	if strings.HasPrefix(checked, "*.") {
		checked = checked[2:]
	}
	if strings.ContainsAny(checked, shellMeta) || strings.ContainsAny(checked, " \t") {
		return "", &vherrors.VHostError{
			Code:    vherrors.ErrCodeValidation,
			Message: "invalid path " + strings.ToValidUTF8(path, "?") + ": contains shell metacharacters",
		}
	}
	return path, nil
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	ExecuteFunc  func(name string, args ...string) ([]byte, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// String returns the command line of the call
func (c CommandCall) String() string {
	return CommandLine(c.Name, c.Args...)
}

// Execute calls the mock function
func (m *MockExecutor) Execute(name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return []byte(""), nil
}

// LookPath calls the mock function
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// CallsTo returns the recorded calls of the named command
func (m *MockExecutor) CallsTo(name string) []CommandCall {
	var calls []CommandCall
	for _, c := range m.Calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}
	return calls
}

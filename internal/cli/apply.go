package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/model"
)

var applyCmd = &cobra.Command{
	Use:   "apply <event-file>",
	Short: "Handle an event delivered as a YAML or JSON file",
	Long: `Handle a domain event carrying the old and new record, as delivered by
the hosting panel. Use - to read the event from stdin.

Example event:
  kind: update
  old: {domain_id: 1, domain: old.example.com, type: vhost, ...}
  new: {domain_id: 1, domain: example.com, type: vhost, ...}

Examples:
  rproxy apply event.yaml
  panel-hook | rproxy apply -`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ev, err := readEvent(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	return rt.handle(ctx, *ev)
}

// readEvent decodes an event file. JSON is read through the YAML decoder.
func readEvent(path string, stdin io.Reader) (*model.Event, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	var ev model.Event
	if err := yaml.Unmarshal(data, &ev); err != nil {
		return nil, vherrors.Wrap(vherrors.ErrCodeValidation, "failed to parse event", err)
	}
	if err := ev.Validate(); err != nil {
		return nil, vherrors.Wrap(vherrors.ErrCodeValidation, "invalid event", err)
	}
	return &ev, nil
}

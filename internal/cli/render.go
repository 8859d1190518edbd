package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/rproxy/internal/model"
	"github.com/ksyq12/rproxy/internal/output"
)

var renderCmd = &cobra.Command{
	Use:     "render <domain-id>",
	Aliases: []string{"show"},
	Short:   "Print the vhost generated for a domain record",
	Long: `Resolve and render the vhost of a domain record without touching the
filesystem. Alias and subdomain records render their parent vhost.

Examples:
  rproxy render 12
  rproxy render 12 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

// renderDetail represents the rendered vhost for JSON output
type renderDetail struct {
	Domain  string           `json:"domain"`
	File    string           `json:"file"`
	Spec    *model.VhostSpec `json:"spec"`
	Content string           `json:"content"`
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	rec, err := rt.loadRecord(ctx, args[0])
	if err != nil {
		return err
	}

	spec, content, err := rt.ctrl.Render(ctx, rec)
	if err != nil {
		return err
	}

	a, err := rt.reconciler.Paths().Artifact(spec.Domain, spec.Domain)
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(renderDetail{
			Domain:  spec.Domain,
			File:    a.FileNew,
			Spec:    spec,
			Content: content,
		})
	}

	output.Info("%s -> %s", describe(rec), a.FileNew)
	output.Print("%s", content)
	return nil
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksyq12/rproxy/internal/model"
	"github.com/ksyq12/rproxy/internal/output"
)

var forceClientDelete bool

var clientDeleteCmd = &cobra.Command{
	Use:   "client-delete <client-id>",
	Short: "Remove the vhosts of every top-level domain of a client",
	Long: `Deliver a client_delete event. Every top-level domain owned by the client
is deleted independently and nginx is reloaded once.

Examples:
  rproxy client-delete 7
  rproxy client-delete 7 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runClientDelete,
}

func init() {
	clientDeleteCmd.Flags().BoolVarP(&forceClientDelete, "force", "f", false, "Delete without confirmation")

	rootCmd.AddCommand(clientDeleteCmd)
}

func runClientDelete(cmd *cobra.Command, args []string) error {
	clientID, err := parseID("client", args[0])
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	// Confirm removal if not forced
	if !forceClientDelete && !dryRun {
		domains, err := rt.store.TopLevelDomainsByClient(ctx, clientID)
		if err != nil {
			return err
		}
		if len(domains) > 0 {
			names := make([]string, len(domains))
			for i := range domains {
				names[i] = domains[i].Domain
			}
			if !confirm("Remove %d vhosts of client %d (%s)?", len(domains), clientID, strings.Join(names, ", ")) {
				output.Info("Client delete cancelled")
				return nil
			}
		}
	}

	return rt.handle(ctx, model.Event{
		Kind: model.EventClientDelete,
		Old:  &model.DomainRecord{ClientID: clientID},
	})
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ksyq12/rproxy/internal/model"
)

var (
	oldDomain string
	sslAction string
)

var insertCmd = &cobra.Command{
	Use:   "insert <domain-id>",
	Short: "Generate the vhost of a new domain record",
	Long: `Deliver an insert event for a domain record read from the store.

Alias and subdomain records regenerate their parent vhost.

Examples:
  rproxy insert 12
  rproxy insert 12 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runEvent(model.EventInsert),
}

var updateCmd = &cobra.Command{
	Use:   "update <domain-id>",
	Short: "Regenerate the vhost of a changed domain record",
	Long: `Deliver an update event for a domain record read from the store.

Use --old-domain when the record was renamed so the artifacts under the old
name are removed.

Examples:
  rproxy update 12
  rproxy update 12 --old-domain old.example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runEvent(model.EventUpdate),
}

var deleteCmd = &cobra.Command{
	Use:     "delete <domain-id>",
	Aliases: []string{"rm"},
	Short:   "Remove the vhost of a deleted domain record",
	Long: `Deliver a delete event for a domain record read from the store.

Deleting an alias or subdomain regenerates its parent vhost from the current
store contents.

Examples:
  rproxy delete 12`,
	Args: cobra.ExactArgs(1),
	RunE: runEvent(model.EventDelete),
}

var sslCmd = &cobra.Command{
	Use:   "ssl <domain-id>",
	Short: "Rebuild or remove the nginx certificate of a domain",
	Long: `Deliver an ssl event. The nginx certificate is the certificate followed by
the CA bundle. --action del removes it; the source files are kept.

Examples:
  rproxy ssl 12
  rproxy ssl 12 --action del`,
	Args: cobra.ExactArgs(1),
	RunE: runEvent(model.EventSSL),
}

func init() {
	updateCmd.Flags().StringVar(&oldDomain, "old-domain", "", "Domain name before the update")
	sslCmd.Flags().StringVar(&sslAction, "action", "", "ssl_action of the event (del removes the certificate)")

	rootCmd.AddCommand(insertCmd, updateCmd, deleteCmd, sslCmd)
}

func runEvent(kind model.EventKind) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
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
		return rt.handle(ctx, buildEvent(kind, rec))
	}
}

// buildEvent derives the old and new record of an event from the stored record
func buildEvent(kind model.EventKind, rec *model.DomainRecord) model.Event {
	ev := model.Event{Kind: kind}
	switch kind {
	case model.EventInsert:
		ev.New = rec
	case model.EventUpdate:
		old := *rec
		if oldDomain != "" {
			old.Domain = oldDomain
		}
		ev.Old, ev.New = &old, rec
	case model.EventDelete:
		ev.Old = rec
	case model.EventSSL:
		if sslAction != "" {
			rec.SSLAction = sslAction
		}
		ev.New = rec
	}
	return ev
}

// describe returns a one-line summary of a record for prompts
func describe(rec *model.DomainRecord) string {
	return fmt.Sprintf("%s %s (id %d)", rec.Type, rec.Domain, rec.ID)
}

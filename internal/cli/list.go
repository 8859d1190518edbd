package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/ksyq12/rproxy/internal/model"
	"github.com/ksyq12/rproxy/internal/output"
	"github.com/ksyq12/rproxy/internal/reconcile"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List generated vhosts and their link state",
	Long: `List the vhosts found in sites-available and sites-enabled next to the
vhost and vhostsubdomain records of the store.

Status values:
  enabled   file present and linked
  disabled  file present, not linked
  broken    link without a file or with a dangling target
  missing   record has no file
  orphan    file without a record

Examples:
  rproxy list
  rproxy list --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// Status values of a listed vhost
const (
	statusEnabled  = "enabled"
	statusDisabled = "disabled"
	statusBroken   = "broken"
	statusMissing  = "missing"
	statusOrphan   = "orphan"
)

type vhostListItem struct {
	Domain   string `json:"domain"`
	DomainID int64  `json:"domain_id,omitempty"`
	Type     string `json:"type,omitempty"`
	Active   bool   `json:"active"`
	File     bool   `json:"file"`
	Link     bool   `json:"link"`
	Status   string `json:"status"`
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	entries, err := reconcile.Scan(rt.reconciler.Paths())
	if err != nil {
		return err
	}
	records, err := rt.store.Domains(ctx)
	if err != nil {
		return err
	}

	items := listItems(entries, records)

	if jsonOutput {
		return output.JSON(items)
	}
	if len(items) == 0 {
		output.Info("No virtual hosts found")
		return nil
	}

	// Build table
	headers := []string{"DOMAIN", "ID", "TYPE", "ACTIVE", "STATUS"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		id := "-"
		if item.DomainID != 0 {
			id = formatID(item.DomainID)
		}
		rows = append(rows, []string{
			item.Domain,
			id,
			item.Type,
			yesNo(item.Active),
			item.Status,
		})
	}
	output.Table(headers, rows)
	return nil
}

// listItems joins the on-disk entries with the records owning artifacts
func listItems(entries []reconcile.Entry, records []model.DomainRecord) []vhostListItem {
	byDomain := make(map[string]*vhostListItem)
	items := make([]*vhostListItem, 0, len(entries))

	for _, e := range entries {
		item := &vhostListItem{Domain: e.Domain, File: e.File, Link: e.Link, Status: statusOrphan}
		byDomain[e.Domain] = item
		items = append(items, item)
		if !e.Consistent() {
			item.Status = statusBroken
		}
	}

	for i := range records {
		rec := &records[i]
		if !rec.Type.HasArtifacts() {
			continue
		}
		item, ok := byDomain[rec.Domain]
		if !ok {
			item = &vhostListItem{Domain: rec.Domain}
			byDomain[rec.Domain] = item
			items = append(items, item)
		}
		item.DomainID = rec.ID
		item.Type = string(rec.Type)
		item.Active = bool(rec.Active)
		item.Status = recordStatus(item)
	}

	out := make([]vhostListItem, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Domain < out[j].Domain
	})
	return out
}

func recordStatus(item *vhostListItem) string {
	switch {
	case item.Status == statusBroken:
		return statusBroken
	case !item.File:
		return statusMissing
	case item.Link:
		return statusEnabled
	default:
		return statusDisabled
	}
}

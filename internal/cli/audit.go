package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/tuiporal/internal/audit"
	"github.com/atomicstack/tuiporal/internal/format/table"
	"github.com/spf13/cobra"
)

const defaultAuditLimit = 20

func newAuditCmd(resolve resolver) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent terminate, cancel and signal actions",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolve(nil)
			if err != nil {
				return err
			}
			if cfg.Audit.Disabled {
				return errors.New("audit log is disabled")
			}
			if limit <= 0 {
				return &usageError{err: fmt.Errorf("limit must be > 0 (got %d)", limit)}
			}
			store, err := audit.Open(cfg.Audit.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.RecentMutations(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recorded actions")
				return nil
			}
			rows := [][]string{{"TIME", "PROFILE", "NAMESPACE", "ACTION", "WORKFLOW", "DETAIL", "RESULT"}}
			for _, e := range entries {
				result := "ok"
				if e.Error != "" {
					result = "failed: " + e.Error
				}
				rows = append(rows, []string{
					e.Time.Local().Format("2006-01-02 15:04:05"),
					e.Profile,
					e.Namespace,
					e.Action,
					e.WorkflowID,
					e.Detail,
					result,
				})
			}
			for _, line := range table.Format(rows, nil) {
				fmt.Fprintln(out, strings.TrimRight(line, " "))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultAuditLimit, "number of entries to show")
	return cmd
}

package cli

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tuiporal/internal/config"
	"github.com/atomicstack/tuiporal/internal/format/table"
	"github.com/spf13/cobra"
)

type resolver func(args []string) (config.Config, error)

func newProfilesCmd(resolve resolver) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List connection profiles",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolve(nil)
			if err != nil {
				return err
			}
			f, err := config.LoadProfiles(cfg.Connection.ConfigPath)
			if err != nil {
				return err
			}
			active := f.ActiveName(cfg.Connection.Profile)
			rows := [][]string{{"", "NAME", "ADDRESS", "NAMESPACE", "TLS", "API KEY"}}
			for _, p := range f.Profiles {
				marker := ""
				if p.Name == active {
					marker = "*"
				}
				r := p.Redacted()
				key := r.APIKey
				if key == "" {
					key = "-"
				}
				rows = append(rows, []string{marker, r.Name, r.Address, r.Namespace, fmt.Sprint(r.TLSEnabled()), key})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Profiles from %s\n", cfg.Connection.ConfigPath)
			for _, line := range table.Format(rows, nil) {
				fmt.Fprintln(out, strings.TrimRight(line, " "))
			}
			return nil
		},
	}
}

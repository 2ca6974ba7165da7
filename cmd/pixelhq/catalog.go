package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/catalog"
)

var catalogYAML bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the tier table",
	Long:  "Show each tier's capacity, reporting limits, who it may delegate to or hire, and the skills it owns.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.New(cfg.Tiers.Capacities())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if catalogYAML {
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cat.Specs()); err != nil {
				return fmt.Errorf("encoding catalog: %w", err)
			}
			return enc.Close()
		}

		for _, spec := range cat.Specs() {
			skills := make([]string, len(spec.Skills))
			for i, s := range spec.Skills {
				skills[i] = string(s)
			}
			fmt.Fprintf(out, "%-10s capacity %-3d reports %-2d skills %s\n",
				spec.Label, spec.Capacity, spec.MaxReports, strings.Join(skills, " "))
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogYAML, "yaml", false, "print as YAML")
}

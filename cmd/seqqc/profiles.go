// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/seqqc/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available organism and experiment-type profiles",
	Long: `Profiles lists the threshold profiles bundled with seqqc. Profile
names accept fuzzy input on the analyze, batch, and pipeline commands
("Human" matches human, "RNA seq" matches rnaseq).`,
	RunE: runProfiles,
}

func init() {
	profilesCmd.Flags().Bool("detailed", false, "show GC content and assembly per organism")

	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	detailed, _ := cmd.Flags().GetBool("detailed")

	store := profile.NewStore(cfg.Analysis.ProfileDir)
	organisms, err := store.Organisms()
	if err != nil {
		return err
	}
	experiments, err := store.ExperimentTypes()
	if err != nil {
		return err
	}

	divider := strings.Repeat("=", 70)

	fmt.Printf("Organism profiles (%d):\n", len(organisms))
	fmt.Println(divider)
	for _, org := range organisms {
		if !detailed {
			fmt.Printf("  %s\n", org)
			continue
		}
		p, err := store.LoadOrganism(org)
		if err != nil {
			fmt.Printf("  %-15s - could not load profile\n", org)
			continue
		}
		fmt.Printf("  %-15s - %s\n", org, p.Name)
		fmt.Printf("    GC%%      : %.1f%% (range %.0f-%.0f%%)\n",
			p.GCContent.Mean, p.GCContent.Low(0), p.GCContent.High(100))
		if p.Assembly != "" {
			fmt.Printf("    Assembly : %s\n", p.Assembly)
		}
	}

	fmt.Printf("\nExperiment-type profiles (%d):\n", len(experiments))
	fmt.Println(divider)
	for _, exp := range experiments {
		if !detailed {
			fmt.Printf("  %s\n", exp)
			continue
		}
		p, err := store.LoadExperiment(exp)
		if err != nil {
			fmt.Printf("  %-15s - could not load profile\n", exp)
			continue
		}
		fmt.Printf("  %-15s - %s\n", exp, p.Name)
	}

	fmt.Println()
	fmt.Println("Usage: seqqc analyze parsed.json --organism <name> --experiment-type <name>")
	return nil
}

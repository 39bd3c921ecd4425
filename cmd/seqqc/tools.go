// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/seqqc/internal/toolcheck"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Check which QC tools are installed",
	Long: `Tools probes PATH for the external tools seqqc's fix suggestions
rely on (FastQC, fastp, Cutadapt, Trimmomatic, Picard, samtools,
BBDuk) and prints their status with install hints for missing ones.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		toolcheck.NewChecker().PrintStatus(os.Stdout, verbose)
	},
}

func init() {
	toolsCmd.Flags().Bool("verbose", false, "show versions and install hints")

	rootCmd.AddCommand(toolsCmd)
}

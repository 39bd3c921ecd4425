// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolcheck detects which bioinformatics tools are installed
// and suggests alternatives per remediation category. Detection goes
// through an executor seam so tests can fake tool presence.
package toolcheck

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/pdiddy/seqqc/pkg/types"
)

// versionTimeout bounds each tool's version probe; some Java wrappers
// take seconds to start.
const versionTimeout = 5 * time.Second

// Tool describes one known bioinformatics tool.
type Tool struct {
	Key          string
	Name         string
	Command      string
	VersionArgs  []string
	InstallConda string
	InstallPip   string
	Description  string
}

// Status is a Tool plus its detection outcome.
type Status struct {
	Tool
	Installed bool
	Version   string
}

// toolOrder fixes the enumeration order for listings.
var toolOrder = []string{"fastqc", "cutadapt", "trimmomatic", "fastp", "picard", "samtools", "bbduk"}

func knownTools() map[string]Tool {
	return map[string]Tool{
		"fastqc": {
			Key: "fastqc", Name: "FastQC", Command: "fastqc",
			VersionArgs:  []string{"--version"},
			InstallConda: "conda install -c bioconda fastqc",
			Description:  "Quality control tool for high throughput sequence data",
		},
		"cutadapt": {
			Key: "cutadapt", Name: "Cutadapt", Command: "cutadapt",
			VersionArgs:  []string{"--version"},
			InstallConda: "conda install -c bioconda cutadapt",
			InstallPip:   "pip install cutadapt",
			Description:  "Tool to remove adapters from high-throughput sequencing reads",
		},
		"trimmomatic": {
			Key: "trimmomatic", Name: "Trimmomatic", Command: "trimmomatic",
			VersionArgs:  []string{"-version"},
			InstallConda: "conda install -c bioconda trimmomatic",
			Description:  "Flexible read trimming tool for Illumina NGS data",
		},
		"fastp": {
			Key: "fastp", Name: "fastp", Command: "fastp",
			VersionArgs:  []string{"--version"},
			InstallConda: "conda install -c bioconda fastp",
			Description:  "Ultra-fast all-in-one FASTQ preprocessor",
		},
		"picard": {
			Key: "picard", Name: "Picard", Command: "picard",
			VersionArgs:  []string{"MarkDuplicates", "--version"},
			InstallConda: "conda install -c bioconda picard",
			Description:  "Java-based command-line utilities for manipulating HTS data",
		},
		"samtools": {
			Key: "samtools", Name: "Samtools", Command: "samtools",
			VersionArgs:  []string{"--version"},
			InstallConda: "conda install -c bioconda samtools",
			Description:  "Tools for manipulating alignments in SAM/BAM format",
		},
		"bbduk": {
			Key: "bbduk", Name: "BBDuk", Command: "bbduk.sh",
			VersionArgs:  []string{"-h"},
			InstallConda: "conda install -c bioconda bbmap",
			Description:  "Decontamination and quality filtering tool",
		},
	}
}

// categoryAlternatives maps a remediation category to its candidate
// tools, in preference order.
var categoryAlternatives = map[string][]string{
	"adapter_removal": {"cutadapt", "fastp", "trimmomatic", "bbduk"},
	"quality_trim":    {"fastp", "trimmomatic", "cutadapt"},
	"deduplication":   {"picard", "samtools"},
	"contamination":   {"bbduk", "fastqc"},
}

// executor abstracts command probing for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// osExecutor is the production executor backed by os/exec. Version
// probes merge stdout and stderr because tools disagree about where to
// print theirs.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Checker probes tool availability, caching each result for the
// checker's lifetime.
type Checker struct {
	tools map[string]Tool
	exec  executor
	cache map[string]Status
}

// NewChecker returns a checker probing the real PATH.
func NewChecker() *Checker {
	return newChecker(&osExecutor{})
}

func newChecker(e executor) *Checker {
	return &Checker{
		tools: knownTools(),
		exec:  e,
		cache: make(map[string]Status),
	}
}

// Check reports whether the tool is installed. Unknown keys are never
// installed.
func (c *Checker) Check(key string) bool {
	return c.Status(key).Installed
}

// Status probes (or recalls) the tool's detection outcome.
func (c *Checker) Status(key string) Status {
	if s, ok := c.cache[key]; ok {
		return s
	}

	tool, ok := c.tools[key]
	if !ok {
		s := Status{Tool: Tool{Key: key}}
		c.cache[key] = s
		return s
	}

	s := Status{Tool: tool}
	if _, err := c.exec.LookPath(tool.Command); err != nil {
		c.cache[key] = s
		return s
	}

	s.Installed = true
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()

	out, err := c.exec.Output(ctx, tool.Command, tool.VersionArgs...)
	switch {
	case strings.TrimSpace(out) != "":
		// First line, bounded; banners can be long.
		line := strings.SplitN(strings.TrimSpace(out), "\n", 2)[0]
		if len(line) > 100 {
			line = line[:100]
		}
		s.Version = line
	case err != nil:
		// On PATH but the probe failed; treat as installed anyway.
		s.Version = "installed (version check failed)"
	default:
		s.Version = "installed (version unknown)"
	}

	c.cache[key] = s
	return s
}

// CheckAll probes every known tool.
func (c *Checker) CheckAll() map[string]bool {
	out := make(map[string]bool, len(toolOrder))
	for _, key := range toolOrder {
		out[key] = c.Check(key)
	}
	return out
}

// Installed lists the installed tool keys in canonical order.
func (c *Checker) Installed() []string {
	var out []string
	for _, key := range toolOrder {
		if c.Check(key) {
			out = append(out, key)
		}
	}
	return out
}

// Missing lists the missing tool keys in canonical order.
func (c *Checker) Missing() []string {
	var out []string
	for _, key := range toolOrder {
		if !c.Check(key) {
			out = append(out, key)
		}
	}
	return out
}

// Availability returns the installed/missing split for embedding in
// fix results.
func (c *Checker) Availability() *types.ToolAvailability {
	return &types.ToolAvailability{
		Installed: c.Installed(),
		Missing:   c.Missing(),
	}
}

// Alternatives returns the installed tools able to serve the category,
// in preference order. An unknown category has no alternatives.
func (c *Checker) Alternatives(category string) []string {
	var out []string
	for _, key := range categoryAlternatives[category] {
		if c.Check(key) {
			out = append(out, key)
		}
	}
	return out
}

// PrintStatus writes a human-readable availability summary, with
// installation hints for anything missing.
func (c *Checker) PrintStatus(w io.Writer, verbose bool) {
	divider := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\nTool Availability Check\n%s\n", divider, divider)

	var installed, missing []Status
	for _, key := range toolOrder {
		s := c.Status(key)
		if s.Installed {
			installed = append(installed, s)
		} else {
			missing = append(missing, s)
		}
	}

	if len(installed) > 0 {
		fmt.Fprintf(w, "\nInstalled Tools:\n")
		for _, s := range installed {
			if verbose {
				fmt.Fprintf(w, "  + %-15s %s\n", s.Name, s.Version)
			} else {
				fmt.Fprintf(w, "  + %s\n", s.Name)
			}
		}
	}

	if len(missing) > 0 {
		fmt.Fprintf(w, "\nMissing Tools:\n")
		for _, s := range missing {
			fmt.Fprintf(w, "  - %-15s %s\n", s.Name, s.Description)
		}

		fmt.Fprintf(w, "\n%s\nInstallation Suggestions:\n%s\n", strings.Repeat("-", 70), strings.Repeat("-", 70))
		for _, s := range missing {
			fmt.Fprintf(w, "\n%s:\n", s.Name)
			if s.InstallConda != "" {
				fmt.Fprintf(w, "  Conda:  %s\n", s.InstallConda)
			}
			if s.InstallPip != "" {
				fmt.Fprintf(w, "  Pip:    %s\n", s.InstallPip)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\nSummary: %d installed, %d missing\n%s\n\n", divider, len(installed), len(missing), divider)
}

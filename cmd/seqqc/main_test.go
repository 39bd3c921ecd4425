// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/seqqc/pkg/types"
)

func TestInitConfigPopulatesStageDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		cfg = types.Config{}
	})

	content := `analysis:
  organism: human
  experiment_type: rnaseq
  expected_gc: 41.5
  profile_dir: /opt/seqqc/profiles
batch:
  output_dir: runs
  parallel: 8
  check_tools: false
workflow:
  output_dir: workflow_runs
  exec_timeout: 5m
  dry_run: true
report:
  format: summary
`
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "seqqc.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", dir)
	chdir(t, dir)

	initConfig()

	if cfg.Analysis.Organism != "human" || cfg.Analysis.ExperimentType != "rnaseq" {
		t.Errorf("analysis profiles = %q/%q", cfg.Analysis.Organism, cfg.Analysis.ExperimentType)
	}
	if cfg.Analysis.ExpectedGC != 41.5 {
		t.Errorf("expected GC = %v", cfg.Analysis.ExpectedGC)
	}
	if cfg.Analysis.ProfileDir != "/opt/seqqc/profiles" {
		t.Errorf("profile dir = %q", cfg.Analysis.ProfileDir)
	}
	if cfg.Batch.OutputDir != "runs" || cfg.Batch.Parallel != 8 || cfg.Batch.CheckTools {
		t.Errorf("batch config = %+v", cfg.Batch)
	}
	if cfg.Workflow.OutputDir != "workflow_runs" || cfg.Workflow.ExecTimeout != 5*time.Minute || !cfg.Workflow.DryRun {
		t.Errorf("workflow config = %+v", cfg.Workflow)
	}
	if cfg.Report.Format != "summary" {
		t.Errorf("report format = %q", cfg.Report.Format)
	}
}

func TestInitConfigWithoutFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		cfg = types.Config{}
	})

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	initConfig()

	if cfg != (types.Config{}) {
		t.Errorf("config = %+v, want zero value", cfg)
	}
}

// chdir changes into dir for the duration of the test, matching t.Chdir
// from newer Go releases (unavailable on this toolchain).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

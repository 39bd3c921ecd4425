package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/seqqc/pkg/types"
)

const cleanData = `>>Basic Statistics	pass
Filename	%NAME%.fastq.gz
Total Sequences	1000
Sequence length	150
>>END_MODULE
>>Per base sequence quality	pass
#Base	Mean	Median
1	36.0	36.0
2	36.0	36.0
3	36.0	36.0
>>END_MODULE
>>Per sequence GC content	pass
#GC Content	Count
50	100.0
>>END_MODULE
>>Sequence Duplication Levels	pass
#Total Deduplicated Percentage	95.0
1	95.0
2	5.0
>>END_MODULE
`

const dirtyData = `>>Basic Statistics	pass
Filename	%NAME%.fastq.gz
Total Sequences	1000
Sequence length	150
>>END_MODULE
>>Per base sequence quality	fail
#Base	Mean	Median
1	15.0	15.0
2	14.0	14.0
3	15.0	15.0
>>END_MODULE
>>Adapter Content	fail
#Position	Illumina Universal Adapter
1	1.0
100	30.0
>>END_MODULE
`

func writeSample(t *testing.T, root, name, data string) string {
	t.Helper()
	dir := filepath.Join(root, name+"_fastqc")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := strings.ReplaceAll(data, "%NAME%", name)
	if err := os.WriteFile(filepath.Join(dir, "fastqc_data.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRunProcessesAllSamples(t *testing.T) {
	root := t.TempDir()
	inputs := []string{
		writeSample(t, root, "good1", cleanData),
		writeSample(t, root, "good2", cleanData),
		writeSample(t, root, "bad1", dirtyData),
	}
	outDir := filepath.Join(root, "out")

	report, err := New(Options{OutputDir: outDir, Parallel: 2}).Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.TotalSamples != 3 || report.Successful != 3 || report.Failed != 0 {
		t.Errorf("counts = %d/%d/%d", report.TotalSamples, report.Successful, report.Failed)
	}
	if report.PassCount != 2 {
		t.Errorf("pass count = %d, want 2", report.PassCount)
	}
	if report.WarnCount+report.FailCount != 1 {
		t.Errorf("warn+fail = %d, want 1", report.WarnCount+report.FailCount)
	}

	// Results hold their input order regardless of worker scheduling.
	if report.SampleResults[0].SampleName != "good1" || report.SampleResults[2].SampleName != "bad1" {
		t.Errorf("result order = %v", report.SampleResults)
	}

	// Per-sample artifacts and the aggregate report are on disk.
	for _, name := range []string{"good1", "good2", "bad1"} {
		for _, suffix := range []string{"_parsed.json", "_analysis.json", "_fixes.json"} {
			path := filepath.Join(outDir, name, name+suffix)
			if _, err := os.Stat(path); err != nil {
				t.Errorf("missing artifact %s: %v", path, err)
			}
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "batch_report.json")); err != nil {
		t.Errorf("missing batch report: %v", err)
	}
}

func TestRunDirtySampleGetsFixes(t *testing.T) {
	root := t.TempDir()
	inputs := []string{writeSample(t, root, "dirty", dirtyData)}
	outDir := filepath.Join(root, "out")

	report, err := New(Options{OutputDir: outDir}).Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	r := report.SampleResults[0]
	if r.Status != StatusSuccess {
		t.Fatalf("status = %q (%s)", r.Status, r.Error)
	}
	if r.IssuesFound == 0 || r.FixesSuggested == 0 {
		t.Errorf("issues = %d, fixes = %d, want both > 0", r.IssuesFound, r.FixesSuggested)
	}

	data, err := os.ReadFile(r.FixesJSON)
	if err != nil {
		t.Fatal(err)
	}
	var fixes types.FixResult
	if err := json.Unmarshal(data, &fixes); err != nil {
		t.Fatal(err)
	}
	if len(fixes.Fixes) != r.FixesSuggested {
		t.Errorf("fixes on disk = %d, recorded = %d", len(fixes.Fixes), r.FixesSuggested)
	}
}

func TestRunToleratesFailingSample(t *testing.T) {
	root := t.TempDir()
	inputs := []string{
		writeSample(t, root, "good", cleanData),
		filepath.Join(root, "missing_fastqc"),
	}

	report, err := New(Options{OutputDir: filepath.Join(root, "out")}).Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Successful != 1 || report.Failed != 1 {
		t.Errorf("successful/failed = %d/%d", report.Successful, report.Failed)
	}
	bad := report.SampleResults[1]
	if bad.Status != StatusFailed || bad.Error == "" {
		t.Errorf("failed sample = %+v", bad)
	}
}

func TestRunNoInputs(t *testing.T) {
	if _, err := New(Options{OutputDir: t.TempDir()}).Run(context.Background(), nil); err == nil {
		t.Error("expected error for empty input list")
	}
}

func TestRunWithProfiles(t *testing.T) {
	root := t.TempDir()
	inputs := []string{writeSample(t, root, "rna", cleanData)}

	report, err := New(Options{
		OutputDir:      filepath.Join(root, "out"),
		Organism:       "human",
		ExperimentType: "rnaseq",
	}).Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Organism != "human" || report.ExperimentType != "rnaseq" {
		t.Errorf("profiles = %q/%q", report.Organism, report.ExperimentType)
	}
}

func TestRunWithProfileDir(t *testing.T) {
	root := t.TempDir()
	profileDir := filepath.Join(root, "profiles")
	if err := os.MkdirAll(filepath.Join(profileDir, "organisms"), 0o755); err != nil {
		t.Fatal(err)
	}
	custom := "name: Vulcan Reference\ngc_content:\n  mean: 48.0\n  range: [40, 56]\n  tolerance: 5.0\n"
	if err := os.WriteFile(filepath.Join(profileDir, "organisms", "vulcan.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	inputs := []string{writeSample(t, root, "sampleA", cleanData)}
	outDir := filepath.Join(root, "out")

	_, err := New(Options{
		OutputDir:  outDir,
		Organism:   "vulcan",
		ProfileDir: profileDir,
	}).Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "sampleA", "sampleA_analysis.json"))
	if err != nil {
		t.Fatal(err)
	}
	var assessment types.SampleAssessment
	if err := json.Unmarshal(data, &assessment); err != nil {
		t.Fatal(err)
	}
	if assessment.ProfileInfo != "Organism: Vulcan Reference" {
		t.Errorf("profile info = %q, want the on-disk organism applied", assessment.ProfileInfo)
	}
}

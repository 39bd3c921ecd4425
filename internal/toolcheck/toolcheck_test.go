package toolcheck

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeExecutor simulates a PATH with a chosen set of tools present.
type fakeExecutor struct {
	present  map[string]string // command -> version output
	probeErr map[string]error
	calls    int
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if _, ok := f.present[file]; ok {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeExecutor) Output(_ context.Context, name string, _ ...string) (string, error) {
	f.calls++
	if err, ok := f.probeErr[name]; ok {
		return "", err
	}
	return f.present[name], nil
}

func TestCheckInstalledAndMissing(t *testing.T) {
	c := newChecker(&fakeExecutor{present: map[string]string{
		"fastqc":   "FastQC v0.12.1",
		"fastp":    "fastp 0.23.4",
		"samtools": "samtools 1.19\nUsing htslib 1.19",
	}})

	if !c.Check("fastqc") || !c.Check("fastp") || !c.Check("samtools") {
		t.Error("present tools should be detected")
	}
	if c.Check("cutadapt") || c.Check("picard") {
		t.Error("absent tools should not be detected")
	}
	if c.Check("nonexistent-tool") {
		t.Error("unknown keys are never installed")
	}

	if got := c.Installed(); len(got) != 3 || got[0] != "fastqc" {
		t.Errorf("installed = %v", got)
	}
	if got := c.Missing(); len(got) != 4 || got[0] != "cutadapt" {
		t.Errorf("missing = %v", got)
	}
}

func TestStatusVersionFirstLine(t *testing.T) {
	c := newChecker(&fakeExecutor{present: map[string]string{
		"samtools": "samtools 1.19\nUsing htslib 1.19",
	}})

	s := c.Status("samtools")
	if !s.Installed {
		t.Fatal("samtools should be installed")
	}
	if s.Version != "samtools 1.19" {
		t.Errorf("version = %q, want first line only", s.Version)
	}
}

func TestStatusProbeFailureStillInstalled(t *testing.T) {
	c := newChecker(&fakeExecutor{
		present:  map[string]string{"trimmomatic": ""},
		probeErr: map[string]error{"trimmomatic": errors.New("exit status 1")},
	})

	s := c.Status("trimmomatic")
	if !s.Installed {
		t.Error("tool on PATH counts as installed even when the probe fails")
	}
	if s.Version != "installed (version check failed)" {
		t.Errorf("version = %q", s.Version)
	}
}

func TestStatusCaches(t *testing.T) {
	fake := &fakeExecutor{present: map[string]string{"fastp": "fastp 0.23.4"}}
	c := newChecker(fake)

	c.Check("fastp")
	c.Check("fastp")
	c.Status("fastp")

	if fake.calls != 1 {
		t.Errorf("probe calls = %d, want 1", fake.calls)
	}
}

func TestAlternatives(t *testing.T) {
	c := newChecker(&fakeExecutor{present: map[string]string{
		"trimmomatic": "0.39",
		"cutadapt":    "4.6",
	}})

	// Preference order survives filtering.
	if got := c.Alternatives("quality_trim"); len(got) != 2 || got[0] != "trimmomatic" || got[1] != "cutadapt" {
		t.Errorf("quality_trim alternatives = %v", got)
	}
	if got := c.Alternatives("deduplication"); len(got) != 0 {
		t.Errorf("deduplication alternatives = %v, want none installed", got)
	}
	if got := c.Alternatives("unknown_category"); got != nil {
		t.Errorf("unknown category alternatives = %v", got)
	}
}

func TestAvailability(t *testing.T) {
	c := newChecker(&fakeExecutor{present: map[string]string{"fastqc": "v0.12.1"}})

	av := c.Availability()
	if len(av.Installed) != 1 || av.Installed[0] != "fastqc" {
		t.Errorf("installed = %v", av.Installed)
	}
	if len(av.Missing) != 6 {
		t.Errorf("missing = %v", av.Missing)
	}
}

func TestPrintStatus(t *testing.T) {
	c := newChecker(&fakeExecutor{present: map[string]string{"fastp": "fastp 0.23.4"}})

	var buf bytes.Buffer
	c.PrintStatus(&buf, true)
	out := buf.String()

	for _, want := range []string{
		"Tool Availability Check",
		"fastp 0.23.4",
		"Missing Tools:",
		"conda install -c bioconda picard",
		"Summary: 1 installed, 6 missing",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

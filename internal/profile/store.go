// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/seqqc/pkg/types"
)

//go:embed profiles/organisms/*.yaml profiles/experiment_types/*.yaml
var builtinProfiles embed.FS

const (
	organismsDir   = "organisms"
	experimentsDir = "experiment_types"
	builtinRoot    = "profiles"
)

// matchCutoff is the minimum similarity ratio (1 - distance/length)
// for accepting a fuzzy profile-name match.
const matchCutoff = 0.6

// suggestCutoff is the looser ratio used for did-you-mean suggestions.
const suggestCutoff = 0.4

// NotFoundError reports a profile lookup failure together with
// close-match suggestions for the CLI to surface. Lookup failures are
// warnings, not analysis failures: the resolver falls back to the
// baseline configuration.
type NotFoundError struct {
	Kind        string // "organism" or "experiment type"
	Name        string
	Suggestions []string
	Available   []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Store loads profiles from an on-disk directory when Dir is set, and
// from the embedded defaults otherwise. The zero value uses the
// embedded set.
type Store struct {
	// Dir optionally points at a directory containing organisms/ and
	// experiment_types/ subdirectories of YAML profiles.
	Dir string
}

// NewStore returns a store reading from dir, or from the embedded
// profiles when dir is empty.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Organisms lists the available organism profile keys, sorted.
func (s *Store) Organisms() ([]string, error) {
	return s.list(organismsDir)
}

// ExperimentTypes lists the available experiment profile keys, sorted.
func (s *Store) ExperimentTypes() ([]string, error) {
	return s.list(experimentsDir)
}

// LoadOrganism finds and decodes the organism profile for name,
// accepting case, separator, and close-spelling variants. Returns a
// *NotFoundError when nothing matches.
func (s *Store) LoadOrganism(name string) (*types.OrganismProfile, error) {
	data, err := s.find(organismsDir, "organism", name)
	if err != nil {
		return nil, err
	}
	var p types.OrganismProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding organism profile %q: %w", name, err)
	}
	return &p, nil
}

// LoadExperiment finds and decodes the experiment profile for name.
func (s *Store) LoadExperiment(name string) (*types.ExperimentProfile, error) {
	data, err := s.find(experimentsDir, "experiment type", name)
	if err != nil {
		return nil, err
	}
	var p types.ExperimentProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding experiment profile %q: %w", name, err)
	}
	return &p, nil
}

// Combined resolves the effective threshold configuration for an
// optional organism and experiment pair. Lookup failures never fail
// resolution: the missing profile is skipped and reported in the
// returned warnings.
func (s *Store) Combined(organism, experiment string) (types.ThresholdConfig, []string) {
	var warnings []string

	var org *types.OrganismProfile
	if organism != "" {
		p, err := s.LoadOrganism(organism)
		if err != nil {
			warnings = append(warnings, err.Error())
		} else {
			org = p
		}
	}

	var exp *types.ExperimentProfile
	if experiment != "" {
		p, err := s.LoadExperiment(experiment)
		if err != nil {
			warnings = append(warnings, err.Error())
		} else {
			exp = p
		}
	}

	return Resolve(org, exp), warnings
}

// list returns the profile keys (file names without .yaml) under subdir.
func (s *Store) list(subdir string) ([]string, error) {
	var names []string

	if s.Dir != "" {
		entries, err := os.ReadDir(filepath.Join(s.Dir, subdir))
		if err != nil {
			return nil, fmt.Errorf("listing profiles: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
				names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
			}
		}
	} else {
		entries, err := fs.ReadDir(builtinProfiles, builtinRoot+"/"+subdir)
		if err != nil {
			return nil, fmt.Errorf("listing embedded profiles: %w", err)
		}
		for _, e := range entries {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}

	sort.Strings(names)
	return names, nil
}

func (s *Store) read(subdir, key string) ([]byte, error) {
	if s.Dir != "" {
		return os.ReadFile(filepath.Join(s.Dir, subdir, key+".yaml"))
	}
	return builtinProfiles.ReadFile(builtinRoot + "/" + subdir + "/" + key + ".yaml")
}

// find locates the stored profile whose normalized key best matches
// the user-supplied name.
func (s *Store) find(subdir, kind, name string) ([]byte, error) {
	available, err := s.list(subdir)
	if err != nil {
		return nil, err
	}

	if key, ok := closestMatch(name, available); ok {
		return s.read(subdir, key)
	}

	return nil, &NotFoundError{
		Kind:        kind,
		Name:        name,
		Suggestions: suggestions(name, available, 3),
		Available:   available,
	}
}

// normalize collapses case and separators so that "RNA-Seq", "rna_seq",
// and "rnaseq" all compare equal.
func normalize(v string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(v)))
}

// similarity returns 1 - LevenshteinDistance/maxLen, a ratio in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// closestMatch returns the available key best matching input, when the
// match clears the acceptance cutoff.
func closestMatch(input string, available []string) (string, bool) {
	norm := normalize(input)

	best := ""
	bestScore := 0.0
	for _, candidate := range available {
		score := similarity(norm, normalize(candidate))
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}

	if bestScore >= matchCutoff {
		return best, true
	}
	return "", false
}

// suggestions returns up to n close-but-rejected candidates for
// did-you-mean output, best first.
func suggestions(input string, available []string, n int) []string {
	norm := normalize(input)

	type scored struct {
		name  string
		score float64
	}
	var candidates []scored
	for _, candidate := range available {
		if score := similarity(norm, normalize(candidate)); score >= suggestCutoff {
			candidates = append(candidates, scored{candidate, score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]string, 0, n)
	for _, c := range candidates {
		if len(out) == n {
			break
		}
		out = append(out, c.name)
	}
	return out
}

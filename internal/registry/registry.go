package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Project describes one entry in the control panel. Baseline entries are
// compiled in (or loaded from the config file); registry entries arrive as
// loosely-typed JSON records and are additive only.
type Project struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label,omitempty"`
	Port  int    `yaml:"port,omitempty"`
	URL   string `yaml:"url,omitempty"`

	// Action keys, each an opaque run key handed to the whitelisted
	// command runner (e.g. "tbis.dev"). Empty means the action is not
	// available for this project.
	Start     string `yaml:"start,omitempty"`
	Snapshot  string `yaml:"snapshot,omitempty"`
	Commit    string `yaml:"commit,omitempty"`
	Map       string `yaml:"map,omitempty"`
	ProofPack string `yaml:"proofpack,omitempty"`
}

// DisplayLabel returns the label, falling back to the key.
func (p Project) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Key
}

// RegistryFormatError reports registry text that is not a JSON array even
// after unwrapping one level of string encoding. It is distinct from a fetch
// failure: the caller got data, but the data is unusable.
type RegistryFormatError struct {
	Reason string
	Err    error
}

func (e *RegistryFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry format: %s: %v", e.Reason, e.Err)
	}
	return "registry format: " + e.Reason
}

func (e *RegistryFormatError) Unwrap() error {
	return e.Err
}

// Reconcile merges the trusted baseline with raw registry text into one
// deduplicated, ordered project list. Baseline entries always win on key
// collision; registry records only add projects the baseline doesn't know
// about. The result is sorted by case-insensitive label with the key as
// tiebreaker so the on-screen order is stable across reloads.
//
// Reconcile is pure: fetching the raw text and recovering from fetch
// failure are the caller's problem (see Load).
func Reconcile(baseline []Project, raw string) ([]Project, error) {
	records, err := parseRecords(raw)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(baseline)+len(records))
	merged := make([]Project, 0, len(baseline)+len(records))

	for _, p := range baseline {
		if p.Key == "" || seen[p.Key] {
			continue
		}
		seen[p.Key] = true
		merged = append(merged, p)
	}

	for _, rec := range records {
		p, ok := projectFromRecord(rec)
		if !ok || seen[p.Key] {
			continue
		}
		seen[p.Key] = true
		merged = append(merged, p)
	}

	sortProjects(merged)
	return merged, nil
}

// parseRecords parses registry text into loosely-typed records. The text may
// be JSON-encoded twice (a JSON string containing a JSON array) when the
// command channel quotes its output, so a string result is unwrapped once.
func parseRecords(raw string) ([]map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, &RegistryFormatError{Reason: "not valid JSON", Err: err}
	}

	if inner, ok := v.(string); ok {
		if err := json.Unmarshal([]byte(inner), &v); err != nil {
			return nil, &RegistryFormatError{Reason: "string payload is not valid JSON", Err: err}
		}
	}

	arr, ok := v.([]any)
	if !ok {
		return nil, &RegistryFormatError{Reason: fmt.Sprintf("expected a JSON array, got %T", v)}
	}

	records := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		// Non-object entries are malformed noise, same as keyless ones.
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// projectFromRecord converts one registry record. A record without a
// non-empty string key is dropped; every other field is independently
// coerced and treated as absent when the type is wrong.
func projectFromRecord(rec map[string]any) (Project, bool) {
	key := stringField(rec, "key")
	if key == "" {
		return Project{}, false
	}

	return Project{
		Key:       key,
		Label:     stringField(rec, "label"),
		Port:      portField(rec, "port"),
		URL:       stringField(rec, "url"),
		Start:     stringField(rec, "start"),
		Snapshot:  stringField(rec, "snapshot"),
		Commit:    stringField(rec, "commit"),
		Map:       stringField(rec, "map"),
		ProofPack: stringField(rec, "proofpack"),
	}, true
}

func stringField(rec map[string]any, name string) string {
	s, _ := rec[name].(string)
	return strings.TrimSpace(s)
}

func portField(rec map[string]any, name string) int {
	f, ok := rec[name].(float64)
	if !ok || f != math.Trunc(f) || f <= 0 || f > 65535 {
		return 0
	}
	return int(f)
}

func sortProjects(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		a := strings.ToLower(projects[i].DisplayLabel())
		b := strings.ToLower(projects[j].DisplayLabel())
		if a != b {
			return a < b
		}
		return projects[i].Key < projects[j].Key
	})
}

package registry

// Lister fetches the raw registry text, typically by invoking the external
// "list projects" command.
type Lister interface {
	ListProjects() (string, error)
}

// Load fetches the registry and reconciles it against the baseline. Neither
// a fetch failure nor malformed registry data is fatal: both fall back to
// the baseline-only list, with the error returned alongside so the caller
// can report it to the operator.
func Load(baseline []Project, lister Lister) ([]Project, error) {
	raw, err := lister.ListProjects()
	if err != nil {
		fallback, _ := Reconcile(baseline, "[]")
		return fallback, err
	}

	merged, err := Reconcile(baseline, raw)
	if err != nil {
		fallback, _ := Reconcile(baseline, "[]")
		return fallback, err
	}
	return merged, nil
}

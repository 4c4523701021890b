package registry

// DefaultBaseline returns the compiled-in project fleet. The baseline is
// canonical: the external registry can add projects but never override
// these entries. A config file may replace the baseline entirely.
func DefaultBaseline() []Project {
	return []Project{
		{
			Key:       "tbis",
			Label:     "TBIS",
			Port:      3001,
			URL:       "http://localhost:3001",
			Start:     "tbis.dev",
			Snapshot:  "tbis.snapshot",
			Commit:    "tbis.commit",
			Map:       "tbis.map",
			ProofPack: "tbis.proofpack",
		},
		{
			Key:      "dqotd",
			Label:    "DQOTD",
			Port:     3000,
			URL:      "http://localhost:3000",
			Start:    "dqotd.dev",
			Snapshot: "dqotd.snapshot",
			Commit:   "dqotd.commit",
		},
	}
}

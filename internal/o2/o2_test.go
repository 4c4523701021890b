package o2

import (
	"strings"
	"testing"
)

func TestParseKeyProjectVerb(t *testing.T) {
	tests := []struct {
		key     string
		project string
		verb    string
	}{
		{"tbis.dev", "tbis", "dev"},
		{"dqotd.snapshot", "dqotd", "snapshot"},
		{"my-app_2.truth_map", "my-app_2", "truth_map"},
		{" tbis . dev ", "tbis", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			inv, err := parseKey(tt.key)
			if err != nil {
				t.Fatalf("parseKey(%q) error = %v", tt.key, err)
			}
			if inv.project != tt.project || inv.verb != tt.verb {
				t.Errorf("parseKey(%q) = %q.%q, want %q.%q", tt.key, inv.project, inv.verb, tt.project, tt.verb)
			}
		})
	}
}

func TestParseKeyPortStatus(t *testing.T) {
	inv, err := parseKey("port_status.3001")
	if err != nil {
		t.Fatalf("parseKey() error = %v", err)
	}
	if inv.port != "3001" {
		t.Errorf("port = %q, want 3001", inv.port)
	}
	if inv.project != "" || inv.verb != "" {
		t.Errorf("port probe should not carry project/verb, got %+v", inv)
	}
}

func TestParseKeyRejectsUnsafeInput(t *testing.T) {
	tests := []string{
		"",
		"tbis",
		"a.b.c",
		"TBIS.dev",
		"tbis.rm -rf /",
		"tbis.dev;ls",
		"$(whoami).dev",
		"port_status.80a",
		"port_status.",
	}

	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			if _, err := parseKey(key); err == nil {
				t.Errorf("parseKey(%q) accepted unsafe key", key)
			}
		})
	}
}

func TestRunRejectsUnknownVerb(t *testing.T) {
	r := &Runner{Root: t.TempDir()}

	_, err := r.Run("tbis.deploy")
	if err == nil {
		t.Fatal("expected unknown verb to be rejected")
	}
	if !strings.Contains(err.Error(), "deploy") {
		t.Errorf("error should name the verb, got %v", err)
	}
}

func TestVerbScriptsWhitelist(t *testing.T) {
	want := map[string]string{
		"dev":        "o2_dev.sh",
		"dev_strict": "o2_dev_strict.sh",
		"snapshot":   "o2_snapshot.sh",
		"commit":     "o2_commit.sh",
		"map":        "o2_map.sh",
		"proofpack":  "o2_proofpack.sh",
		"truth_map":  "o2_truth_map.sh",
	}

	for verb, script := range want {
		if got := verbScripts[verb]; got != script {
			t.Errorf("verbScripts[%q] = %q, want %q", verb, got, script)
		}
	}
	if len(verbScripts) != len(want) {
		t.Errorf("whitelist has %d verbs, want %d", len(verbScripts), len(want))
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "'plain'"},
		{"/home/rad/dev/o2", "'/home/rad/dev/o2'"},
		{"$HOME/o2", "'$HOME/o2'"},
		{"with`tick", "'with`tick'"},
		{`back\slash`, `'back\slash'`},
		{"it's", `'it'\''s'`},
	}

	for _, tt := range tests {
		if got := shellQuote(tt.in); got != tt.want {
			t.Errorf("shellQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCommandQuotesWorkspaceRoot(t *testing.T) {
	r := &Runner{Root: "/tmp/$weird dir"}

	cmd := r.command("o2_dev.sh", "tbis")
	if !strings.Contains(cmd, "cd '/tmp/$weird dir'") {
		t.Errorf("root not single-quoted: %q", cmd)
	}
	if !strings.Contains(cmd, "bash 'scripts/o2_dev.sh' 'tbis'") {
		t.Errorf("script invocation not single-quoted: %q", cmd)
	}
	// Double quotes would let $weird expand in bash.
	if strings.Contains(cmd, `"`) {
		t.Errorf("command uses double quoting: %q", cmd)
	}
}

func TestListProjectsMissingRegistry(t *testing.T) {
	r := &Runner{Root: t.TempDir()}

	if _, err := r.ListProjects(); err == nil {
		t.Error("expected missing registry to be an error")
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		stdout, stderr, want string
	}{
		{"out\n", "", "out\n"},
		{"", "err\n", "err\n"},
		{"out", "err", "out\nerr"},
		{"  \n", "err", "err"},
	}

	for _, tt := range tests {
		if got := combine(tt.stdout, tt.stderr); got != tt.want {
			t.Errorf("combine(%q, %q) = %q, want %q", tt.stdout, tt.stderr, got, tt.want)
		}
	}
}

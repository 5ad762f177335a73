package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/procdeck/pkg/buildinfo"
	"github.com/matzehuels/procdeck/pkg/diagram"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c, _ := newTestCLI(t)
	root := c.RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"render", "policies", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
	if root.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", root.Version, buildinfo.Version)
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root command should define --config")
	}
}

func TestRootCommandLoadsConfig(t *testing.T) {
	c, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "procdeck.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, c, "--config", path, "policies"); err != nil {
		t.Fatalf("policies: %v", err)
	}
	if c.Config.Cache.Backend != cacheBackendNone {
		t.Errorf("config not loaded, backend = %q", c.Config.Cache.Backend)
	}
}

func TestRootCommandRejectsBadConfig(t *testing.T) {
	c, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "procdeck.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"tape\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := execute(t, c, "--config", path, "policies")
	if err == nil || !strings.Contains(err.Error(), "tape") {
		t.Errorf("bad config error = %v", err)
	}
}

func TestPolicyTable(t *testing.T) {
	out := policyTable(diagram.Policies())
	for _, want := range []string{"Core Process Statement", "Business Unit Policy", "diagonal", "grid", "row 1", "rows 2..", "label", "skip*"} {
		if !strings.Contains(out, want) {
			t.Errorf("policy table missing %q:\n%s", want, out)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		if err := execute(t, c, "completion", shell); err != nil {
			t.Errorf("completion %s: %v", shell, err)
		}
	}
	if err := execute(t, c, "completion", "tcsh"); err == nil {
		t.Error("completion for an unknown shell should fail")
	}
}

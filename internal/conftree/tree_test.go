package conftree

import (
	"strings"
	"testing"
)

const interfaceOutput = `config system interface
    edit "port1"
        set vdom "root"
        set ip 192.168.1.99 255.255.255.0
        set allowaccess ping https ssh
    next
    edit "port2"
        set vdom "root"
        set ip 10.0.0.1 255.255.255.0
    next
end`

// TestParseRenderRoundTrip tests that parsing show output and rendering it
// back reproduces the canonical text.
func TestParseRenderRoundTrip(t *testing.T) {
	tree := New()
	if err := tree.Parse(strings.Split(interfaceOutput, "\n")); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	rendered := strings.TrimRight(tree.Render(), "\n")
	if rendered != interfaceOutput {
		t.Errorf("Render mismatch:\n--- expected ---\n%s\n--- got ---\n%s", interfaceOutput, rendered)
	}
}

// TestParseIgnoresNoise tests that prompts, banners, and comments in device
// output do not end up in the tree.
func TestParseIgnoresNoise(t *testing.T) {
	output := []string{
		"FGT-60D # show system dns",
		"config system dns",
		"    set primary 8.8.8.8",
		"# comment line",
		"",
		"end",
		"FGT-60D #",
	}

	tree := New()
	if err := tree.Parse(output); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := "config system dns\n    set primary 8.8.8.8\nend\n"
	if tree.Render() != expected {
		t.Errorf("Expected %q, got %q", expected, tree.Render())
	}
}

// TestParseReplacesSection tests that re-parsing a top-level section replaces
// the stale copy instead of merging into it.
func TestParseReplacesSection(t *testing.T) {
	tree := New()
	if err := tree.Parse([]string{"config system dns", "set primary 8.8.8.8", "set secondary 8.8.4.4", "end"}); err != nil {
		t.Fatalf("first Parse failed: %v", err)
	}
	if err := tree.Parse([]string{"config system dns", "set primary 1.1.1.1", "end"}); err != nil {
		t.Fatalf("second Parse failed: %v", err)
	}

	expected := "config system dns\n    set primary 1.1.1.1\nend\n"
	if tree.Render() != expected {
		t.Errorf("Expected fresh section %q, got %q", expected, tree.Render())
	}
}

// TestDiffSelfIsEmpty tests the idempotence property: a tree diffed against
// itself yields an empty change set.
func TestDiffSelfIsEmpty(t *testing.T) {
	tree := New()
	if err := tree.Parse(strings.Split(interfaceOutput, "\n")); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if diff := tree.Diff(tree); diff != "" {
		t.Errorf("Expected empty diff against self, got:\n%s", diff)
	}
}

// TestDiffParameterChange tests that a changed parameter produces a single
// scoped set command.
func TestDiffParameterChange(t *testing.T) {
	live := New()
	if err := live.Parse([]string{"config system dns", "set primary 8.8.8.8", "end"}); err != nil {
		t.Fatalf("Parse live failed: %v", err)
	}
	candidate := New()
	if err := candidate.Parse([]string{"config system dns", "set primary 1.1.1.1", "end"}); err != nil {
		t.Fatalf("Parse candidate failed: %v", err)
	}

	expected := "config system dns\nset primary 1.1.1.1\nend"
	if diff := live.Diff(candidate); diff != expected {
		t.Errorf("Expected diff %q, got %q", expected, diff)
	}
}

// TestDiffUnsetRemovedParameter tests that a parameter absent from the target
// is removed with unset.
func TestDiffUnsetRemovedParameter(t *testing.T) {
	live := New()
	_ = live.Parse([]string{"config system dns", "set primary 8.8.8.8", "set secondary 8.8.4.4", "end"})
	candidate := New()
	_ = candidate.Parse([]string{"config system dns", "set primary 8.8.8.8", "end"})

	expected := "config system dns\nunset secondary\nend"
	if diff := live.Diff(candidate); diff != expected {
		t.Errorf("Expected diff %q, got %q", expected, diff)
	}
}

// TestDiffNewEditBlock tests that a table entry present only in the target is
// created with its full script.
func TestDiffNewEditBlock(t *testing.T) {
	live := New()
	_ = live.Parse([]string{"config firewall address", `edit "host-a"`, "set subnet 10.0.0.1 255.255.255.255", "next", "end"})
	candidate := New()
	_ = candidate.Parse([]string{
		"config firewall address",
		`edit "host-a"`, "set subnet 10.0.0.1 255.255.255.255", "next",
		`edit "host-b"`, "set subnet 10.0.0.2 255.255.255.255", "next",
		"end",
	})

	expected := strings.Join([]string{
		"config firewall address",
		`edit "host-b"`,
		"set subnet 10.0.0.2 255.255.255.255",
		"next",
		"end",
	}, "\n")
	if diff := live.Diff(candidate); diff != expected {
		t.Errorf("Expected diff %q, got %q", expected, diff)
	}
}

// TestDiffDeleteRemovedEditBlock tests that a table entry missing from the
// target is removed with delete.
func TestDiffDeleteRemovedEditBlock(t *testing.T) {
	live := New()
	_ = live.Parse([]string{
		"config firewall address",
		`edit "host-a"`, "set subnet 10.0.0.1 255.255.255.255", "next",
		`edit "host-b"`, "set subnet 10.0.0.2 255.255.255.255", "next",
		"end",
	})
	candidate := New()
	_ = candidate.Parse([]string{"config firewall address", `edit "host-a"`, "set subnet 10.0.0.1 255.255.255.255", "next", "end"})

	expected := strings.Join([]string{
		"config firewall address",
		`delete "host-b"`,
		"end",
	}, "\n")
	if diff := live.Diff(candidate); diff != expected {
		t.Errorf("Expected diff %q, got %q", expected, diff)
	}
}

// TestDiffNestedBlocks tests diffing through a nested config section inside
// an edit entry.
func TestDiffNestedBlocks(t *testing.T) {
	live := New()
	_ = live.Parse([]string{
		"config router bgp",
		"set as 65001",
		"config neighbor",
		`edit "10.0.0.2"`, "set remote-as 65002", "next",
		"end",
		"end",
	})
	candidate := New()
	_ = candidate.Parse([]string{
		"config router bgp",
		"set as 65001",
		"config neighbor",
		`edit "10.0.0.2"`, "set remote-as 65003", "next",
		"end",
		"end",
	})

	expected := strings.Join([]string{
		"config router bgp",
		"config neighbor",
		`edit "10.0.0.2"`,
		"set remote-as 65003",
		"next",
		"end",
		"end",
	}, "\n")
	if diff := live.Diff(candidate); diff != expected {
		t.Errorf("Expected diff %q, got %q", expected, diff)
	}
}

// TestEqual tests the Equal helper on identical and divergent trees.
func TestEqual(t *testing.T) {
	a := New()
	_ = a.Parse([]string{"config system dns", "set primary 8.8.8.8", "end"})
	b := New()
	_ = b.Parse([]string{"config system dns", "set primary 8.8.8.8", "end"})
	c := New()
	_ = c.Parse([]string{"config system dns", "set primary 1.1.1.1", "end"})

	if !Equal(a, b) {
		t.Error("Expected identical trees to be equal")
	}
	if Equal(a, c) {
		t.Error("Expected divergent trees to differ")
	}
}

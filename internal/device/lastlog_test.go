package device

import (
	"reflect"
	"testing"
)

// TestParseBatchLastlog tests the lastlog line grammar against a mix of
// result lines and noise.
func TestParseBatchLastlog(t *testing.T) {
	lines := []string{
		"-3:   conf foo bar",
		"0: set enable",
		"random banner",
		"-23: set gateway 10.0.0.1",
		"not-a-code: set x",
		"",
	}

	entries := ParseBatchLastlog(lines)
	expected := []BatchEntry{
		{StatusCode: -3, Command: "conf foo bar"},
		{StatusCode: 0, Command: "set enable"},
		{StatusCode: -23, Command: "set gateway 10.0.0.1"},
	}
	if !reflect.DeepEqual(entries, expected) {
		t.Errorf("Expected %v, got %v", expected, entries)
	}
}

// TestFailuresKeepsOnlyNegativeCodes tests that Failures drops successful
// entries.
func TestFailuresKeepsOnlyNegativeCodes(t *testing.T) {
	entries := []BatchEntry{
		{StatusCode: -3, Command: "conf foo bar"},
		{StatusCode: 0, Command: "set enable"},
		{StatusCode: 1, Command: "set other"},
	}

	failed := Failures(entries)
	expected := []BatchEntry{{StatusCode: -3, Command: "conf foo bar"}}
	if !reflect.DeepEqual(failed, expected) {
		t.Errorf("Expected %v, got %v", expected, failed)
	}
}

// TestParseBatchLastlogEmpty tests that output with no result lines parses
// to nothing.
func TestParseBatchLastlogEmpty(t *testing.T) {
	if entries := ParseBatchLastlog([]string{"starting batch mode", "done"}); entries != nil {
		t.Errorf("Expected no entries, got %v", entries)
	}
}

package ui

import (
	"strings"
	"testing"
)

// TestProgressStepLifecycle tests the step state machine behind the commit
// phase display: running, complete with a note, failed.
func TestProgressStepLifecycle(t *testing.T) {
	p := NewProgress("Committing candidate configuration", 3).SetWidth(80)
	p.SetStepNames([]string{
		"Read running configuration",
		"Compute change set",
		"Push batch and verify",
	})

	p.StartStep(1, "")
	if p.Current != 1 {
		t.Errorf("Expected current step 1, got %d", p.Current)
	}
	p.CompleteStep(1, "")
	p.CompleteStep(2, "12 command(s)")

	if p.Percent < 0.66 || p.Percent > 0.67 {
		t.Errorf("Expected 2/3 progress, got %f", p.Percent)
	}

	out := p.Render()
	for _, want := range []string{
		"Committing candidate configuration",
		"Read running configuration",
		"Compute change set",
		"(12 command(s))",
		StepMarkerComplete,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in rendered progress", want)
		}
	}

	p.FailStep(3, "rolled back")
	out = p.Render()
	if !strings.Contains(out, FailureMarker) || !strings.Contains(out, "(rolled back)") {
		t.Errorf("Expected failure marker and note, got %q", out)
	}
}

// TestProgressSkippedStepCountsAsDone tests that skipped steps advance the
// bar, matching the dry-run and no-changes commit paths.
func TestProgressSkippedStepCountsAsDone(t *testing.T) {
	p := NewProgress("", 2)
	p.SetStepNames([]string{"Compute change set", "Push batch and verify"})

	p.CompleteStep(1, "")
	p.UpdateStep(2, StepSkipped, "dry run")

	if p.Percent != 1.0 {
		t.Errorf("Expected full progress with skipped step, got %f", p.Percent)
	}
	if !strings.Contains(p.Render(), "(dry run)") {
		t.Error("Expected skip note in rendered progress")
	}
}

// TestProgressIgnoresOutOfRangeSteps tests that bogus step numbers are
// dropped instead of panicking.
func TestProgressIgnoresOutOfRangeSteps(t *testing.T) {
	p := NewProgress("", 2)

	p.UpdateStep(0, StepComplete, "")
	p.UpdateStep(3, StepComplete, "")

	if p.Percent != 0 {
		t.Errorf("Expected untouched progress, got %f", p.Percent)
	}
}

// TestRunOnceModel tests the render-and-exit model contract.
func TestRunOnceModel(t *testing.T) {
	m := NewRunOnceModel("  [1/3] Read running configuration")

	if m.View() != "  [1/3] Read running configuration" {
		t.Errorf("Expected content passthrough, got %q", m.View())
	}
	if m.Init() == nil {
		t.Error("Expected Init to quit immediately")
	}
}

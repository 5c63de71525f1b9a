package device

import (
	"github.com/muurk/fortictl/internal/conftree"

	"go.uber.org/zap"
)

// CommitOutcome reports the per-command failures that survived a commit's
// retry policy. An empty outcome means full success.
type CommitOutcome struct {
	// Failed holds the batch entries with negative status codes, in lastlog
	// order.
	Failed []BatchEntry
}

// OK reports whether every command in the batch succeeded.
func (o CommitOutcome) OK() bool {
	return len(o.Failed) == 0
}

// Commit pushes configuration changes to the device as a framed batch.
//
// When configText is empty the change set is computed as the command diff
// from live to candidate; otherwise configText is pushed as-is. An empty
// change set is a no-op: no batch is sent.
//
// The snapshot state is captured from the pre-commit live state, then live
// is reloaded from the device after every attempt. Failures with a transient
// status code are retried by re-executing the whole batch, at most
// DefaultCommitRetries times per call.
//
// If failures remain after retries and force is false, the session rolls
// back to the snapshot and a *CommitError carrying the failed commands is
// returned. With force true the commit is best effort: the outcome lists the
// failures and the error is nil.
func (s *Session) Commit(configText string, force bool) (CommitOutcome, error) {
	return s.commit(configText, force, true)
}

// commit is Commit with control over snapshot capture. Rollback-driven
// commits pass reloadSnapshot=false so the snapshot they are restoring is
// never overwritten by the state being undone.
func (s *Session) commit(configText string, force, reloadSnapshot bool) (CommitOutcome, error) {
	pinned := configText != ""

	text := configText
	if !pinned {
		text = s.diffText()
	}
	if text == "" {
		s.log.Info("commit requested with empty change set, nothing to do")
		return CommitOutcome{}, nil
	}

	s.log.Info("committing config",
		zap.Bool("force", force),
		zap.Bool("pinned_text", pinned),
		zap.Int("lines", len(splitLines(text))))

	failed, err := s.commitOnce(text)
	if err != nil {
		return CommitOutcome{}, err
	}
	if err := s.reloadLive(reloadSnapshot); err != nil {
		return CommitOutcome{Failed: failed}, err
	}

	// Bounded coarse-grained retry: each pass re-executes the whole batch
	// on the first transient failure code found, capping total
	// re-executions regardless of how many distinct commands are
	// transient.
	retries := s.retries
	for retries > 0 && s.hasRetryable(failed) {
		retries--
		if !pinned {
			text = s.diffText()
		}
		s.log.Warn("retrying batch after transient failure",
			zap.Int("retries_left", retries),
			zap.Int("failed", len(failed)))

		failed, err = s.commitOnce(text)
		if err != nil {
			return CommitOutcome{Failed: failed}, err
		}
		if err := s.reloadLive(false); err != nil {
			return CommitOutcome{Failed: failed}, err
		}
	}

	outcome := CommitOutcome{Failed: failed}
	if outcome.OK() {
		s.log.Info("commit succeeded")
		return outcome, nil
	}

	if force {
		// Best effort: the caller asked to keep whatever applied.
		s.log.Warn("forced commit finished with failures",
			zap.Int("failed", len(failed)))
		return outcome, nil
	}

	s.log.Error("commit failed, rolling back", zap.Int("failed", len(failed)))
	if err := s.Rollback(); err != nil {
		return outcome, err
	}
	return outcome, &CommitError{Failed: failed}
}

// commitOnce runs a single batch attempt: push the framed script, discard
// its raw reply, then fetch and parse the execution log.
func (s *Session) commitOnce(text string) ([]BatchEntry, error) {
	script := s.scope.batchPreamble() + "execute batch start\n" +
		s.scope.vdomEdit() + text + "\nexecute batch end\n"

	if _, err := s.Execute(script); err != nil {
		return nil, err
	}

	lastlog, err := s.Execute(s.scope.batchPreamble() + "execute batch lastlog")
	if err != nil {
		return nil, err
	}

	return Failures(ParseBatchLastlog(lastlog)), nil
}

// diffText computes the command script that takes live to candidate.
func (s *Session) diffText() string {
	return s.store.Get(Live).Diff(s.store.Get(Candidate))
}

// reloadLive replaces the live state with a fresh device read of every path
// it was populated from. With captureSnapshot set, the pre-reload live state
// is frozen as the snapshot first; retries and rollbacks never capture.
func (s *Session) reloadLive(captureSnapshot bool) error {
	if captureSnapshot {
		s.store.CaptureSnapshot()
	}

	paths := s.store.Paths(Live)
	s.store.Replace(Live, conftree.New())

	for _, path := range paths {
		if err := s.Load(path, LoadLive, ""); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) hasRetryable(failed []BatchEntry) bool {
	for _, entry := range failed {
		if s.retryCodes[entry.StatusCode] {
			return true
		}
	}
	return false
}

package device

import "go.uber.org/zap"

// Rollback restores the device to the snapshot captured at the start of the
// last commit. The restoring change set is the command diff from the current
// live state back to the snapshot; if it is empty the rollback is a no-op.
//
// The restore itself runs as a forced commit that never recaptures the
// snapshot, so the fixed point being restored to cannot be overwritten by
// the state being undone. A restore that itself leaves failures is surfaced
// as a rollback-flavored *CommitError; there is no further fallback.
func (s *Session) Rollback() error {
	snapshot := s.store.Get(Snapshot)
	if snapshot == nil {
		return NewValidationError("no snapshot available for rollback")
	}

	text := s.store.Get(Live).Diff(snapshot)
	if text == "" {
		s.log.Info("rollback requested but live already matches snapshot")
		return nil
	}

	s.log.Warn("rolling back to snapshot", zap.Int("lines", len(splitLines(text))))

	outcome, err := s.commit(text, true, false)
	if err != nil {
		return err
	}
	if !outcome.OK() {
		return &CommitError{Failed: outcome.Failed, Rollback: true}
	}

	s.log.Info("rollback succeeded")
	return nil
}

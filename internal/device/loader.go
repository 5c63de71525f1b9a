package device

import (
	"fmt"

	"go.uber.org/zap"
)

// LoadTarget selects which configuration states a load populates. Loading
// into live never implicitly updates candidate, and vice versa; the caller
// decides.
type LoadTarget int

const (
	// LoadLive populates only the live state.
	LoadLive LoadTarget = iota
	// LoadCandidate populates only the candidate state.
	LoadCandidate
	// LoadBoth populates live and candidate from the same read, the usual
	// starting point before editing the candidate.
	LoadBoth
)

// String returns the target name used in logs.
func (t LoadTarget) String() string {
	switch t {
	case LoadLive:
		return "live"
	case LoadCandidate:
		return "candidate"
	case LoadBoth:
		return "both"
	default:
		return fmt.Sprintf("LoadTarget(%d)", int(t))
	}
}

// Load populates the selected state(s) with the configuration under path.
// When rawText is empty the configuration is read from the device with a
// scoped "show" command; otherwise rawText is parsed instead, which allows
// seeding states from files. The path is recorded as loaded for every state
// that was updated.
func (s *Session) Load(path string, target LoadTarget, rawText string) error {
	s.log.Info("loading config",
		zap.String("path", path),
		zap.Stringer("target", target),
		zap.Bool("from_text", rawText != ""))

	var lines []string
	if rawText == "" {
		var err error
		lines, err = s.Execute(s.scope.ReadCommand(path))
		if err != nil {
			return err
		}
	} else {
		lines = splitLines(rawText)
	}

	if target == LoadLive || target == LoadBoth {
		if err := s.parseInto(Live, path, lines); err != nil {
			return err
		}
	}
	if target == LoadCandidate || target == LoadBoth {
		if err := s.parseInto(Candidate, path, lines); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) parseInto(name StateName, path string, lines []string) error {
	if err := s.store.Get(name).Parse(lines); err != nil {
		return NewValidationError(fmt.Sprintf("parsing %s into %s state: %v", path, name, err))
	}
	s.store.RecordPath(name, path)
	return nil
}

package device

import (
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/fortictl/internal/logging"
	"github.com/muurk/fortictl/internal/transport"
)

const (
	// DefaultCommitRetries is the total number of batch re-executions a
	// single commit may spend on transient failures.
	DefaultCommitRetries = 5

	// commandFailMarker in a raw response means the device rejected the
	// command outside the batch protocol.
	commandFailMarker = "Command fail"
)

// defaultRetryCodes are the lastlog status codes treated as transient and
// worth retrying.
var defaultRetryCodes = map[int]bool{-3: true, -23: true}

// SessionOptions configures a device session.
type SessionOptions struct {
	// Host names the device in errors and logs.
	Host string

	// Scope selects the partition commands run against. Zero value is the
	// unscoped CLI.
	Scope Scope

	// Logger receives session events. Nil means the shared logger.
	Logger *zap.Logger

	// Retries overrides DefaultCommitRetries when positive.
	Retries int
}

// Session owns an exclusive command channel to one device together with the
// device's configuration states. It is not safe for concurrent use; run one
// session per device.
type Session struct {
	host       string
	scope      Scope
	channel    transport.Channel
	store      *StateStore
	log        *zap.Logger
	retries    int
	retryCodes map[int]bool
}

// NewSession wraps an open command channel in a session. The session takes
// ownership of the channel; Close releases it.
func NewSession(channel transport.Channel, opts SessionOptions) *Session {
	log := opts.Logger
	if log == nil {
		log = logging.GetLogger()
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = DefaultCommitRetries
	}

	return &Session{
		host:       opts.Host,
		scope:      opts.Scope,
		channel:    channel,
		store:      NewStateStore(),
		log:        log.With(zap.String("host", opts.Host), zap.Stringer("scope", opts.Scope)),
		retries:    retries,
		retryCodes: defaultRetryCodes,
	}
}

// Store exposes the session's configuration states.
func (s *Session) Store() *StateStore {
	return s.store
}

// Scope returns the partition this session operates on.
func (s *Session) Scope() Scope {
	return s.scope
}

// Close releases the underlying channel. The session must not be used
// afterwards.
func (s *Session) Close() error {
	s.log.Debug("closing session")
	return s.channel.Close()
}

// Execute sends a raw command to the device and returns the response line by
// line. A response containing the device's failure marker is surfaced as a
// command error; channel failures as transport errors.
func (s *Session) Execute(command string) ([]string, error) {
	s.log.Debug("executing command", zap.String("command", command))

	output, err := s.channel.Send(command)
	if err != nil {
		return nil, NewTransportError(s.host, "command send failed", err)
	}

	if strings.Contains(output, commandFailMarker) {
		s.log.Error("device rejected command",
			zap.String("command", command),
			zap.String("output", output))
		return nil, NewCommandError(s.host, command, output)
	}

	return splitLines(output), nil
}

// splitLines splits a raw response into lines, tolerating CRLF endings.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

package transport

import "time"

// DefaultTimeout is the default per-session command timeout.
const DefaultTimeout = 60 * time.Second

// Channel is an interactive command session with a device. Send blocks until
// the device returns the complete response for the command or the session
// timeout elapses. There is no cancellation mechanism: a caller wanting to
// abort must Close the channel, which surfaces as an error on the next Send.
type Channel interface {
	Send(command string) (string, error)
	Close() error
}

package transport

import (
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// DefaultSSHPort is the standard SSH port appliances listen on.
const DefaultSSHPort = 22

// SSHOptions configures an SSH command channel.
type SSHOptions struct {
	// Host is the appliance FQDN or IP address.
	Host string

	// Port is the SSH port. Zero means DefaultSSHPort.
	Port int

	// Username and Password for password authentication.
	Username string
	Password string

	// Timeout bounds both the TCP dial and every command round trip.
	// Zero means DefaultTimeout. The timeout is fixed for the lifetime of
	// the channel.
	Timeout time.Duration

	// HostKeyCallback verifies the server host key. When nil the host key
	// is not verified, which matches how operators typically reach lab
	// appliances with self-signed keys.
	HostKeyCallback ssh.HostKeyCallback
}

// SSHChannel is a Channel that runs each command in its own SSH session on a
// shared connection.
type SSHChannel struct {
	client  *ssh.Client
	timeout time.Duration
}

// DialSSH connects to the appliance and returns a ready command channel.
func DialSSH(opts SSHOptions) (*SSHChannel, error) {
	if opts.Port == 0 {
		opts.Port = DefaultSSHPort
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	hostKey := opts.HostKeyCallback
	if hostKey == nil {
		hostKey = ssh.InsecureIgnoreHostKey() //nolint:gosec // lab default, see SSHOptions
	}

	cfg := &ssh.ClientConfig{
		User:            opts.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(opts.Password)},
		HostKeyCallback: hostKey,
		Timeout:         opts.Timeout,
	}

	addr := net.JoinHostPort(opts.Host, fmt.Sprintf("%d", opts.Port))
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", addr, err)
	}

	return &SSHChannel{client: client, timeout: opts.Timeout}, nil
}

// Send runs a command and returns its combined output. The command is given
// the channel's fixed timeout to complete; on timeout the session is torn
// down and an error returned.
func (c *SSHChannel) Send(command string) (string, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("open ssh session: %w", err)
	}
	defer session.Close()

	type reply struct {
		output []byte
		err    error
	}
	done := make(chan reply, 1)
	go func() {
		output, err := session.CombinedOutput(command)
		done <- reply{output, err}
	}()

	select {
	case r := <-done:
		// Appliance CLIs report per-command failures in the response text
		// rather than the exit status, so a non-zero exit with output is
		// still a response worth handing to the caller.
		var exitErr *ssh.ExitError
		if r.err != nil && !errors.As(r.err, &exitErr) {
			return string(r.output), fmt.Errorf("run %q: %w", command, r.err)
		}
		return string(r.output), nil
	case <-time.After(c.timeout):
		return "", fmt.Errorf("run %q: timed out after %s", command, c.timeout)
	}
}

// Close tears down the SSH connection.
func (c *SSHChannel) Close() error {
	return c.client.Close()
}

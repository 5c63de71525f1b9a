// Package transport provides the command channels used to talk to an
// appliance's line-oriented CLI.
//
// A Channel carries one command at a time: Send writes a command string and
// blocks until the device's full textual response arrives or the channel's
// timeout elapses. Channels are not safe for concurrent use; a session owns
// its channel exclusively and issues commands sequentially.
//
// Two implementations are provided:
//   - SSHChannel runs each command over an SSH connection, the normal way to
//     reach a production appliance.
//   - WSChannel talks to CLI-over-websocket consoles exposed by lab and
//     emulated appliances.
package transport

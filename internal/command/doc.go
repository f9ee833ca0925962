// Package command publishes user intent to the irrigation controller.
//
// Every operation requires a connected session. When the session is not
// connected the command is dropped and session.ErrNotConnected is returned;
// nothing is queued or retried.
package command

package domain

import (
	"errors"
)

var (
	ErrKeyNotFound          = errors.New("key not found")
	ErrUnknownCommand       = errors.New("unknown command")
	ErrMalformedArguments   = errors.New("malformed arguments")
	ErrInvalidStore         = errors.New("invalid store state")
	ErrInvalidHandshakeStep = errors.New("invalid handshake step")
	ErrUnexpectedResponse   = errors.New("unexpected handshake response")
	ErrReadOnly             = errors.New("read only replica")
	ErrCanceled             = errors.New("ERR operation canceled")
	ErrNestedMulti          = errors.New("nested multi")
)

// CommandError carries the exact text replied to the client and unwraps to
// one of the sentinels above.
type CommandError struct {
	Reply string
	Cause error
}

func (err *CommandError) Error() string {
	return err.Reply
}

func (err *CommandError) Unwrap() error {
	return err.Cause
}

func NewUnknownCommandError(name string) error {
	return &CommandError{
		Reply: "ERR unknown command '" + name + "'",
		Cause: ErrUnknownCommand,
	}
}

func NewArgsError(name string) error {
	return &CommandError{
		Reply: "ERR wrong number of arguments for '" + lower(name) + "' command",
		Cause: ErrMalformedArguments,
	}
}

func NewSyntaxError() error {
	return &CommandError{Reply: "ERR syntax error", Cause: ErrMalformedArguments}
}

func NewMalformedError(reply string) error {
	return &CommandError{Reply: reply, Cause: ErrMalformedArguments}
}

func NewInvalidStoreError(reply string) error {
	return &CommandError{Reply: reply, Cause: ErrInvalidStore}
}

func NewNestedMultiError() error {
	return &CommandError{Reply: "ERR MULTI calls can not be nested", Cause: ErrNestedMulti}
}

func NewReadOnlyError() error {
	return &CommandError{
		Reply: "READONLY You can't write against a read only replica.",
		Cause: ErrReadOnly,
	}
}

func NewHandshakeError(name string, step int) error {
	return &CommandError{
		Reply: "ERR unexpected " + name + " at replication handshake step " + itoa(step),
		Cause: ErrInvalidHandshakeStep,
	}
}

// ReplyText is the error line sent to a client for err.
func ReplyText(err error) string {
	var commandErr *CommandError

	if errors.As(err, &commandErr) {
		return commandErr.Reply
	}

	return "ERR " + err.Error()
}

func IsUnknownCommand(err error) bool {
	return errors.Is(err, ErrUnknownCommand)
}

func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedArguments)
}

func IsHandshakeError(err error) bool {
	return errors.Is(err, ErrInvalidHandshakeStep) || errors.Is(err, ErrUnexpectedResponse)
}

func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

package errlog

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/RZinth/BA-AD-Core/logger"
)

// Logger reports errors with their full cause chain through a regular
// logger. The top message becomes the log message and the remaining
// chain is joined with " -> " into the cause field, which the console
// formatter renders as a [CAUSE] continuation line.
type Logger struct {
	log *logger.Logger
}

// New creates an error logger writing through log.
func New(log *logger.Logger) *Logger {
	return &Logger{log: log}
}

// LogError logs err at error level with its cause chain, and returns
// err unchanged so call sites can log and propagate in one expression:
//
//	return el.LogError(errors.Wrap(err, "writing backup"))
func (e *Logger) LogError(err error) error {
	if err == nil {
		return nil
	}

	msgs := chainMessages(err)
	if len(msgs) == 1 {
		e.log.Error(msgs[0])
		return err
	}
	e.log.Error(msgs[0], logger.Cause(strings.Join(msgs[1:], " -> ")))
	return err
}

// LogErrorContext wraps err with context, logs the wrapped error, and
// returns it.
func (e *Logger) LogErrorContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return e.LogError(errors.Wrap(err, context))
}

// LogRecoverable logs err at warn level together with the recovery
// action the caller is taking instead of failing.
func (e *Logger) LogRecoverable(err error, recoveryAction string) {
	if err == nil {
		return
	}
	e.log.Warn("Recoverable error, continuing",
		logger.Err(err),
		logger.String("recovery", recoveryAction),
	)
}

// Wrap annotates err with a message, preserving the cause chain.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message, preserving the cause
// chain.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// chainMessages splits an error into per-layer messages, outermost
// first. Wrapped errors render their full chain in Error(), so each
// layer's own message is recovered by stripping the ": "-joined tail
// contributed by the next layer. Layers that don't follow that
// convention fall back to their full text.
func chainMessages(err error) []string {
	var msgs []string
	for err != nil {
		text := err.Error()
		next := errors.Unwrap(err)
		if next != nil {
			// Annotation-free layers (stack traces etc.) repeat their
			// child's text verbatim; they contribute no message.
			if text == next.Error() {
				err = next
				continue
			}
			if own, ok := strings.CutSuffix(text, ": "+next.Error()); ok {
				text = own
			}
		}
		if text != "" {
			msgs = append(msgs, text)
		}
		err = next
	}
	if len(msgs) == 0 {
		msgs = []string{"unknown error"}
	}
	return msgs
}

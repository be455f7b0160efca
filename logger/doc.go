// Package logger is the public frontend of the logging pipeline. Most
// users only need to import this package plus config for setup.
//
// A Logger is immutable after construction — all fields, the level,
// and the handler are set once via the Builder and never modified.
// This makes Logger inherently safe for concurrent use without any
// locking on the read path.
//
// Construction goes through the Builder:
//
//	log := logger.NewBuilder().
//	    WithHandler(myHandler).
//	    WithLevel(logger.DebugLevel).
//	    Build()
//
// Child loggers with extra fields are created via With, which returns
// a new Logger that shares the same handler but carries additional
// default fields:
//
//	reqLog := log.With(logger.String("request_id", id))
//
// Level checks happen before any allocation, so filtered-out messages
// cost only a single integer comparison.
package logger

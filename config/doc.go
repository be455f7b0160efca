// Package config assembles the logging pipeline from a single Config
// value: which outputs exist (console, JSON), the minimum level, and
// whether output goes through the buffered background writer.
//
// The typical program entry point:
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    ...
//	}
//	log, guard := config.New(cfg)
//	defer func() {
//	    log.Close()
//	    if guard != nil {
//	        guard.Close()
//	    }
//	}()
//
// When the async writer is enabled, console and JSON output share one
// background writer, so lines from both streams stay whole and ordered
// on the shared destination.
package config

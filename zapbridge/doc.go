// Package zapbridge plugs the background writer into zap. Programs
// already built on zap can keep their call sites and gain the bounded,
// non-blocking output path: the writer satisfies zapcore.WriteSyncer,
// with Sync translated into an out-of-band flush request.
package zapbridge

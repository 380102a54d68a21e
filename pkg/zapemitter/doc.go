// Package zapemitter is the default logpool backend, built on Uber's zap.
//
// Records are JSON encoded (or console encoded with format "console") with the
// time under "ts" as unix seconds, a lowercase "level" label and the message
// under "msg". zap has no trace level; trace records are written one step below
// debug and labelled "trace".
//
// Children share the parent's core and transport whenever their effective
// configuration describes the same destination, so a single file or kafka
// producer serves the whole category tree and is closed exactly once.
//
// # Usage
//
//	root, err := zapemitter.New(emitter.Config{"level": "info", "output": "stderr"})
//	if err != nil {
//		return err
//	}
//	child, err := root.Child(emitter.Config{"level": "debug", "output": "stderr"})
package zapemitter

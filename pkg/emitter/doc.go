// Package emitter defines the capability contract that logpool expects from a
// logging backend.
//
// An Emitter accepts leveled records, reports level enablement, derives children
// with a merged configuration and can be flushed and closed. The package also
// holds the shared Level and Config types so that backends and the logpool core
// agree on a vocabulary without importing each other.
//
// # Implementing a backend
//
//	func New(cfg emitter.Config) (emitter.Emitter, error) {
//		level, err := cfg.Level()
//		if err != nil {
//			return nil, err
//		}
//		...
//	}
//
// Backends shipped with this module live in zapemitter, hclogemitter and
// zerologemitter.
package emitter

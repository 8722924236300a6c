package spvpeer

import "github.com/btcsuite/btclog"

// log is the package-level logger, disabled until a caller supplies a
// real backend. This mirrors the standard btcsuite/Decred ecosystem
// idiom so ravenspv slots into the same logging infrastructure as
// btcd/btcwallet without pulling in a dependency on any specific
// logging backend.
var log = btclog.Disabled

// UseLogger sets the package-wide logger. Ordinarily done once at
// process start by whatever wires subsystem loggers together (e.g. a
// btclog.Backend, or seelog via a shim).
func UseLogger(logger btclog.Logger) {
	log = logger
}

package bitcoin

import "github.com/btcsuite/btclog"

// log is the package-level logger for the example manager, disabled
// until a caller supplies a real backend (same idiom as pkg/spvpeer).
var log = btclog.Disabled

// UseLogger sets the package-wide logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}

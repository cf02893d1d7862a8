package genserver

import (
	"github.com/btcsuite/btclog"
)

// log is the package-level logger used by the mailbox, server, and
// dispatcher implementations to trace lifecycle events. It defaults to a
// disabled logger so importers pay no cost unless they opt in via
// UseLogger.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used by genserver. Callers
// typically wire this up once at program start, pointing it at the same
// backend used for the rest of the application's logging.
func UseLogger(logger btclog.Logger) {
	log = logger
}

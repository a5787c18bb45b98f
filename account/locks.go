package account

import (
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// The session lock is held across gateway calls, so a long wait on it is normal.
// Lock-order reports are still written, but they never stop the process.
func init() {
	deadlock.Opts.DeadlockTimeout = 0
	deadlock.Opts.OnPotentialDeadlock = func() {
		logrus.Warn("potential deadlock on the wallet session reported")
	}
}

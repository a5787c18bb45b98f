package pprof

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/sirupsen/logrus"
)

// StartPprof serves the runtime profiles on addr, a loopback address.
func StartPprof(addr string, log *logrus.Logger) {
	go func() {
		log.Infof("pprof: %s", http.ListenAndServe(addr, nil))
	}()
}

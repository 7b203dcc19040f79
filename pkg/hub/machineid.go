package hub

import (
	"os"
	"path/filepath"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// DefaultClientID derives a stable MQTT client identity from the
// machine, so reconnects resume the same session identity without
// per-host configuration.
func DefaultClientID() string {
	id, err := machineid.ID()
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return filepath.Base(os.Args[0])
	}
	return filepath.Base(os.Args[0]) + "-" + id
}

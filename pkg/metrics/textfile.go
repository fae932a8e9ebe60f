package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
)

// WriteSnapshot writes every metric gathered from g to path in the Prometheus
// text format, for pickup by a node-exporter textfile collector.
func WriteSnapshot(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write metrics snapshot").WithDetails(path)
	}
	return nil
}

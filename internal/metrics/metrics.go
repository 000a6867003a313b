// Package metrics holds the Prometheus collectors for cover asset lifecycle events.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Assets counts asset lifecycle events. A nil *Assets is valid and records nothing.
type Assets struct {
	created     prometheus.Counter
	reused      prometheus.Counter
	repaired    prometheus.Counter
	released    prometheus.Counter
	fileErrors  *prometheus.CounterVec
	digestRetry prometheus.Counter
}

// NewAssets creates the asset collectors and registers them with reg.
func NewAssets(reg prometheus.Registerer) (*Assets, error) {
	m := &Assets{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_assets_created_total",
			Help: "Cover assets created for previously unseen content.",
		}),
		reused: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_assets_reused_total",
			Help: "Uploads resolved to an existing asset with the same digest.",
		}),
		repaired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_assets_repaired_total",
			Help: "Missing objects of existing assets rewritten from a re-upload of the same bytes.",
		}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_assets_released_total",
			Help: "Asset rows deleted after their last referencing entry was removed.",
		}),
		fileErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_asset_file_errors_total",
			Help: "Cover file operations that failed after the database commit.",
		}, []string{"op"}),
		digestRetry: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_asset_digest_retries_total",
			Help: "Create transactions re-run after losing a race on the same digest.",
		}),
	}

	for _, c := range []prometheus.Collector{m.created, m.reused, m.repaired, m.released, m.fileErrors, m.digestRetry} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Assets) Created() {
	if m != nil {
		m.created.Inc()
	}
}

func (m *Assets) Reused() {
	if m != nil {
		m.reused.Inc()
	}
}

func (m *Assets) Repaired() {
	if m != nil {
		m.repaired.Inc()
	}
}

func (m *Assets) Released() {
	if m != nil {
		m.released.Inc()
	}
}

// FileError records a failed post-commit file operation; op is "write" or "delete".
func (m *Assets) FileError(op string) {
	if m != nil {
		m.fileErrors.WithLabelValues(op).Inc()
	}
}

func (m *Assets) DigestRetry() {
	if m != nil {
		m.digestRetry.Inc()
	}
}

package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspectnet/internal/service"
	"inspectnet/internal/store"
)

var (
	_ store.Observer              = (*Metrics)(nil)
	_ service.DiagnosticsRecorder = (*Metrics)(nil)
)

func TestMetricsRecord(t *testing.T) {
	m := New()

	m.Saved(120)
	m.Saved(64)
	m.Migrated()
	m.Diagnostics(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.saves))
	assert.Equal(t, 64.0, testutil.ToFloat64(m.savedBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.migrations))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.diagnostics))
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.Saved(10)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "inspectnet_store_saves_total 1")
	assert.Contains(t, string(body), "inspectnet_validation_diagnostics 0")
}

func TestMetricsRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Migrated()

	assert.Equal(t, 0.0, testutil.ToFloat64(b.migrations))
}

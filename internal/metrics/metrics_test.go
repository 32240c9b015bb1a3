package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	registry := NewRegistry()
	TokenRotations.WithLabelValues("rotated").Inc()
	AssetCleanups.WithLabelValues("enqueued").Inc()

	w := httptest.NewRecorder()
	Handler(registry).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `vidtube_token_rotations_total{outcome="rotated"}`)
	assert.Contains(t, w.Body.String(), `vidtube_asset_cleanups_total{outcome="enqueued"}`)
}

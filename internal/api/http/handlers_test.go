package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/asterix/internal/document"
	"github.com/GriffinCanCode/asterix/internal/domain/events"
	"github.com/GriffinCanCode/asterix/internal/domain/navigation"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/asterix/internal/shared/id"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/transport"
)

func page(_ context.Context, url string) (*transport.Response, error) {
	header := http.Header{}
	header.Set("Content-Type", "text/html; charset=utf-8")
	return &transport.Response{
		URL:        url,
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       []byte("<html><head><title>Test Page</title></head><body><p>hello</p></body></html>"),
	}, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	core := navigation.New(
		document.NewPipeline(transport.Func(page), document.Options{}),
		events.NewBus(),
		navigation.Options{Metrics: metrics},
	)
	rt := navigation.NewRuntime(core, 0)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = rt.Close(ctx)
	})

	handlers := NewHandlers(rt, Options{
		Metrics:  metrics,
		Gatherer: reg,
		Breakers: func() map[string]resilience.State {
			return map[string]resilience.State{"example.test": resilience.StateClosed}
		},
	})

	router := gin.New()
	handlers.Register(router)
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) types.TabSnapshot {
	t.Helper()
	var snap types.TabSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func openTab(t *testing.T, router *gin.Engine) types.TabID {
	t.Helper()
	w := do(router, http.MethodPost, "/tabs", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeSnapshot(t, w).ID
}

func TestRoot(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"asterix"`)
}

func TestOpenAndListTabs(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/tabs", `{"title":"Start"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	snap := decodeSnapshot(t, w)
	assert.True(t, id.IsValidTabID(string(snap.ID)))
	assert.Equal(t, "Start", snap.TitleOr(""))
	assert.False(t, snap.Loading)

	openTab(t, router)

	w = do(router, http.MethodGet, "/tabs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Tabs  []types.TabSnapshot `json:"tabs"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, snap.ID, list.Tabs[0].ID)
}

func TestNavigateLoadsPage(t *testing.T) {
	router := setupRouter(t)
	tabID := openTab(t, router)

	w := do(router, http.MethodPost, "/tabs/"+string(tabID)+"/navigate", `{"url":"example.test"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, "https://example.test", decodeSnapshot(t, w).URL)

	var snap types.TabSnapshot
	require.Eventually(t, func() bool {
		w := do(router, http.MethodGet, "/tabs/"+string(tabID), "")
		snap = decodeSnapshot(t, w)
		return !snap.Loading
	}, 2*time.Second, 10*time.Millisecond)

	require.NotNil(t, snap.LastResponse)
	assert.Equal(t, types.StatusOK, snap.LastResponse.Status)
	assert.Equal(t, "Test Page", snap.TitleOr(""))
	assert.Contains(t, snap.LastResponse.BodyText(), "hello")
}

func TestOpenTabWithURL(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/tabs", `{"url":"http://example.test/start"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	snap := decodeSnapshot(t, w)
	assert.Equal(t, "http://example.test/start", snap.URL)
	assert.Equal(t, types.Generation(1), snap.Generation)
}

func TestNavigateErrors(t *testing.T) {
	router := setupRouter(t)
	tabID := openTab(t, router)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"unknown tab", "/tabs/" + string(id.NewTabID()) + "/navigate", `{"url":"example.test"}`, http.StatusNotFound},
		{"malformed tab id", "/tabs/not-a-tab/navigate", `{"url":"example.test"}`, http.StatusBadRequest},
		{"missing url", "/tabs/" + string(tabID) + "/navigate", `{}`, http.StatusBadRequest},
		{"blank url", "/tabs/" + string(tabID) + "/navigate", `{"url":"   "}`, http.StatusBadRequest},
		{"bad json", "/tabs/" + string(tabID) + "/navigate", `{"url":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestStopAndReload(t *testing.T) {
	router := setupRouter(t)
	tabID := openTab(t, router)

	w := do(router, http.MethodPost, "/tabs/"+string(tabID)+"/reload", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(router, http.MethodPost, "/tabs/"+string(tabID)+"/stop", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPost, "/tabs/"+string(tabID)+"/navigate", `{"url":"http://example.test"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = do(router, http.MethodPost, "/tabs/"+string(tabID)+"/reload", "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, types.Generation(2), decodeSnapshot(t, w).Generation)

	w = do(router, http.MethodPost, "/tabs/"+string(id.NewTabID())+"/stop", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCloseTab(t *testing.T) {
	router := setupRouter(t)
	tabID := openTab(t, router)

	w := do(router, http.MethodDelete, "/tabs/"+string(tabID), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodDelete, "/tabs/"+string(tabID), "")
	assert.Equal(t, http.StatusOK, w.Code, "closing twice succeeds")

	w = do(router, http.MethodGet, "/tabs/"+string(tabID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := setupRouter(t)
	openTab(t, router)

	w := do(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.EqualValues(t, 1, health["tabs"])
	assert.Contains(t, health, "metrics")
	assert.Equal(t, map[string]any{"example.test": "closed"}, health["circuit_breakers"])

	w = do(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "asterix_tabs_open 1")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(navigation.ErrTabNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusFor(navigation.ErrInvalidURL))
	assert.Equal(t, http.StatusConflict, StatusFor(navigation.ErrNothingToReload))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(navigation.ErrShutdown))
	assert.Equal(t, http.StatusGatewayTimeout, StatusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(navigation.ErrInternal))
}

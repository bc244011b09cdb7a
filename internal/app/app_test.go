package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/asterix/internal/infrastructure/config"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/transport"
)

func TestNewWithDefaults(t *testing.T) {
	a, err := New(nil, nil, Options{})
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.NotNil(t, a.Transport)
	assert.NotNil(t, a.Runtime)
	assert.Equal(t, config.Default(), a.Config)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Browser.MaxInFlight = 0

	_, err := New(cfg, nil, Options{})
	assert.Error(t, err)
}

func TestCoreLoadsThroughTransport(t *testing.T) {
	tr := transport.Func(func(_ context.Context, url string) (*transport.Response, error) {
		return &transport.Response{
			URL:        url,
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"text/plain"}},
			Body:       []byte("assembled"),
		}, nil
	})

	a, err := New(config.Default(), nil, Options{Transport: tr})
	require.NoError(t, err)
	defer a.Close(context.Background())
	assert.Nil(t, a.Transport)

	ctx := context.Background()
	res, err := a.Runtime.Submit(ctx, types.OpenTab())
	require.NoError(t, err)
	_, err = a.Runtime.Submit(ctx, types.Navigate(res.Tab, "http://example.test"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, err := a.Runtime.Snapshot(res.Tab)
		return err == nil && snap.LastResponse != nil && snap.LastResponse.BodyText() == "assembled"
	}, 2*time.Second, 10*time.Millisecond)

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "asterix_tabs_open")
	assert.Contains(t, names, "go_goroutines")
}

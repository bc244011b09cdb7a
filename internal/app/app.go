package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/asterix/internal/document"
	"github.com/GriffinCanCode/asterix/internal/domain/events"
	"github.com/GriffinCanCode/asterix/internal/domain/navigation"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/config"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/logging"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/asterix/internal/transport"
)

// App is one running browser core with its transport and metrics
type App struct {
	Config    *config.Config
	Runtime   *navigation.Runtime
	Transport *transport.Client
	Metrics   *monitoring.Metrics
	Registry  *prometheus.Registry
	Logger    *logging.Logger
}

// Options overrides parts of the default assembly
type Options struct {
	// Transport replaces the network client, mainly in tests
	Transport transport.Transport
	// Extractor replaces the default text extractor
	Extractor document.Extractor
}

// New assembles the core: transport, document pipeline, orchestrator and
// command runtime
func New(cfg *config.Config, log *logging.Logger, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(reg)

	a := &App{
		Config:   cfg,
		Metrics:  metrics,
		Registry: reg,
		Logger:   log,
	}

	tr := opts.Transport
	if tr == nil {
		client, err := transport.NewClient(cfg.Transport, log)
		if err != nil {
			return nil, fmt.Errorf("create transport: %w", err)
		}
		a.Transport = client
		tr = client
	}

	pipeline := document.NewPipeline(tr, document.Options{
		Logger:    log,
		Extractor: opts.Extractor,
	})

	navOpts := navigation.OptionsFromConfig(cfg.Browser)
	navOpts.Logger = log
	navOpts.Metrics = metrics
	core := navigation.New(pipeline, events.NewBus(), navOpts)

	a.Runtime = navigation.NewRuntime(core, 0)

	log.Info("Browser core ready",
		zap.Int("max_inflight", cfg.Browser.MaxInFlight),
		zap.Duration("fetch_timeout", cfg.Browser.FetchTimeout))
	return a, nil
}

// Close stops accepting commands, cancels every fetch and waits for them
// within ctx
func (a *App) Close(ctx context.Context) error {
	return a.Runtime.Close(ctx)
}

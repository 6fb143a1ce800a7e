// Command admesh runs the ad operations mesh: it wires the configured
// message log, model provider and connectors into a Mesh, schedules the
// recurring workflow pipelines, and serves the HTTP API until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/admesh-io/admesh"
	"github.com/admesh-io/admesh/agent"
	"github.com/admesh-io/admesh/config"
	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
	"github.com/admesh-io/admesh/messagelog"
	"github.com/admesh-io/admesh/messagelog/sqlite"
	"github.com/admesh-io/admesh/model"
	"github.com/admesh-io/admesh/model/anthropic"
	"github.com/admesh-io/admesh/model/openai"
	"github.com/admesh-io/admesh/registry"
	"github.com/admesh-io/admesh/server"
	"github.com/admesh-io/admesh/workflow"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "admesh:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logCfg := logging.DefaultLoggerConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Format = cfg.Logging.Format
	logger := logging.NewLogger(logCfg)

	log, closeLog, err := buildMessageLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	mdl, err := buildModel(cfg)
	if err != nil {
		return err
	}

	mesh, err := admesh.New(func(o *admesh.Options) {
		o.MessageLog = log
		o.Model = mdl
		o.RouteFn = agent.KeywordRouteFn(cfg.Router.DefaultAgent)
		o.MaxMessages = cfg.Router.MaxMessages
		o.Logger = logger.WithComponent("mesh")
	})
	if err != nil {
		return err
	}

	scheduler, err := buildScheduler(cfg, mesh.Registry(), logger.WithComponent("scheduler"))
	if err != nil {
		return err
	}
	if scheduler != nil {
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	srv := server.New(mesh.Router(), mesh.Registry(), mesh.Bus(), func(o *server.Options) {
		o.Addr = cfg.Server.Addr
		o.Logger = logger.WithComponent("server").WithContext("addr", cfg.Server.Addr)
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func buildMessageLog(cfg *config.Config) (core.MessageLog, func(), error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		log, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return log, func() { _ = log.Close() }, nil
	default:
		return messagelog.NewInMemoryLog(), func() {}, nil
	}
}

func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Model.Provider {
	case "":
		return nil, nil
	case "mock":
		return model.NewMockModel(cfg.Model.Name), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
			o.APIKey = cfg.Model.APIKey
		}), nil
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
			o.APIKey = cfg.Model.APIKey
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

func buildScheduler(cfg *config.Config, reg *registry.Registry, logger logging.Logger) (*workflow.Scheduler, error) {
	if len(cfg.Schedules) == 0 {
		return nil, nil
	}

	analyst := reg.Get(agent.AnalystID)
	trader := reg.Get(agent.TraderID)
	creativeOps := reg.Get(agent.CreativeOpsID)
	compliance := reg.Get(agent.ComplianceID)
	planner := reg.Get(agent.MediaPlannerID)

	pipelineOpts := func(o *workflow.PipelineOptions) { o.Logger = logger }
	pipelines := map[string]*workflow.Pipeline{
		"campaign-launch": workflow.NewCampaignLaunchPipeline(compliance, planner, pipelineOpts),
		"pacing-check":    workflow.NewPacingCheckPipeline(analyst, trader, pipelineOpts),
		"optimization":    workflow.NewOptimizationPipeline(analyst, creativeOps, trader, pipelineOpts),
	}

	scheduler := workflow.NewScheduler(func(o *workflow.SchedulerOptions) { o.Logger = logger })
	for _, s := range cfg.Schedules {
		p, ok := pipelines[s.Pipeline]
		if !ok {
			return nil, fmt.Errorf("unknown pipeline %q in schedules", s.Pipeline)
		}
		if err := scheduler.Schedule(s.Spec, p, nil); err != nil {
			return nil, err
		}
	}
	return scheduler, nil
}

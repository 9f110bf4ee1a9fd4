package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"culturescan-server-go/internal/core/gemini"
	platformconfig "culturescan-server-go/internal/platform/config"
	platformerrors "culturescan-server-go/internal/platform/errors"
	platformlogging "culturescan-server-go/internal/platform/logging"
	httptransport "culturescan-server-go/internal/transport/http"
	httppredict "culturescan-server-go/internal/transport/http/predict"
)

const shutdownTimeout = 5 * time.Second

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
	client     *gemini.Client
}

// Run executes the whole service lifecycle: load configuration, initialise
// dependencies, serve HTTP and shut down gracefully on SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}
	if state.client == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"vision client not initialised",
		)
	}

	logger.InfoTag("Bootstrap", "configuration loaded (source=%s)", configOrigin(state.configPath))
	logger.InfoTag("Bootstrap", "upstream model: %s", config.Gemini.ModelName)

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("Bootstrap", "service stopped cleanly")
	logger.Close()
	return nil
}

// InitGraph declares the ordered initialisation steps and their dependencies.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "gemini:init-client",
			Title:     "Initialise vision client",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initGeminiStep,
		},
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if stderrors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().Load()
	if err != nil {
		return err
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(platformerrors.KindBootstrap, "logging:init", "config not loaded")
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init", "failed to initialise logging", err)
	}
	state.logger = logger
	return nil
}

func initGeminiStep(_ context.Context, state *appState) error {
	client, err := gemini.NewClient(state.config.Gemini, state.logger)
	if err != nil {
		return err
	}
	state.client = client
	return nil
}

func startHTTPServer(state *appState, group *errgroup.Group, ctx context.Context) error {
	router, err := httptransport.Build(httptransport.Options{
		Config: state.config,
		Logger: state.logger,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "http:build-router", "failed to build router", err)
	}

	service, err := httppredict.NewService(state.config, state.logger, state.client)
	if err != nil {
		return err
	}
	if err := service.Register(ctx, router.Engine); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", state.config.Server.IP, state.config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router.Engine,
	}

	logger := state.logger
	group.Go(func() error {
		logger.InfoTag("HTTP", "listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return platformerrors.Wrap(platformerrors.KindBootstrap, "http:serve", "http server failed", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WarnTag("HTTP", "server did not shut down cleanly: %v", err)
		}
		return nil
	})

	return nil
}

func waitForShutdown(signalCtx context.Context, cancel context.CancelFunc, logger *platformlogging.Logger, group *errgroup.Group) error {
	<-signalCtx.Done()
	logger.InfoTag("Bootstrap", "shutdown signal received")
	cancel()

	if err := group.Wait(); err != nil {
		return err
	}
	return nil
}

func configOrigin(path string) string {
	if path == "" {
		return "environment"
	}
	return path
}

package main

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/adapters"
	"github.com/agenticpal/agenticpal/internal/checkpoint"
	"github.com/agenticpal/agenticpal/internal/dates"
	"github.com/agenticpal/agenticpal/internal/eventbus"
	"github.com/agenticpal/agenticpal/internal/executor"
	"github.com/agenticpal/agenticpal/internal/history"
	"github.com/agenticpal/agenticpal/internal/planner"
	"github.com/agenticpal/agenticpal/internal/services"
	"github.com/agenticpal/agenticpal/internal/synthesizer"
	"github.com/agenticpal/agenticpal/internal/tools"
)

// runtime bundles what the commands need after wiring.
type runtime struct {
	agent   *agenticpal.Agent
	history history.Store
	bus     eventbus.EventBus
}

// buildRuntime wires the full agent: model adapter, tool catalog and
// bindings, planner, synthesizer, executors, and the checkpoint and history
// stores selected by configuration.
func buildRuntime(ctx context.Context, cfg appConfig) (*runtime, error) {
	g, err := genkit.Init(ctx,
		genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: cfg.GeminiAPIKey}),
		genkit.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize genkit: %w", err)
	}
	model := adapters.NewGenkitModel(g)

	resolver, err := dates.NewResolver(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	defs := tools.DefaultDefinitions()
	if cfg.ToolManifest != "" {
		manifest, err := tools.LoadManifest(cfg.ToolManifest)
		if err != nil {
			return nil, err
		}
		if defs, err = tools.ApplyManifest(defs, manifest); err != nil {
			return nil, err
		}
	}
	catalog, err := tools.NewCatalog(defs)
	if err != nil {
		return nil, err
	}

	bindings := tools.NewProductivityBindings(
		services.NewMemoryCalendar(),
		services.NewMemoryTasks(),
		services.NewMemoryMail(),
		resolver,
	)
	invoker, err := tools.NewInvoker(catalog, bindings)
	if err != nil {
		return nil, err
	}
	newFacade := func() *tools.Facade {
		return tools.NewFacade(catalog, invoker)
	}

	var plnr agenticpal.Planner
	switch cfg.PlannerStrategy {
	case "structured":
		plnr = planner.NewStructured(model, newFacade)
	case "loop":
		plnr = planner.NewLoop(model, newFacade)
	default:
		return nil, agenticpal.NewConfigurationError(
			fmt.Sprintf("unknown planner strategy '%s'", cfg.PlannerStrategy), nil)
	}

	bus := eventbus.NewChannelEventBus()

	var (
		ckpt agenticpal.Checkpointer
		hist history.Store
	)
	switch cfg.CheckpointBackend {
	case "redis":
		client, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, err
		}
		ckpt = checkpoint.NewRedis(client, cfg.CheckpointTTL)
		hist = history.NewRedis(client, cfg.HistoryMaxTurns, 0)
	case "file":
		ckpt = checkpoint.NewFile(cfg.CheckpointTTL, cfg.CheckpointFile)
		hist = history.NewMemory(cfg.HistoryMaxTurns)
	case "memory":
		ckpt = checkpoint.NewMemory(cfg.CheckpointTTL)
		hist = history.NewMemory(cfg.HistoryMaxTurns)
	default:
		return nil, agenticpal.NewConfigurationError(
			fmt.Sprintf("unknown checkpoint backend '%s'", cfg.CheckpointBackend), nil)
	}

	agent, err := agenticpal.New(
		agenticpal.WithPlanner(plnr),
		agenticpal.WithSynthesizer(synthesizer.New(model)),
		agenticpal.WithParallelExecutor(executor.NewParallel(invoker.Invoke, executor.WithEventBus(bus))),
		agenticpal.WithSequentialExecutor(executor.NewSequential(invoker.Invoke, executor.WithEventBus(bus))),
		agenticpal.WithCheckpointer(ckpt),
		agenticpal.WithDestructiveLabeler(catalog.ItemLabel),
		agenticpal.WithEventBus(bus),
	)
	if err != nil {
		return nil, err
	}

	return &runtime{agent: agent, history: hist, bus: bus}, nil
}

func (r *runtime) Close() error {
	return r.bus.Close()
}

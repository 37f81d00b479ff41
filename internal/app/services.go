package app

import (
	"gorm.io/gorm"

	redisclient "github.com/pathforge/taskpipe-backend/internal/clients/redis"
	"github.com/pathforge/taskpipe-backend/internal/enrich"
	"github.com/pathforge/taskpipe-backend/internal/generation/atomic"
	"github.com/pathforge/taskpipe-backend/internal/generation/custom"
	"github.com/pathforge/taskpipe-backend/internal/generation/templates"
	"github.com/pathforge/taskpipe-backend/internal/generation/unique"
	"github.com/pathforge/taskpipe-backend/internal/pipeline"
	"github.com/pathforge/taskpipe-backend/internal/platform/envutil"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/platform/openai"
	"github.com/pathforge/taskpipe-backend/internal/quality"
	"github.com/pathforge/taskpipe-backend/internal/research"
)

type Services struct {
	OpenAI       openai.Client
	TaskCache    redisclient.TaskCache
	Orchestrator *pipeline.Orchestrator
	Research     *research.Agent
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	llm, err := openai.NewClient(log)
	if err != nil {
		return Services{}, err
	}

	// The redis layer is an optimization in front of the durable cache table;
	// the pipeline runs without it.
	taskCache, err := redisclient.NewTaskCache(log)
	if err != nil {
		log.Warn("redis task cache unavailable, using durable cache only", "error", err)
		taskCache = nil
	}

	registry := templates.NewRegistry(log)
	if path := envutil.Get("TASK_TEMPLATES_PATH", "", log); path != "" {
		if lErr := registry.LoadYAML(path); lErr != nil {
			log.Warn("template file not loaded, using built-ins", "path", path, "error", lErr)
		}
	}

	orchestrator := pipeline.NewOrchestrator(pipeline.Deps{
		TemplateGen: templates.NewGenerator(registry, log),
		Enhancer:    templates.NewEnhancer(llm, log),
		CustomGen:   custom.NewGenerator(log),
		AtomicGen:   atomic.NewGenerator(llm, log),
		UniqueGen:   unique.NewGenerator(llm, taskCache, reposet.TaskCache, log),
		StoryExt:    unique.NewStoryExtractor(llm, log),
		Enricher:    enrich.NewEnricher(log),
		Verifier:    quality.NewVerifier(llm, log),
		TaskRepo:    reposet.Task,
		RunRepo:     reposet.Run,
	}, log)

	researchAgent := research.NewAgent(llm, research.NewStaticSearcher(log), log)

	return Services{
		OpenAI:       llm,
		TaskCache:    taskCache,
		Orchestrator: orchestrator,
		Research:     researchAgent,
	}, nil
}

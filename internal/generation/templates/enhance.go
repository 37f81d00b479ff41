package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/platform/openai"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Enhancer optionally sharpens rendered template titles with one LLM call.
// Strictly best-effort: any failure returns the input unchanged.
type Enhancer struct {
	log *logger.Logger
	llm openai.Client
}

func NewEnhancer(llm openai.Client, log *logger.Logger) *Enhancer {
	return &Enhancer{
		log: log.With("service", "TemplateEnhancer"),
		llm: llm,
	}
}

var enhanceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"titles": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"titles"},
	"additionalProperties": false,
}

func (e *Enhancer) Enhance(ctx context.Context, pctx *profile.Context, tasks []types.Task) []types.Task {
	if e.llm == nil || len(tasks) == 0 {
		return tasks
	}

	var sb strings.Builder
	for i, t := range tasks {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, t.Title)
	}

	system := "You sharpen action-plan task titles. Keep each title specific, under 120 characters, starting with a verb. Return the same number of titles in the same order."
	user := fmt.Sprintf("User field: %s. Background: %s.\nTitles:\n%s", pctx.Field, pctx.Background, sb.String())

	obj, err := e.llm.GenerateJSON(ctx, system, user, "enhanced_titles", enhanceSchema)
	if err != nil {
		e.log.Warn("title enhancement failed, keeping originals", "error", err)
		return tasks
	}

	raw, err := json.Marshal(obj["titles"])
	if err != nil {
		return tasks
	}
	var titles []string
	if err := json.Unmarshal(raw, &titles); err != nil || len(titles) != len(tasks) {
		e.log.Warn("title enhancement returned wrong shape, keeping originals",
			"got", len(titles), "want", len(tasks))
		return tasks
	}

	out := make([]types.Task, len(tasks))
	copy(out, tasks)
	for i, title := range titles {
		title = strings.TrimSpace(title)
		if len(title) >= 10 && len(title) <= 150 {
			out[i].Title = title
		}
	}
	return out
}

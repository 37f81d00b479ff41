package unique

import (
	"context"
	"fmt"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/platform/openai"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// StoryExtractor converts raw profile facts into five 1-2 sentence stories
// so downstream prompts can reference concrete specifics. One LLM call; on
// any failure it falls back to deterministic stories built from the context.
type StoryExtractor struct {
	log *logger.Logger
	llm openai.Client
}

func NewStoryExtractor(llm openai.Client, log *logger.Logger) *StoryExtractor {
	return &StoryExtractor{
		log: log.With("service", "StoryExtractor"),
		llm: llm,
	}
}

var storySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"work_story":        map[string]any{"type": "string"},
		"achievement_story": map[string]any{"type": "string"},
		"network_story":     map[string]any{"type": "string"},
		"challenge_story":   map[string]any{"type": "string"},
		"aspiration_story":  map[string]any{"type": "string"},
	},
	"required": []string{
		"work_story", "achievement_story", "network_story",
		"challenge_story", "aspiration_story",
	},
	"additionalProperties": false,
}

func (e *StoryExtractor) Extract(ctx context.Context, pctx *profile.Context) types.UserStories {
	if e.llm == nil {
		return DefaultStories(pctx)
	}

	system := "You turn profile facts into five 1-2 sentence stories: work, achievement, network, challenge, aspiration. Each story must name something concrete from the facts; never invent details."
	user := fmt.Sprintf(
		"Background: %s\nCurrent role: %s\nField: %s\nStartup: %s\nFounder: %t\nGPA compensation needed: %t\nGoal category: %s",
		pctx.Background, pctx.CurrentRole, pctx.Field, pctx.StartupName,
		pctx.HasStartupBackground, pctx.GPANeedsCompensation, string(pctx.Category),
	)

	obj, err := e.llm.GenerateJSON(ctx, system, user, "user_stories", storySchema)
	if err != nil {
		e.log.Warn("story extraction failed, using defaults", "error", err)
		return DefaultStories(pctx)
	}

	stories := types.UserStories{
		Work:        str(obj, "work_story"),
		Achievement: str(obj, "achievement_story"),
		Network:     str(obj, "network_story"),
		Challenge:   str(obj, "challenge_story"),
		Aspiration:  str(obj, "aspiration_story"),
	}
	if stories.Empty() {
		return DefaultStories(pctx)
	}
	return stories
}

// DefaultStories builds deterministic stories straight from context fields.
func DefaultStories(pctx *profile.Context) types.UserStories {
	s := types.UserStories{}

	role := pctx.CurrentRole
	if role == "" {
		role = pctx.Background
	}
	if role != "" {
		s.Work = fmt.Sprintf("Currently working as %s.", role)
	}
	if pctx.StartupName != "" {
		s.Work = fmt.Sprintf("Founded and runs %s.", pctx.StartupName)
		s.Achievement = fmt.Sprintf("Built %s from nothing, which anchors every application narrative.", pctx.StartupName)
	} else if pctx.HasNotableAchievements {
		s.Achievement = "Has notable achievements worth leading with in applications."
	}
	if pctx.GPANeedsCompensation {
		s.Challenge = "GPA is below typical cutoffs and needs compensating evidence."
	}
	if pctx.Field != "" {
		s.Aspiration = fmt.Sprintf("Aims to move into %s", pctx.Field)
		if pctx.TargetRole != "" {
			s.Aspiration += fmt.Sprintf(" as a %s", pctx.TargetRole)
		}
		s.Aspiration += "."
	}
	return s
}

func str(obj map[string]any, key string) string {
	v, _ := obj[key].(string)
	return strings.TrimSpace(v)
}

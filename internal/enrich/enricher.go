package enrich

import (
	"fmt"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/profile"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Enricher replaces generic references in tasks with concrete resources from
// the static tables. Strictly additive: a task with no intent match or no
// table entry passes through untouched.
type Enricher struct {
	log *logger.Logger
}

func NewEnricher(log *logger.Logger) *Enricher {
	return &Enricher{log: log.With("service", "TaskEnricher")}
}

func (e *Enricher) EnrichAll(pctx *profile.Context, tasks []types.Task) []types.Task {
	out := make([]types.Task, len(tasks))
	copy(out, tasks)
	enriched := 0
	for i := range out {
		if e.enrich(&out[i], pctx) {
			enriched++
		}
	}
	e.log.Info("enrichment pass complete", "tasks", len(out), "enriched", enriched)
	return out
}

func (e *Enricher) enrich(task *types.Task, pctx *profile.Context) bool {
	switch classify(task) {
	case intentUniversityResearch:
		return enrichUniversity(task, pctx)
	case intentProfessorContact:
		return enrichProfessor(task, pctx)
	case intentJobApplication, intentCompanyResearch:
		return enrichCompany(task)
	case intentDeadlineCheck:
		return enrichDeadline(task, pctx)
	case intentEventResearch, intentNone:
		return false
	default:
		return false
	}
}

func classify(task *types.Task) intent {
	text := task.SearchText()
	for _, set := range intentKeywords {
		for _, kw := range set.Keywords {
			if strings.Contains(text, kw) {
				return set.Intent
			}
		}
	}
	return intentNone
}

func enrichUniversity(task *types.Task, pctx *profile.Context) bool {
	_, url := matchUniversity(task, pctx)
	if url == "" {
		return false
	}
	task.SpecificResource = url
	if !strings.Contains(strings.ToLower(task.Description), url) {
		task.Description = appendSentence(task.Description,
			fmt.Sprintf("Start from the official admissions page: %s", url))
	}
	task.Enriched = true
	return true
}

func enrichProfessor(task *types.Task, pctx *profile.Context) bool {
	uni, _ := matchUniversity(task, pctx)
	contacts, ok := facultyExamples[uni]
	if !ok || len(contacts) == 0 {
		return false
	}
	task.Description = appendSentence(task.Description,
		fmt.Sprintf("Example contacts: %s.", strings.Join(contacts, "; ")))
	task.Enriched = true
	return true
}

func enrichCompany(task *types.Task) bool {
	text := task.SearchText()
	for name, url := range companyCareersURLs {
		if strings.Contains(text, name) {
			task.SpecificResource = url
			task.Enriched = true
			return true
		}
	}
	return false
}

func enrichDeadline(task *types.Task, pctx *profile.Context) bool {
	uni, url := matchUniversity(task, pctx)
	if uni == "" || url == "" {
		return false
	}
	task.SpecificResource = url
	task.Description = appendSentence(task.Description,
		fmt.Sprintf("Deadlines are listed at %s.", url))
	task.Enriched = true
	return true
}

// matchUniversity finds a known university referenced by the task text or,
// failing that, the user's first target university.
func matchUniversity(task *types.Task, pctx *profile.Context) (string, string) {
	text := task.SearchText()
	for name, url := range universityAdmissionsURLs {
		if strings.Contains(text, name) {
			return name, url
		}
	}
	if pctx != nil {
		for _, target := range pctx.TargetUniversities {
			key := strings.ToLower(strings.TrimSpace(target))
			if url, ok := universityAdmissionsURLs[key]; ok {
				return key, url
			}
		}
	}
	return "", ""
}

func appendSentence(description, sentence string) string {
	if strings.TrimSpace(description) == "" {
		return sentence
	}
	return strings.TrimRight(description, " ") + " " + sentence
}

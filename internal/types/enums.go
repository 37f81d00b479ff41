package types

import "fmt"

// GoalCategory is fixed at goal creation and never changes afterward.
type GoalCategory string

const (
	CategoryStudy   GoalCategory = "study"
	CategoryCareer  GoalCategory = "career"
	CategorySport   GoalCategory = "sport"
	CategoryFinance GoalCategory = "finance"
)

func ParseGoalCategory(s string) (GoalCategory, error) {
	switch GoalCategory(s) {
	case CategoryStudy, CategoryCareer, CategorySport, CategoryFinance:
		return GoalCategory(s), nil
	default:
		return "", fmt.Errorf("unknown goal category %q", s)
	}
}

// TaskType says how much of the task the system can do for the user.
type TaskType string

const (
	TaskTypeAuto    TaskType = "auto"
	TaskTypeCopilot TaskType = "copilot"
	TaskTypeManual  TaskType = "manual"
)

func ParseTaskType(s string) (TaskType, error) {
	switch TaskType(s) {
	case TaskTypeAuto, TaskTypeCopilot, TaskTypeManual:
		return TaskType(s), nil
	default:
		return "", fmt.Errorf("unknown task type %q", s)
	}
}

type DeliverableType string

const (
	DeliverableSpreadsheet DeliverableType = "spreadsheet"
	DeliverableDoc         DeliverableType = "doc"
	DeliverableEmail       DeliverableType = "email"
	DeliverableRecording   DeliverableType = "recording"
	DeliverableLink        DeliverableType = "link"
	DeliverableShortlist   DeliverableType = "shortlist"
	DeliverableFile        DeliverableType = "file"
	DeliverableNote        DeliverableType = "note"
	DeliverableOther       DeliverableType = "other"
)

func ParseDeliverableType(s string) (DeliverableType, error) {
	switch DeliverableType(s) {
	case DeliverableSpreadsheet, DeliverableDoc, DeliverableEmail, DeliverableRecording,
		DeliverableLink, DeliverableShortlist, DeliverableFile, DeliverableNote, DeliverableOther:
		return DeliverableType(s), nil
	default:
		return "", fmt.Errorf("unknown deliverable type %q", s)
	}
}

// TaskSource identifies which generator produced a task. It is stamped at
// creation and never rewritten; dedup and scoring both key off it.
type TaskSource string

const (
	SourceTemplateAgent   TaskSource = "template_agent"
	SourceCustomGenerator TaskSource = "custom_generator"
	SourceUniqueGenerator TaskSource = "unique_generator"
	SourceAtomicGenerator TaskSource = "atomic_task_generator"
	SourceResearchAgent   TaskSource = "research_agent"
)

// SourceRank orders generators for dedup tie-breaks: lower rank wins.
func SourceRank(s TaskSource) int {
	switch s {
	case SourceTemplateAgent:
		return 0
	case SourceCustomGenerator:
		return 1
	case SourceAtomicGenerator:
		return 2
	case SourceResearchAgent:
		return 3
	case SourceUniqueGenerator:
		return 4
	default:
		return 5
	}
}

type BudgetTier string

const (
	BudgetTierBudget   BudgetTier = "BUDGET"
	BudgetTierStandard BudgetTier = "STANDARD"
	BudgetTierPremium  BudgetTier = "PREMIUM"
)

type CoverageTier string

const (
	CoverageWellCovered      CoverageTier = "well_covered"
	CoveragePartiallyCovered CoverageTier = "partially_covered"
	CoverageUncovered        CoverageTier = "uncovered"
)

// Strategy is the generation route recommended by the coverage detector.
type Strategy string

const (
	StrategyTemplates Strategy = "templates"
	StrategyHybrid    Strategy = "hybrid"
	StrategyFullLLM   Strategy = "full_llm"
)

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry_level"
	ExperienceMid    ExperienceLevel = "mid_level"
	ExperienceSenior ExperienceLevel = "senior"
)

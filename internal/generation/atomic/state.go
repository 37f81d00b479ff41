package atomic

// State tracks the two-tier generation run. Transitions are linear with a
// terminal Failed reachable from any step on mostly-broken LLM output.
type State int

const (
	StateStart State = iota
	StateMilestonesRequested
	StateMilestonesReceived
	StatePerMilestoneExpansion
	StateAtomicTasksCollected
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateMilestonesRequested:
		return "milestones_requested"
	case StateMilestonesReceived:
		return "milestones_received"
	case StatePerMilestoneExpansion:
		return "per_milestone_expansion"
	case StateAtomicTasksCollected:
		return "atomic_tasks_collected"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run has finished, successfully or not.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

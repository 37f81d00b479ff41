package scenario

// coveredBackgrounds are the background labels the template library was
// authored against.
var coveredBackgrounds = map[string]bool{
	"founder":    true,
	"engineer":   true,
	"researcher": true,
	"student":    true,
}

// coveredFields are matched as whole tokens for single words and as phrase
// containment for multi-word entries.
var coveredFields = []string{
	"computer science",
	"data science",
	"machine learning",
	"artificial intelligence",
	"ai",
	"engineering",
	"business",
	"finance",
}

// edgeCasePairs are (background, field keyword) combinations that look
// covered on the surface but need bespoke treatment; they carry a -30
// penalty so the orchestrator routes them away from pure templates.
var edgeCasePairs = []struct {
	Background   string
	FieldKeyword string
}{
	{"designer", "hci"},
	{"designer", "human-computer interaction"},
	{"nurse", "ai"},
	{"nurse", "medical"},
	{"lawyer", "bioethics"},
	{"lawyer", "biotech"},
}

package quality

// Keyword tables for the rule-based checks. Kept as data so they can be
// tested and extended without touching control flow.

var actionVerbs = map[string]bool{
	"write": true, "draft": true, "email": true, "send": true, "apply": true,
	"research": true, "schedule": true, "book": true, "build": true,
	"create": true, "list": true, "compare": true, "compile": true,
	"review": true, "rewrite": true, "update": true, "tailor": true,
	"outline": true, "submit": true, "register": true, "record": true,
	"complete": true, "practice": true, "drill": true, "gather": true,
	"collect": true, "assemble": true, "quantify": true, "add": true,
	"run": true, "set": true, "ask": true, "contact": true, "call": true,
	"read": true, "bookmark": true, "upload": true, "download": true,
	"prepare": true, "fill": true, "pay": true, "request": true,
}

var weakVerbs = map[string]bool{
	"think": true, "consider": true, "explore": true, "maybe": true,
	"try": true, "ponder": true, "reflect": true, "brainstorm": true,
}

// vaguePhrases fail the specificity check wherever they appear in a title.
var vaguePhrases = []string{
	"research some",
	"prepare for",
	"think about",
	"look into",
	"explore options",
	"figure out",
	"get familiar",
}

// genericPhrases fail the not-generic check in title or description.
var genericPhrases = []string{
	"your university",
	"your dream school",
	"a good company",
	"some companies",
	"various options",
	"[insert",
	"todo:",
	"tbd",
}

// placeholderWhitelist are bracketed fragments that are legitimate content,
// not unfilled placeholders.
var placeholderWhitelist = []string{
	"[part 1]",
	"[part 2]",
	"[optional]",
}

// metaTaskPhrases mark multi-step planning language that disqualifies a task
// from being atomic.
var metaTaskPhrases = []string{
	"develop a plan",
	"develop plan",
	"create a strategy",
	"research and",
	"plan and",
	"prepare for",
	"work on",
	"get started",
	"begin to",
	"familiarize yourself",
	"and then",
}

// deliverableSignals are words indicating the task names a concrete output.
var deliverableSignals = []string{
	"spreadsheet", "document", "doc", "email", "list", "shortlist",
	"draft", "paragraph", "outline", "recording", "tracker", "checklist",
	"notes", "entry", "profile", "application", "sheet", "page",
}

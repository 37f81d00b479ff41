package templates

import (
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/types"
)

// dodFamilies maps a template-id keyword to its weighted definition-of-done.
// First matching family wins, in declaration order. Weights per family sum
// to 100.
var dodFamilies = []struct {
	Keyword string
	Items   []types.DoDItem
}{
	{Keyword: "research", Items: []types.DoDItem{
		{Text: "All entries collected with source links", Weight: 40},
		{Text: "Comparison criteria filled in for each entry", Weight: 30},
		{Text: "Spreadsheet saved and shareable", Weight: 30},
	}},
	{Keyword: "sop", Items: []types.DoDItem{
		{Text: "Structure follows the outline", Weight: 30},
		{Text: "Draft complete with no placeholder gaps", Weight: 50},
		{Text: "Read aloud once and rough edges marked", Weight: 20},
	}},
	{Keyword: "resume", Items: []types.DoDItem{
		{Text: "Every bullet starts with an action verb", Weight: 35},
		{Text: "Keywords from the target posting included", Weight: 40},
		{Text: "Exported as PDF under 2 pages", Weight: 25},
	}},
	{Keyword: "email", Items: []types.DoDItem{
		{Text: "Message drafted and personalized", Weight: 40},
		{Text: "Message sent", Weight: 40},
		{Text: "Follow-up reminder scheduled", Weight: 20},
	}},
	{Keyword: "linkedin", Items: []types.DoDItem{
		{Text: "New copy written and reviewed", Weight: 50},
		{Text: "Profile updated live", Weight: 35},
		{Text: "One connection asked for feedback", Weight: 15},
	}},
	{Keyword: "exam", Items: []types.DoDItem{
		{Text: "Session completed without interruption", Weight: 50},
		{Text: "Score or progress recorded", Weight: 30},
		{Text: "Weak areas noted for the next session", Weight: 20},
	}},
	{Keyword: "interview", Items: []types.DoDItem{
		{Text: "Preparation material written down", Weight: 45},
		{Text: "Practiced out loud at least once", Weight: 35},
		{Text: "Improvement notes captured", Weight: 20},
	}},
}

var defaultDoD = []types.DoDItem{
	{Text: "Task output produced", Weight: 60},
	{Text: "Output stored where you can find it", Weight: 25},
	{Text: "Next step identified", Weight: 15},
}

// DoDFor derives the weighted definition of done from the template id.
func DoDFor(templateID string) []types.DoDItem {
	id := strings.ToLower(templateID)
	for _, fam := range dodFamilies {
		if strings.Contains(id, fam.Keyword) {
			return cloneDoD(fam.Items)
		}
	}
	return cloneDoD(defaultDoD)
}

func cloneDoD(items []types.DoDItem) []types.DoDItem {
	out := make([]types.DoDItem, len(items))
	copy(out, items)
	return out
}

// DeliverableFor infers the deliverable type from the template id.
func DeliverableFor(templateID string) types.DeliverableType {
	id := strings.ToLower(templateID)
	switch {
	case strings.Contains(id, "research") || strings.Contains(id, "list") || strings.Contains(id, "tracker"):
		return types.DeliverableSpreadsheet
	case strings.Contains(id, "sop") || strings.Contains(id, "resume") || strings.Contains(id, "essay"):
		return types.DeliverableDoc
	case strings.Contains(id, "email") || strings.Contains(id, "outreach") || strings.Contains(id, "network"):
		return types.DeliverableEmail
	case strings.Contains(id, "linkedin"):
		return types.DeliverableLink
	case strings.Contains(id, "application") || strings.Contains(id, "jobapp") || strings.Contains(id, "shortlist"):
		return types.DeliverableShortlist
	default:
		return types.DeliverableNote
	}
}

package profile

import "strings"

// backgroundKeywords classifies free-text work history into a background
// label. First matching set wins, in declaration order, so the stronger
// signals (founder) are checked before the broader ones (student).
var backgroundKeywords = []struct {
	Label    string
	Keywords []string
}{
	{Label: "founder", Keywords: []string{"founder", "co-founder", "cofounder", "startup", "ceo", "founded"}},
	{Label: "engineer", Keywords: []string{"engineer", "developer", "software", "programmer", "swe"}},
	{Label: "researcher", Keywords: []string{"research", "phd", "postdoc", "laboratory", "lab assistant", "publication"}},
	{Label: "designer", Keywords: []string{"designer", "ux", "ui design", "product design"}},
	{Label: "nurse", Keywords: []string{"nurse", "nursing", "rn "}},
	{Label: "lawyer", Keywords: []string{"lawyer", "attorney", "legal counsel", "paralegal"}},
	{Label: "student", Keywords: []string{"student", "undergraduate", "bachelor", "fresh graduate"}},
}

// InferBackground maps a profile to a background label. The founder flag
// short-circuits keyword matching; otherwise current role and work history
// are scanned in order.
func InferBackground(isFounder bool, currentRole, workHistory string) string {
	if isFounder {
		return "founder"
	}
	haystack := strings.ToLower(currentRole + " " + workHistory)
	for _, set := range backgroundKeywords {
		for _, kw := range set.Keywords {
			if strings.Contains(haystack, kw) {
				return set.Label
			}
		}
	}
	return "general"
}

package types

// UserStories are 1-2 sentence narratives extracted from raw profile facts so
// prompts and verification can reference concrete specifics instead of
// generic categories.
type UserStories struct {
	Work        string `json:"work_story"`
	Achievement string `json:"achievement_story"`
	Network     string `json:"network_story"`
	Challenge   string `json:"challenge_story"`
	Aspiration  string `json:"aspiration_story"`
}

func (s UserStories) Empty() bool {
	return s.Work == "" && s.Achievement == "" && s.Network == "" &&
		s.Challenge == "" && s.Aspiration == ""
}

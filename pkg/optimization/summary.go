// Package optimization provides shared data structures for goal-seek results.
package optimization

// Summary captures the result of a single goal-seek directive.
type Summary struct {
	Scope           string   `json:"scope"`
	TargetName      string   `json:"targetName"`
	Field           string   `json:"field"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	TargetNPV       float64  `json:"targetNPV"`
	AchievedNPV     float64  `json:"achievedNPV"`
	Gap             float64  `json:"gap"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}

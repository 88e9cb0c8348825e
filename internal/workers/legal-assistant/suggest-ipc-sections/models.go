package suggestipcsections

import "legal-workers/internal/legal/ipc"

type Input struct {
	Description string `json:"description"`
	CrimeType   string `json:"crimeType"`
}

type Output struct {
	Suggestions []ipc.Suggestion `json:"suggestions"`
	TopSections []string         `json:"topSections"`
}

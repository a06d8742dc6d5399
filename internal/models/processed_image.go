package models

type ProcessedImage struct {
	Source string `json:"source"`
	Output string `json:"output"`
	Text   string `json:"text,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (p ProcessedImage) Failed() bool {
	return p.Status == StatusFailed
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

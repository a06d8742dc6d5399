package models

type BatchSummary struct {
	RunID     string           `json:"run_id"`
	InputDir  string           `json:"input_dir"`
	OutputDir string           `json:"output_dir"`
	Results   []ProcessedImage `json:"results"`
}

// Processed counts every matching file that was attempted, failed or not.
func (s *BatchSummary) Processed() int {
	return len(s.Results)
}

func (s *BatchSummary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if !r.Failed() {
			n++
		}
	}
	return n
}

func (s *BatchSummary) Failed() int {
	return s.Processed() - s.Succeeded()
}

package pipeline

import "time"

// FileStatus represents the outcome for one input file.
type FileStatus string

const (
	StatusConverted FileStatus = "converted"
	StatusUnchanged FileStatus = "unchanged"
	StatusDryRun    FileStatus = "dry_run"
	StatusFailed    FileStatus = "failed"
)

// FileResult records what happened to one input file.
type FileResult struct {
	Path     string     `json:"path"`
	Status   FileStatus `json:"status"`
	Outputs  []string   `json:"outputs,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Report collects the results of one batch run.
type Report struct {
	Pipeline   string       `json:"pipeline"`
	Files      []FileResult `json:"files"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

func NewReport(pipeline string) *Report {
	return &Report{Pipeline: pipeline, StartedAt: time.Now()}
}

// Add records a file result.
func (r *Report) Add(res FileResult) {
	r.Files = append(r.Files, res)
}

func (r *Report) finish() {
	r.FinishedAt = time.Now()
}

// Summary counts results by status.
type Summary struct {
	Total     int `json:"total"`
	Converted int `json:"converted"`
	Unchanged int `json:"unchanged"`
	DryRun    int `json:"dry_run"`
	Failed    int `json:"failed"`
}

func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.Files)}
	for _, f := range r.Files {
		switch f.Status {
		case StatusConverted:
			s.Converted++
		case StatusUnchanged:
			s.Unchanged++
		case StatusDryRun:
			s.DryRun++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// Failed returns the results of files that could not be converted.
func (r *Report) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Status == StatusFailed {
			out = append(out, f)
		}
	}
	return out
}

package api

import "time"

type RunRecord struct {
	Period     string    `json:"period"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	File       string    `json:"file,omitempty"`
	Rows       int       `json:"rows"`
	Error      string    `json:"error,omitempty"`
}

type ScheduleStatus struct {
	Spec    string     `json:"spec"`
	NextRun time.Time  `json:"next_run"`
	LastRun *RunRecord `json:"last_run,omitempty"`
}

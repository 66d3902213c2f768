package webapi

import (
	"github.com/kernelbot/hypercorn/dataset"
	"github.com/kernelbot/hypercorn/internal/summary"
)

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// InfoResponse describes the served dataset.
type InfoResponse struct {
	Path    string   `json:"path"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// SampleResponse is a sampled batch of rows.
type SampleResponse struct {
	Count int           `json:"count"`
	Rows  []dataset.Row `json:"rows"`
}

// StatsResponse is the dataset profile.
type StatsResponse = summary.DatasetSummary

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

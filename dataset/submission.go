package dataset

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// RunMeta holds metadata about the execution of a submission.
type RunMeta struct {
	Command  *string  `parquet:"command,optional" mapstructure:"command" json:"command,omitempty"`
	Duration *float64 `parquet:"duration,optional" mapstructure:"duration" json:"duration,omitempty"`
	ExitCode *int64   `parquet:"exit_code,optional" mapstructure:"exit_code" json:"exit_code,omitempty"`
	Stderr   *string  `parquet:"stderr,optional" mapstructure:"stderr" json:"stderr,omitempty"`
	Stdout   *string  `parquet:"stdout,optional" mapstructure:"stdout" json:"stdout,omitempty"`
	Success  *bool    `parquet:"success,optional" mapstructure:"success" json:"success,omitempty"`
}

// RunSystemInfo describes the system a submission was executed on.
type RunSystemInfo struct {
	CPU         *string `parquet:"cpu,optional" mapstructure:"cpu" json:"cpu,omitempty"`
	GPU         *string `parquet:"gpu,optional" mapstructure:"gpu" json:"gpu,omitempty"`
	Platform    *string `parquet:"platform,optional" mapstructure:"platform" json:"platform,omitempty"`
	Torch       *string `parquet:"torch,optional" mapstructure:"torch" json:"torch,omitempty"`
	DeviceCount *int64  `parquet:"device_count,optional" mapstructure:"device_count" json:"device_count,omitempty"`
	Runtime     *string `parquet:"runtime,optional" mapstructure:"runtime" json:"runtime,omitempty"`
}

// Submission is the typed view of one competition dataset row. Required
// fields match the canonical submission dump schema; everything recorded
// during a leaderboard run is optional because historical dumps predate
// the run pipeline.
type Submission struct {
	SubmissionID   int64          `parquet:"submission_id" mapstructure:"submission_id" json:"submission_id"`
	LeaderboardID  int64          `parquet:"leaderboard_id" mapstructure:"leaderboard_id" json:"leaderboard_id"`
	UserID         int64          `parquet:"user_id" mapstructure:"user_id" json:"user_id"`
	SubmissionTime time.Time      `parquet:"submission_time,timestamp(microsecond)" mapstructure:"submission_time" json:"submission_time"`
	FileName       string         `parquet:"file_name" mapstructure:"file_name" json:"file_name"`
	Code           []byte         `parquet:"code" mapstructure:"code" json:"code"`
	CodeID         int64          `parquet:"code_id" mapstructure:"code_id" json:"code_id"`
	RunID          int64          `parquet:"run_id" mapstructure:"run_id" json:"run_id"`
	RunStartTime   *time.Time     `parquet:"run_start_time,optional" mapstructure:"run_start_time" json:"run_start_time,omitempty"`
	RunEndTime     *time.Time     `parquet:"run_end_time,optional" mapstructure:"run_end_time" json:"run_end_time,omitempty"`
	RunMode        *string        `parquet:"run_mode,optional" mapstructure:"run_mode" json:"run_mode,omitempty"`
	RunScore       *float64       `parquet:"run_score,optional" mapstructure:"run_score" json:"run_score,omitempty"`
	RunPassed      *bool          `parquet:"run_passed,optional" mapstructure:"run_passed" json:"run_passed,omitempty"`
	RunMeta        *RunMeta       `parquet:"run_meta,optional" mapstructure:"run_meta" json:"run_meta,omitempty"`
	RunSystemInfo  *RunSystemInfo `parquet:"run_system_info,optional" mapstructure:"run_system_info" json:"run_system_info,omitempty"`
}

// DecodeSubmission converts a generic row into a typed Submission. Weak
// typing is enabled so CSV-sourced string cells decode into numeric and
// boolean fields; timestamps accept both time.Time values (parquet) and
// RFC 3339 strings (CSV).
func DecodeSubmission(row Row) (Submission, error) {
	var sub Submission
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		Result:           &sub,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Submission{}, fmt.Errorf("dataset: build decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(row)); err != nil {
		return Submission{}, fmt.Errorf("dataset: decode submission: %w", err)
	}
	return sub, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aidoctor/aidoctor-tui/internal/util"
)

// FlexValue is a measured value that the backend serializes as either a
// JSON string or a bare number.
type FlexValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *FlexValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = FlexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FlexValue(n.String())
	return nil
}

// TestResult is one measured value extracted from a medical report.
type TestResult struct {
	ID             int64     `json:"id,omitempty"`
	Name           string    `json:"name"`
	Value          FlexValue `json:"value"`
	Unit           string    `json:"unit,omitempty"`
	RefLow         *float64  `json:"refLow,omitempty"`
	RefHigh        *float64  `json:"refHigh,omitempty"`
	Interpretation string    `json:"interpretation,omitempty"`
	RawValue       string    `json:"rawValue,omitempty"`
}

// Abnormal reports whether the result was interpreted as out of range.
func (t TestResult) Abnormal() bool {
	switch strings.ToLower(strings.TrimSpace(t.Interpretation)) {
	case "", "n", "normal":
		return false
	default:
		return true
	}
}

// ReferenceRange formats the reference interval, empty when the backend
// supplied neither bound.
func (t TestResult) ReferenceRange() string {
	switch {
	case t.RefLow != nil && t.RefHigh != nil:
		return util.FloatToString(*t.RefLow) + "-" + util.FloatToString(*t.RefHigh)
	case t.RefLow != nil:
		return ">= " + util.FloatToString(*t.RefLow)
	case t.RefHigh != nil:
		return "<= " + util.FloatToString(*t.RefHigh)
	default:
		return ""
	}
}

// OcrResult is the structured interpretation returned for an uploaded
// report.
type OcrResult struct {
	ID               int64             `json:"id,omitempty"`
	OriginalFileName string            `json:"originalFileName,omitempty"`
	ReportType       string            `json:"reportType,omitempty"`
	Summary          string            `json:"summary,omitempty"`
	Fields           map[string]string `json:"fields,omitempty"`
	TestResults      []TestResult      `json:"testResults,omitempty"`
	CreatedAt        time.Time         `json:"createdAt,omitempty"`
}

// Empty reports whether the result carries no usable content.
func (r *OcrResult) Empty() bool {
	return r == nil || (r.Summary == "" && len(r.Fields) == 0 && len(r.TestResults) == 0)
}

// AbnormalCount returns how many test results carry abnormal flags.
func (r *OcrResult) AbnormalCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, t := range r.TestResults {
		if t.Abnormal() {
			n++
		}
	}
	return n
}

// HistoryEntry is a previously processed report as returned by the
// history endpoint.
type HistoryEntry struct {
	ID               int64        `json:"id"`
	OriginalFileName string       `json:"originalFileName,omitempty"`
	ReportType       string       `json:"reportType,omitempty"`
	Summary          string       `json:"summary,omitempty"`
	TestResults      []TestResult `json:"testResults,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// UploadStatus tracks the lifecycle of an upload task.
type UploadStatus int

const (
	UploadPending UploadStatus = iota
	UploadInProgress
	UploadDone
	UploadFailed
)

// String returns the status name.
func (s UploadStatus) String() string {
	switch s {
	case UploadPending:
		return "pending"
	case UploadInProgress:
		return "in_progress"
	case UploadDone:
		return "done"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UploadTask tracks one report upload. Percent only moves forward: late
// or out-of-order progress reports never make the bar go backwards, and
// completion always lands on exactly 100.
type UploadTask struct {
	ID        string
	FilePath  string
	Status    UploadStatus
	Percent   int
	Err       error
	StartedAt time.Time
	EndedAt   time.Time
}

// NewUploadTask creates a pending task for the given file.
func NewUploadTask(path string) *UploadTask {
	return &UploadTask{
		ID:       "upl_" + uuid.NewString(),
		FilePath: path,
		Status:   UploadPending,
	}
}

// FileName returns the base name of the file being uploaded.
func (u *UploadTask) FileName() string {
	return filepath.Base(u.FilePath)
}

// Start marks the task in progress.
func (u *UploadTask) Start() {
	u.Status = UploadInProgress
	u.StartedAt = time.Now()
}

// SetPercent advances the progress bar. Negative values are ignored,
// values over 100 clamp, and anything below the current percent is a
// stale report that must not move the bar backwards.
func (u *UploadTask) SetPercent(p int) {
	if p < 0 {
		return
	}
	if p > 100 {
		p = 100
	}
	if p > u.Percent {
		u.Percent = p
	}
}

// Complete marks the task done and forces percent to 100.
func (u *UploadTask) Complete() {
	u.Status = UploadDone
	u.Percent = 100
	u.EndedAt = time.Now()
}

// Fail marks the task failed with the given error. The request is over
// either way, so percent lands on 100 like a completed transfer.
func (u *UploadTask) Fail(err error) {
	u.Status = UploadFailed
	u.Err = err
	u.Percent = 100
	u.EndedAt = time.Now()
}

// Active reports whether the task is still pending or running.
func (u *UploadTask) Active() bool {
	return u.Status == UploadPending || u.Status == UploadInProgress
}

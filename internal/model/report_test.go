// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestUploadTaskMonotonicProgress(t *testing.T) {
	task := NewUploadTask("/tmp/report.pdf")
	if !strings.HasPrefix(task.ID, "upl_") {
		t.Errorf("task ID = %q", task.ID)
	}
	if task.FileName() != "report.pdf" {
		t.Errorf("FileName = %q", task.FileName())
	}

	task.Start()
	task.SetPercent(30)
	task.SetPercent(10) // stale update, must not regress
	if task.Percent != 30 {
		t.Errorf("percent = %d, want 30", task.Percent)
	}

	task.SetPercent(-5)
	if task.Percent != 30 {
		t.Errorf("negative percent accepted: %d", task.Percent)
	}

	// Values over 100 clamp rather than overshooting the bar.
	task.SetPercent(250)
	if task.Percent != 100 {
		t.Errorf("percent = %d, want 100", task.Percent)
	}

	task.Complete()
	if task.Percent != 100 {
		t.Errorf("completed percent = %d, want exactly 100", task.Percent)
	}
	if task.Status != UploadDone {
		t.Errorf("status = %v, want UploadDone", task.Status)
	}
	if task.Active() {
		t.Error("completed task should not be active")
	}
}

func TestUploadTaskCompleteFromLowPercent(t *testing.T) {
	task := NewUploadTask("scan.jpg")
	task.Start()
	task.SetPercent(40)
	task.Complete()
	if task.Percent != 100 {
		t.Errorf("percent = %d, want 100 even when progress stalled", task.Percent)
	}
}

func TestUploadTaskFail(t *testing.T) {
	task := NewUploadTask("scan.jpg")
	task.Start()
	task.SetPercent(55)
	cause := errors.New("server unavailable")
	task.Fail(cause)
	if task.Status != UploadFailed {
		t.Errorf("status = %v", task.Status)
	}
	if task.Percent != 100 {
		t.Errorf("failed task percent = %d, want 100 once the request is over", task.Percent)
	}
	if !errors.Is(task.Err, cause) {
		t.Error("Err not preserved")
	}
}

func TestTestResultAbnormal(t *testing.T) {
	tests := []struct {
		interpretation string
		want           bool
	}{
		{"", false},
		{"n", false},
		{"normal", false},
		{"Normal", false},
		{"low", true},
		{"high", true},
		{"HIGH", true},
	}
	for _, tt := range tests {
		r := TestResult{Interpretation: tt.interpretation}
		if got := r.Abnormal(); got != tt.want {
			t.Errorf("Abnormal(%q) = %v, want %v", tt.interpretation, got, tt.want)
		}
	}
}

func TestTestResultReferenceRange(t *testing.T) {
	low, high := 4.0, 11.0
	tests := []struct {
		name string
		r    TestResult
		want string
	}{
		{"both", TestResult{RefLow: &low, RefHigh: &high}, "4.0-11.0"},
		{"low only", TestResult{RefLow: &low}, ">= 4.0"},
		{"high only", TestResult{RefHigh: &high}, "<= 11.0"},
		{"neither", TestResult{}, ""},
	}
	for _, tt := range tests {
		if got := tt.r.ReferenceRange(); got != tt.want {
			t.Errorf("%s: ReferenceRange() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFlexValueUnmarshal(t *testing.T) {
	var r TestResult
	if err := json.Unmarshal([]byte(`{"name":"WBC","value":12.4}`), &r); err != nil {
		t.Fatal(err)
	}
	if r.Value != "12.4" {
		t.Errorf("numeric value = %q", r.Value)
	}
	if err := json.Unmarshal([]byte(`{"name":"HGB","value":"13.5 g/dL"}`), &r); err != nil {
		t.Fatal(err)
	}
	if r.Value != "13.5 g/dL" {
		t.Errorf("string value = %q", r.Value)
	}
}

func TestOcrResultHelpers(t *testing.T) {
	var nilResult *OcrResult
	if !nilResult.Empty() {
		t.Error("nil result should be empty")
	}
	if nilResult.AbnormalCount() != 0 {
		t.Error("nil result abnormal count")
	}

	r := &OcrResult{
		Summary: "CBC panel",
		TestResults: []TestResult{
			{Name: "WBC", Interpretation: "high"},
			{Name: "RBC", Interpretation: "normal"},
			{Name: "HGB", Interpretation: "low"},
		},
	}
	if r.Empty() {
		t.Error("populated result reported empty")
	}
	if got := r.AbnormalCount(); got != 2 {
		t.Errorf("AbnormalCount = %d, want 2", got)
	}
}

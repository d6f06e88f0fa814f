// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/util"
)

// ProgressFunc receives upload progress as a percentage in [0, 100].
// 100 is reported once the request body has been fully transmitted,
// whether or not the server ultimately accepts the upload.
type ProgressFunc func(percent int)

// UploadReport uploads a medical report file to the OCR endpoint and
// returns the structured interpretation. onProgress, when non-nil, is
// called from the request goroutine as the body is transmitted.
func (c *Client) UploadReport(ctx context.Context, filePath string, onProgress ProgressFunc) (*model.OcrResult, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, NewClientError(ErrorTypeUpload, "no file selected", ErrNoFile)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, NewClientError(ErrorTypeUpload,
			"cannot open "+filepath.Base(filePath), err)
	}
	defer file.Close()

	// The multipart body is assembled up front so progress can be
	// reported against a known total length.
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, NewClientError(ErrorTypeUpload, "failed to build upload request", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, NewClientError(ErrorTypeUpload,
			"failed to read "+filepath.Base(filePath), err)
	}
	if err := writer.Close(); err != nil {
		return nil, NewClientError(ErrorTypeUpload, "failed to build upload request", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, NewClientError(ErrorTypeTimeout, "request cancelled while rate limited", err)
	}

	body := &progressReader{
		r:          bytes.NewReader(buf.Bytes()),
		total:      int64(buf.Len()),
		onProgress: onProgress,
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL()+"/api/ocr/extract", body)
	if err != nil {
		return nil, NewClientError(ErrorTypeUpload, "failed to create request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = int64(buf.Len())

	// The token rides along when present; an unauthenticated upload is
	// still attempted and the server decides whether to accept it.
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewClientError(ErrorTypeAuth, "session expired, please log in again", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewClientError(ErrorTypeUpload, uploadErrorMessage(resp), nil)
	}

	return decodeOcrResult(resp.Body)
}

// decodeOcrResult parses the extraction response, tolerating the result
// appearing either at the top level or nested under "result", and the
// older key set (fileName, aiReply, isMedical/reason) the endpoint has
// used across backend versions.
func decodeOcrResult(r io.Reader) (*model.OcrResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewClientError(ErrorTypeUpload, "failed to read extraction response", err)
	}

	var wrapped struct {
		model.OcrResult
		Result   *model.OcrResult `json:"result"`
		FileName string           `json:"fileName"`
		AiReply  string           `json:"aiReply"`
		Reason   string           `json:"reason"`
		Text     string           `json:"text"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		// A body that is not valid JSON still carries the server's
		// answer; surface it as a bare summary rather than dropping it.
		return &model.OcrResult{Summary: strings.TrimSpace(string(data))}, nil
	}
	if wrapped.Result != nil && !wrapped.Result.Empty() {
		return wrapped.Result, nil
	}

	result := wrapped.OcrResult
	if result.OriginalFileName == "" {
		result.OriginalFileName = wrapped.FileName
	}
	if result.Summary == "" {
		result.Summary = wrapped.AiReply
	}
	if result.Summary == "" {
		// A non-medical upload comes back with a rejection reason.
		result.Summary = wrapped.Reason
	}
	if result.Summary == "" {
		result.Summary = strings.TrimSpace(wrapped.Text)
	}
	return &result, nil
}

// uploadErrorMessage extracts the most useful error text from a failed
// extraction response. Preference order: the JSON "message"/"error"
// field, then the whole JSON body, then the raw text body, then a
// generic message with the status code.
func uploadErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return fmt.Sprintf("OCR failed (%d)", resp.StatusCode)
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
		// Valid JSON with no recognized field: show it whole.
		var compact bytes.Buffer
		if err := json.Compact(&compact, data); err == nil {
			return util.TruncateRunes(compact.String(), 300)
		}
	}

	return util.TruncateRunes(strings.TrimSpace(string(data)), 300)
}

// progressReader reports read progress against a known total. Percentages
// only move forward, and 100 fires exactly when the last byte is read.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.onProgress == nil || p.total <= 0 {
		return
	}
	percent := int(p.read * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	if percent > p.last {
		p.last = percent
		p.onProgress(percent)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/aidoctor/aidoctor-tui/internal/model"
)

// historyResponse tolerates the list appearing wrapped under either key.
type historyResponse struct {
	History []model.HistoryEntry `json:"history"`
	Reports []model.HistoryEntry `json:"reports"`
}

// History fetches the user's previously processed reports, newest first.
// The endpoint has returned both a bare array and a wrapped object across
// backend versions; both shapes are accepted.
func (c *Client) History(ctx context.Context) ([]model.HistoryEntry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, NewClientError(ErrorTypeTimeout, "request cancelled while rate limited", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL()+"/api/ocr/history", nil)
	if err != nil {
		return nil, NewClientError(ErrorTypeHistory, "failed to create request", err)
	}
	token := c.Token()
	if token == "" {
		return nil, NewClientError(ErrorTypeAuth, "not logged in", ErrUnauthorized)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewClientError(ErrorTypeAuth, "session expired, please log in again", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewClientError(ErrorTypeHistory,
			fmt.Sprintf("history request failed (%d)", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, NewClientError(ErrorTypeHistory, "failed to read history response", err)
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return sortHistory(entries), nil
	}

	var wrapped historyResponse
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, NewClientError(ErrorTypeHistory, "failed to decode history response", err)
	}
	entries = wrapped.History
	if len(entries) == 0 {
		entries = wrapped.Reports
	}
	return sortHistory(entries), nil
}

func sortHistory(entries []model.HistoryEntry) []model.HistoryEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

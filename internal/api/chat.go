// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// chatRequest duplicates the text under both keys the backend has bound
// it to across versions.
type chatRequest struct {
	Text    string `json:"text"`
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// chatResponse tolerates the assistant text appearing under either key.
type chatResponse struct {
	Reply string `json:"reply"`
	Text  string `json:"text"`
}

// SendMessage sends a chat message to the doctor assistant and returns
// the reply text. The reply is taken from the "reply" field, then the
// "text" field, then the whole JSON body, then the raw body, in that
// order, so schema drift on the backend degrades to something readable
// instead of an error.
func (c *Client) SendMessage(ctx context.Context, text, userID string) (string, error) {
	body := chatRequest{Text: text, Message: text, UserID: userID}
	resp, err := c.postJSON(ctx, "/api/chat/message", body, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", NewClientError(ErrorTypeAuth, "session expired, please log in again", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		msg := decodeErrorMessage(resp)
		if msg == "" {
			msg = fmt.Sprintf("chat request failed (%d)", resp.StatusCode)
		}
		return "", NewClientError(ErrorTypeChat, msg, nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", NewClientError(ErrorTypeChat, "failed to read chat response", err)
	}
	return extractReply(data), nil
}

// extractReply pulls the assistant text out of a chat response body.
func extractReply(data []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Reply != "" {
			return parsed.Reply
		}
		if parsed.Text != "" {
			return parsed.Text
		}
		// Valid JSON without a known field is shown compacted.
		var compact bytes.Buffer
		if err := json.Compact(&compact, data); err == nil {
			return compact.String()
		}
	}
	// A bare JSON string unwraps to its contents.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(data))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/aidoctor/aidoctor-tui/internal/util"
)

// MaxMessages caps the in-memory transcript length. Older messages are
// pruned once the cap is exceeded.
const MaxMessages = 1000

// Phase tracks where the user is in the guided conversation flow.
type Phase int

const (
	// PhaseNotStarted is the state before the assistant has greeted.
	PhaseNotStarted Phase = iota
	// PhaseChoosing means the chat-or-upload options are on screen.
	PhaseChoosing
	// PhaseChat is free-form conversation with the doctor assistant.
	PhaseChat
	// PhaseUpload means the file picker flow is active.
	PhaseUpload
)

// String returns the phase name for logs and debugging.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseChoosing:
		return "choosing"
	case PhaseChat:
		return "chat"
	case PhaseUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// Canned assistant texts for the guided flow.
const (
	GreetingText       = "Hello! I'm your AI Doctor assistant. How can I help you today?"
	OptionsText        = "Would you like to: 1) Chat with Doctor 2) Upload Medical Report?"
	ChatAckText        = "Great! You can ask me anything about your health. What would you like to know?"
	UploadAckText      = "Please select a medical report file to upload."
	ChooseReminderText = "Please choose an option: Chat or Upload report."
	ReportIntroText    = "I've reviewed your report. Here is my medical interpretation:"
	NoSummaryText      = "No summary available."
)

// Conversation holds an ordered transcript and the guided-flow phase.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Phase     Phase     `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates an empty conversation in PhaseNotStarted.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		Title:     "New Conversation",
		Messages:  []Message{},
		Phase:     PhaseNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Begin posts the greeting and moves to PhaseChoosing. It returns the
// greeting message so the caller can schedule the options reveal. Calling
// Begin on an already-started conversation is a no-op returning nil.
func (c *Conversation) Begin() *Message {
	if c.Phase != PhaseNotStarted {
		return nil
	}
	msg := c.AddAssistantMessage(GreetingText)
	c.Phase = PhaseChoosing
	return msg
}

// ShowOptions appends the chat-or-upload options message. Only valid while
// choosing; returns nil otherwise.
func (c *Conversation) ShowOptions() *Message {
	if c.Phase != PhaseChoosing {
		return nil
	}
	msg := c.addMessage(Message{
		ID:          generateMessageID(),
		Role:        RoleAssistant,
		Content:     OptionsText,
		Timestamp:   time.Now(),
		ShowOptions: true,
	})
	return msg
}

// HasPendingOptions reports whether an options prompt is already on
// screen awaiting a choice.
func (c *Conversation) HasPendingOptions() bool {
	for i := range c.Messages {
		if c.Messages[i].ShowOptions {
			return true
		}
	}
	return false
}

// ChooseChat selects the free-form chat path. Valid from PhaseChoosing or
// PhaseUpload (backing out of an upload returns to chat).
func (c *Conversation) ChooseChat() *Message {
	switch c.Phase {
	case PhaseChoosing, PhaseUpload:
		c.Phase = PhaseChat
		c.clearOptionMarkers()
		return c.AddAssistantMessage(ChatAckText)
	default:
		return nil
	}
}

// ChooseUpload selects the report-upload path. Valid from PhaseChoosing or
// PhaseChat, so an upload can be started mid-conversation.
func (c *Conversation) ChooseUpload() *Message {
	switch c.Phase {
	case PhaseChoosing, PhaseChat:
		c.Phase = PhaseUpload
		c.clearOptionMarkers()
		return c.AddAssistantMessage(UploadAckText)
	default:
		return nil
	}
}

// CancelUpload backs out of the upload flow and returns to chat without
// posting an acknowledgement.
func (c *Conversation) CancelUpload() {
	if c.Phase == PhaseUpload {
		c.Phase = PhaseChat
	}
}

// FinishUpload returns to chat after an upload attempt, successful or not.
func (c *Conversation) FinishUpload() {
	if c.Phase == PhaseUpload {
		c.Phase = PhaseChat
	}
}

// Remind re-states the options when the user types free text while the
// choice is still pending.
func (c *Conversation) Remind() *Message {
	if c.Phase != PhaseChoosing {
		return nil
	}
	msg := c.addMessage(Message{
		ID:          generateMessageID(),
		Role:        RoleAssistant,
		Content:     ChooseReminderText,
		Timestamp:   time.Now(),
		ShowOptions: true,
	})
	return msg
}

// AddUserMessage appends a user message and updates the title if this is
// the first one.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := c.addMessage(NewUserMessage(content))
	c.updateTitle()
	return msg
}

// AddAssistantMessage appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) *Message {
	return c.addMessage(NewAssistantMessage(content))
}

// AddErrorMessage appends an assistant message flagged as an error.
func (c *Conversation) AddErrorMessage(content string) *Message {
	m := NewAssistantMessage(content)
	m.IsError = true
	return c.addMessage(m)
}

// AddSystemMessage appends a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	return c.addMessage(NewSystemMessage(content))
}

// GetLastMessage returns the most recent message, or nil when empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// GetLastUserMessage returns the most recent user message, or nil.
func (c *Conversation) GetLastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return &c.Messages[i]
		}
	}
	return nil
}

// MessageCount returns the number of messages in the transcript.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// ClearHistory removes all messages and resets the flow so the greeting
// plays again.
func (c *Conversation) ClearHistory() {
	c.Messages = []Message{}
	c.Phase = PhaseNotStarted
	c.Title = "New Conversation"
	c.UpdatedAt = time.Now()
}

func (c *Conversation) addMessage(msg Message) *Message {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.pruneOldMessages()
	return &c.Messages[len(c.Messages)-1]
}

// clearOptionMarkers drops the ShowOptions flag from prior messages so a
// resolved choice is not re-rendered as actionable.
func (c *Conversation) clearOptionMarkers() {
	for i := range c.Messages {
		c.Messages[i].ShowOptions = false
	}
}

func (c *Conversation) updateTitle() {
	if c.Title != "New Conversation" {
		return
	}
	if first := c.GetLastUserMessage(); first != nil {
		c.Title = util.TruncateRunes(first.Content, 50)
	}
}

func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) > MaxMessages {
		excess := len(c.Messages) - MaxMessages
		c.Messages = c.Messages[excess:]
	}
}

// generateConversationID returns a random ID of the form "conv_<hex>".
func generateConversationID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "conv_" + util.Int64ToString(time.Now().UnixNano())
	}
	return "conv_" + hex.EncodeToString(b)
}

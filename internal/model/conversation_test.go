// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestConversationGuidedFlow(t *testing.T) {
	c := NewConversation()
	if c.Phase != PhaseNotStarted {
		t.Fatalf("new conversation phase = %v, want PhaseNotStarted", c.Phase)
	}

	greeting := c.Begin()
	if greeting == nil {
		t.Fatal("Begin returned nil")
	}
	if greeting.Content != GreetingText {
		t.Errorf("greeting = %q", greeting.Content)
	}
	if c.Phase != PhaseChoosing {
		t.Errorf("phase after Begin = %v, want PhaseChoosing", c.Phase)
	}

	// Begin is a no-op once started.
	if again := c.Begin(); again != nil {
		t.Error("second Begin should return nil")
	}

	opts := c.ShowOptions()
	if opts == nil || !opts.ShowOptions {
		t.Fatal("ShowOptions should post an options-bearing message")
	}

	// Free text while choosing gets a reminder with the options again.
	c.AddUserMessage("I have a headache")
	reminder := c.Remind()
	if reminder == nil || !reminder.ShowOptions {
		t.Fatal("Remind should re-present the options")
	}
	if reminder.Content != ChooseReminderText {
		t.Errorf("reminder = %q", reminder.Content)
	}

	ack := c.ChooseChat()
	if ack == nil || ack.Content != ChatAckText {
		t.Fatalf("ChooseChat ack = %v", ack)
	}
	if c.Phase != PhaseChat {
		t.Errorf("phase = %v, want PhaseChat", c.Phase)
	}

	// Resolved options are no longer actionable.
	for _, m := range c.Messages {
		if m.ShowOptions {
			t.Errorf("message %s still has ShowOptions set", m.ID)
		}
	}

	// Remind only applies while choosing.
	if c.Remind() != nil {
		t.Error("Remind should return nil outside PhaseChoosing")
	}
}

func TestConversationUploadTransitions(t *testing.T) {
	c := NewConversation()
	c.Begin()
	c.ShowOptions()

	ack := c.ChooseUpload()
	if ack == nil || ack.Content != UploadAckText {
		t.Fatalf("ChooseUpload ack = %v", ack)
	}
	if c.Phase != PhaseUpload {
		t.Fatalf("phase = %v, want PhaseUpload", c.Phase)
	}

	// Backing out returns to chat, not to the options screen.
	c.CancelUpload()
	if c.Phase != PhaseChat {
		t.Errorf("phase after cancel = %v, want PhaseChat", c.Phase)
	}

	// Upload can be re-entered from chat.
	if c.ChooseUpload() == nil {
		t.Fatal("ChooseUpload from chat should succeed")
	}
	c.FinishUpload()
	if c.Phase != PhaseChat {
		t.Errorf("phase after finish = %v, want PhaseChat", c.Phase)
	}

	// ChooseUpload is invalid before the flow starts.
	fresh := NewConversation()
	if fresh.ChooseUpload() != nil {
		t.Error("ChooseUpload before Begin should return nil")
	}
}

func TestConversationTitleFromFirstUserMessage(t *testing.T) {
	c := NewConversation()
	c.Begin()
	long := strings.Repeat("a", 80)
	c.AddUserMessage(long)
	if len([]rune(c.Title)) > 50 {
		t.Errorf("title too long: %d runes", len([]rune(c.Title)))
	}
	c.AddUserMessage("second message")
	if !strings.HasPrefix(c.Title, "aaa") {
		t.Errorf("title changed after second message: %q", c.Title)
	}
}

func TestConversationPruning(t *testing.T) {
	c := NewConversation()
	for i := 0; i < MaxMessages+25; i++ {
		c.AddAssistantMessage("m")
	}
	if got := c.MessageCount(); got != MaxMessages {
		t.Errorf("message count = %d, want %d", got, MaxMessages)
	}
}

func TestConversationClearHistory(t *testing.T) {
	c := NewConversation()
	c.Begin()
	c.AddUserMessage("hello")
	c.ClearHistory()
	if c.MessageCount() != 0 {
		t.Error("messages not cleared")
	}
	if c.Phase != PhaseNotStarted {
		t.Errorf("phase = %v, want PhaseNotStarted", c.Phase)
	}
	if c.Begin() == nil {
		t.Error("greeting should replay after clear")
	}
}

func TestRoleDisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Error("RoleUser display name")
	}
	if RoleAssistant.DisplayName() != "AI Doctor" {
		t.Error("RoleAssistant display name")
	}
}

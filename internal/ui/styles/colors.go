// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the color palette and theme for the aidoctor
// TUI. Colors adapt to light and dark terminal backgrounds.
package styles

import "github.com/charmbracelet/lipgloss"

// Brand colors. Teal carries the clinical identity; violet marks the
// assistant.
var (
	Teal     = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}
	TealDeep = lipgloss.AdaptiveColor{Light: "#115E59", Dark: "#14B8A6"}
	Violet   = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	Sky      = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#38BDF8"}
)

// Status colors.
var (
	Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	Amber   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	Rose    = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
)

// Surface colors for panels and overlays.
var (
	Surface       = lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#1E293B"}
	SurfaceDim    = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#0F172A"}
	SurfaceBright = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#334155"}
	Overlay       = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#475569"}
)

// Text colors.
var (
	TextPrimary   = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#F1F5F9"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#CBD5E1"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#64748B"}
	TextInverse   = lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#0F172A"}
)

// Message bubble colors.
var (
	UserBubbleBg     = lipgloss.AdaptiveColor{Light: "#CCFBF1", Dark: "#134E4A"}
	UserBubbleFg     = lipgloss.AdaptiveColor{Light: "#134E4A", Dark: "#CCFBF1"}
	UserBubbleBorder = Teal

	AssistantBubbleBg     = lipgloss.AdaptiveColor{Light: "#EDE9FE", Dark: "#312E81"}
	AssistantBubbleFg     = lipgloss.AdaptiveColor{Light: "#312E81", Dark: "#EDE9FE"}
	AssistantBubbleBorder = Violet

	SystemFg = TextMuted
)

// Report colors for extracted test results.
var (
	ResultNormal   = Emerald
	ResultAbnormal = Rose
	ResultHeading  = Sky
)

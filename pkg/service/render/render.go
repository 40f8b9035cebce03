// Package render turns stored raw text into presentation forms where mention tokens show up
// as styled "@Name" elements instead of raw tokens.
package render

import (
	"html"
	"strings"

	"github.com/bugnest/bugnest/pkg/domain/model/mention"
	"github.com/fatih/color"
)

// MentionClass is the CSS class of rendered mention elements
const MentionClass = "mention"

// HTML escapes text and renders each token as
// <span class="mention" data-user-id="ID">@Name</span>. Newlines become <br>.
func HTML(text string) string {
	var b strings.Builder
	for _, seg := range mention.Segments(text) {
		if !seg.IsMention() {
			b.WriteString(strings.ReplaceAll(html.EscapeString(seg.Text), "\n", "<br>"))
			continue
		}
		b.WriteString(`<span class="` + MentionClass + `" data-user-id="`)
		b.WriteString(html.EscapeString(seg.Mention.UserID))
		b.WriteString(`">@`)
		b.WriteString(html.EscapeString(seg.Mention.DisplayName))
		b.WriteString(`</span>`)
	}
	return b.String()
}

// Terminal highlights mentions with ANSI colors
type Terminal struct {
	mention *color.Color
}

// NewTerminal creates a Terminal renderer. With noColor set mentions are printed as plain "@Name".
func NewTerminal(noColor bool) *Terminal {
	c := color.New(color.FgCyan, color.Bold)
	if noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return &Terminal{mention: c}
}

// Render replaces every token with a highlighted "@Name"
func (t *Terminal) Render(text string) string {
	var b strings.Builder
	for _, seg := range mention.Segments(text) {
		if seg.IsMention() {
			b.WriteString(t.mention.Sprint("@" + seg.Mention.DisplayName))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// ANSI renders text for the current terminal, honoring color.NoColor
func ANSI(text string) string {
	return NewTerminal(color.NoColor).Render(text)
}

//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer strips markup from user controlled profile text.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer returns a sanitizer that removes every HTML element.
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean removes markup from s. bluemonday escapes the remaining text for
// HTML, which is undone here because templates escape on output.
func (t *TextSanitizer) Clean(s string) string {
	if t == nil || t.policy == nil || !strings.ContainsAny(s, "<>&") {
		return s
	}
	return html.UnescapeString(t.policy.Sanitize(s))
}

// Sanitize drops deleted accounts and cleans free text in place.
//
// The profile API still lists deleted accounts as friends but returns no
// summary for them. Every friend without a summary is removed from Friends,
// Bans and Summaries. Profiles with a private friend list are left as is.
func (p *Profile) Sanitize(text *TextSanitizer) {
	if p == nil {
		return
	}

	if p.Friends != nil {
		for id := range p.Friends {
			if _, ok := p.Summaries[id]; ok {
				continue
			}
			delete(p.Friends, id)
			delete(p.Bans, id)
			delete(p.Summaries, id)
		}
	}

	for id, s := range p.Summaries {
		s.PersonaName = text.Clean(s.PersonaName)
		if s.RealName != nil {
			cleaned := text.Clean(*s.RealName)
			s.RealName = &cleaned
		}
		p.Summaries[id] = s
	}
}

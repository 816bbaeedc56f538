package entity

import "strings"

// Tone is the badge colour class of a contact status.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
	ToneError   Tone = "error"
	ToneNeutral Tone = "light"
)

type toneRule struct {
	tone      Tone
	fragments []string
}

// toneRules is evaluated top to bottom; the first rule with a matching
// fragment wins. Statuses are free text on the backend, so anything that
// matches no rule falls back to ToneNeutral.
var toneRules = []toneRule{
	{ToneSuccess, []string{"client"}},
	{ToneWarning, []string{"chaud", "rdv"}},
	{ToneInfo, []string{"contacter"}},
	{ToneError, []string{"pas intéressé", "perdu", "ne pas"}},
}

// StatusTone classifies a status by case-insensitive substring match.
func StatusTone(status string) Tone {
	s := strings.ToLower(status)
	for _, rule := range toneRules {
		for _, f := range rule.fragments {
			if strings.Contains(s, f) {
				return rule.tone
			}
		}
	}
	return ToneNeutral
}

// StatusLabel is the badge text of a status.
func StatusLabel(status string) string {
	if strings.TrimSpace(status) == "" {
		return StatusUndefined
	}
	return status
}

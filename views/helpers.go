package views

import "github.com/AdamBeresnev/bracket-engine/internal/bracket"

func matchClass(m bracket.FixtureMatch) string {
	switch {
	case m.IsBye:
		return "match match-bye"
	case m.Status == bracket.MatchCompleted:
		return "match match-completed"
	case m.Status == bracket.MatchScheduled:
		return "match match-scheduled"
	}
	return "match match-pending"
}

func slotClass(m bracket.FixtureMatch, s bracket.FixtureSlot) string {
	switch {
	case s.Placeholder:
		return "slot slot-placeholder"
	case s.ParticipantID != nil && m.WinnerID != nil && *s.ParticipantID == *m.WinnerID:
		return "slot slot-winner"
	}
	return "slot"
}

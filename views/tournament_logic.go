package views

import (
	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
)

type BracketSection struct {
	Label  string
	Rounds []bracket.FixtureRound
}

type BracketData struct {
	Title    string
	Subtitle string
	Sections []BracketSection
}

func PrepareBracketData(t *bracket.Tournament, brackets []*bracket.Fixtures) BracketData {
	data := BracketData{
		Title:    t.Name,
		Subtitle: formatLabel(t.Format) + " · " + string(t.Status),
	}

	for _, side := range []bracket.BracketSide{bracket.WinnersSide, bracket.LosersSide, bracket.FinalsSide} {
		for _, f := range brackets {
			if f.Bracket != side || len(f.Rounds) == 0 {
				continue
			}
			data.Sections = append(data.Sections, BracketSection{
				Label:  sectionLabel(t.Format, side),
				Rounds: f.Rounds,
			})
		}
	}
	return data
}

func formatLabel(f bracket.Format) string {
	switch f {
	case bracket.DoubleElimination:
		return "Double elimination"
	case bracket.RoundRobin:
		return "Round robin"
	}
	return "Knockout"
}

func sectionLabel(f bracket.Format, side bracket.BracketSide) string {
	switch {
	case f == bracket.RoundRobin:
		return "Schedule"
	case f == bracket.Knockout:
		return "Bracket"
	case side == bracket.LosersSide:
		return "Losers Bracket"
	case side == bracket.FinalsSide:
		return "Grand Final"
	}
	return "Winners Bracket"
}

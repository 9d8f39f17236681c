package web

import (
	"github.com/mgeist/partydeck/internal/game"
)

// PlayerView is the JSON representation of one seated player.
type PlayerView struct {
	Index        int      `json:"index"`
	Name         string   `json:"name"`
	Inventory    []string `json:"inventory"`
	Current      bool     `json:"current"`
	SkipNextTurn bool     `json:"skipNextTurn,omitempty"`
}

// CardView is one of the three card slots.
type CardView struct {
	Slot     int    `json:"slot"`
	Text     string `json:"text,omitempty"` // empty while face-down
	Family   string `json:"family,omitempty"`
	Revealed bool   `json:"revealed"`
	Ditto    bool   `json:"ditto"`
}

// EffectView is an active timed effect.
type EffectView struct {
	Title          string `json:"title"`
	Source         string `json:"source,omitempty"`
	Target         string `json:"target,omitempty"`
	RemainingTurns int    `json:"remainingTurns"`
}

// PenaltyView is the open penalty slot.
type PenaltyView struct {
	Card         string `json:"card"`
	ConfirmArmed bool   `json:"confirmArmed"`
	Source       string `json:"source"`
}

// ChoiceOptionView is one branch of an open choice.
type ChoiceOptionView struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Variant string `json:"variant,omitempty"`
}

// ChoiceView is the open blocking choice.
type ChoiceView struct {
	Key     string             `json:"key"`
	Title   string             `json:"title"`
	Message string             `json:"message,omitempty"`
	Variant string             `json:"variant,omitempty"`
	Options []ChoiceOptionView `json:"options"`
}

// StatsView is one player's statistics row.
type StatsView struct {
	Name           string  `json:"name"`
	Cards          int     `json:"cards"`
	Mystery        int     `json:"mystery"`
	DrinksTaken    float64 `json:"drinksTaken"`
	DrinksGiven    float64 `json:"drinksGiven"`
	PenaltiesTaken float64 `json:"penaltiesTaken"`
	TopKind        string  `json:"topKind,omitempty"`
}

// EventView is one log line.
type EventView struct {
	Seq              int    `json:"seq"`
	Turn             int    `json:"turn"`
	Kind             string `json:"kind"`
	Details          string `json:"details"`
	LeaderboardTopic string `json:"leaderboardTopic,omitempty"`
}

// StateView is the full game state pushed to every connected browser.
type StateView struct {
	Type        string       `json:"type"` // always "state"
	Turn        int          `json:"turn"`
	Current     int          `json:"current"`
	Players     []PlayerView `json:"players"`
	Cards       []CardView   `json:"cards"`
	Effects     []EffectView `json:"effects,omitempty"`
	Penalty     *PenaltyView `json:"penalty,omitempty"`
	Choice      *ChoiceView  `json:"choice,omitempty"`
	PickPrompt  string       `json:"pickPrompt,omitempty"`
	Stats       []StatsView  `json:"stats"`
	Events      []EventView  `json:"events"`
	RedrawUsed  bool         `json:"redrawUsed"`
	MirrorArmed bool         `json:"mirrorArmed,omitempty"`
}

// BuildStateView snapshots a session into its wire form. Callers hold the
// server lock.
func BuildStateView(s *game.Session) *StateView {
	v := &StateView{
		Type:       "state",
		Turn:       s.Turn,
		Current:    s.Current,
		RedrawUsed: s.RedrawUsed(),
	}

	for i, p := range s.Players {
		v.Players = append(v.Players, PlayerView{
			Index:        i,
			Name:         p.Name,
			Inventory:    append([]string(nil), p.Inventory...),
			Current:      i == s.Current,
			SkipNextTurn: p.SkipNextTurn,
		})
	}

	for i, c := range s.Slots {
		cv := CardView{Slot: i, Revealed: s.Revealed[i], Ditto: s.DittoActive[i]}
		if c != nil && s.Revealed[i] {
			cv.Text = c.Text
			if c.Family != nil {
				cv.Family = c.Family.Name
			}
		}
		if s.DittoActive[i] {
			cv.Text = "Ditto!"
		}
		v.Cards = append(v.Cards, cv)
	}

	names := s.PlayerNames()
	for _, eff := range s.Effects {
		ev := EffectView{Title: eff.Type.Title(), RemainingTurns: eff.RemainingTurns}
		if eff.Source >= 0 && eff.Source < len(names) {
			ev.Source = names[eff.Source]
		}
		if eff.Target >= 0 && eff.Target < len(names) {
			ev.Target = names[eff.Target]
		}
		v.Effects = append(v.Effects, ev)
	}

	if s.Penalty.Shown {
		v.Penalty = &PenaltyView{
			Card:         s.Penalty.Card,
			ConfirmArmed: s.Penalty.ConfirmArmed,
			Source:       s.Penalty.Source.String(),
		}
	}

	if s.Choice != nil {
		cv := &ChoiceView{
			Key:     s.Choice.Key,
			Title:   s.Choice.Title,
			Message: s.Choice.Message,
			Variant: s.Choice.Variant,
		}
		for _, opt := range s.Choice.Options {
			cv.Options = append(cv.Options, ChoiceOptionView{ID: opt.ID, Label: opt.Label, Variant: opt.Variant})
		}
		v.Choice = cv
	}

	if s.Target != nil {
		v.PickPrompt = s.Target.Prompt
	}
	v.MirrorArmed = s.MirrorText != ""

	for _, rec := range s.StatsSnapshot() {
		sv := StatsView{
			Name:           rec.PlayerName,
			Cards:          rec.CardsSelected,
			Mystery:        rec.MysteryCardsSelected,
			DrinksTaken:    rec.DrinksTaken,
			DrinksGiven:    rec.DrinksGiven,
			PenaltiesTaken: rec.PenaltiesTaken,
		}
		if top, ok := rec.TopKind(); ok {
			sv.TopKind = top.String()
		}
		v.Stats = append(v.Stats, sv)
	}

	events := s.Logger().Events()
	if len(events) > 100 {
		events = events[len(events)-100:]
	}
	for _, e := range events {
		v.Events = append(v.Events, EventView{
			Seq:              e.Seq,
			Turn:             e.Turn,
			Kind:             e.Kind.String(),
			Details:          e.Details,
			LeaderboardTopic: e.LeaderboardTopic,
		})
	}

	return v
}

package game

import "math"

// PlayerStats is the per-player statistics record.
type PlayerStats struct {
	PlayerName           string
	CardsSelected        int
	MysteryCardsSelected int
	DrinksTaken          float64
	DrinksGiven          float64
	PenaltiesTaken       float64
	KindCounts           [numCardKinds]int
}

// KindCount returns the histogram count for a kind.
func (ps *PlayerStats) KindCount(k CardKind) int {
	if k < 0 || k >= numCardKinds {
		return 0
	}
	return ps.KindCounts[k]
}

// TopKind returns the highest-count histogram entry, breaking ties by the
// fixed enumeration order. Returns false if the player has no picks yet.
func (ps *PlayerStats) TopKind() (CardKind, bool) {
	best := KindNormal
	bestCount := 0
	for _, k := range topKindOrder {
		if ps.KindCounts[k] > bestCount {
			best = k
			bestCount = ps.KindCounts[k]
		}
	}
	if bestCount == 0 {
		return KindNormal, false
	}
	return best, true
}

// Ledger holds per-player statistics, indexed by seating position. Records
// are auto-created on first touch and every mutation notifies registered
// observers.
type Ledger struct {
	records   []*PlayerStats
	observers []func()
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Observe registers a callback invoked after every ledger mutation.
func (l *Ledger) Observe(fn func()) {
	l.observers = append(l.observers, fn)
}

func (l *Ledger) notify() {
	for _, fn := range l.observers {
		fn()
	}
}

// record returns the stats record for a player index, creating and seeding
// it if absent.
func (l *Ledger) record(index int, name string) *PlayerStats {
	if index < 0 {
		return &PlayerStats{PlayerName: name} // throwaway, defensive
	}
	for len(l.records) <= index {
		l.records = append(l.records, &PlayerStats{})
	}
	rec := l.records[index]
	if rec.PlayerName == "" {
		rec.PlayerName = name
	}
	return rec
}

// applyKindDelta applies a histogram delta for one kind, clamping at zero.
// A mix selection mirrors into both drink and give by the same delta.
func applyKindDelta(rec *PlayerStats, kind CardKind, delta int) {
	if kind < 0 || kind >= numCardKinds {
		return
	}
	add := func(k CardKind) {
		rec.KindCounts[k] += delta
		if rec.KindCounts[k] < 0 {
			rec.KindCounts[k] = 0
		}
	}
	add(kind)
	if kind == KindMix {
		add(KindDrink)
		add(KindGive)
	}
}

// RecordCardSelection counts a card pick for a player.
func (l *Ledger) RecordCardSelection(index int, name string, kind CardKind, mystery bool) {
	rec := l.record(index, name)
	rec.CardsSelected++
	if mystery {
		rec.MysteryCardsSelected++
	}
	applyKindDelta(rec, kind, 1)
	l.notify()
}

// ReplaceCardSelectionKind reclassifies the most recent selection from one
// kind to another, symmetrically undoing the old histogram effect before
// applying the new one. CardsSelected is untouched.
func (l *Ledger) ReplaceCardSelectionKind(index int, name string, from, to CardKind) {
	if from == to {
		return
	}
	rec := l.record(index, name)
	applyKindDelta(rec, from, -1)
	applyKindDelta(rec, to, 1)
	l.notify()
}

// validAmount rejects non-positive and non-finite amounts.
func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

// RecordDrinkTaken adds to a player's running drink total.
func (l *Ledger) RecordDrinkTaken(index int, name string, amount float64) {
	if !validAmount(amount) {
		return
	}
	l.record(index, name).DrinksTaken += amount
	l.notify()
}

// RecordGiveDrinks adds to a player's running given-drinks total.
func (l *Ledger) RecordGiveDrinks(index int, name string, amount float64) {
	if !validAmount(amount) {
		return
	}
	l.record(index, name).DrinksGiven += amount
	l.notify()
}

// RecordPenaltyTaken adds to a player's running penalty total.
func (l *Ledger) RecordPenaltyTaken(index int, name string, amount float64) {
	if !validAmount(amount) {
		return
	}
	l.record(index, name).PenaltiesTaken += amount
	l.notify()
}

// Snapshot returns a copy of every record in seating order, extended to
// cover all named players.
func (l *Ledger) Snapshot(names []string) []PlayerStats {
	out := make([]PlayerStats, len(names))
	for i, name := range names {
		rec := l.record(i, name)
		out[i] = *rec
		if out[i].PlayerName == "" {
			out[i].PlayerName = name
		}
	}
	return out
}

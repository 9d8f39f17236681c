package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for the game history sink.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfKind returns all events matching the given kind.
func (l *MemoryLogger) EventsOfKind(k Kind) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Kind == k {
			result = append(result, e)
		}
	}
	return result
}

// EventsContaining returns all events whose details contain the substring.
func (l *MemoryLogger) EventsContaining(sub string) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if strings.Contains(e.Details, sub) {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	kind := e.Kind.String()
	for len(kind) < 8 {
		kind += " "
	}
	return fmt.Sprintf("T%-3d %s| %s", e.Turn, kind, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTurnEvent(turn, player int, name string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Kind:    KindTurn,
		Details: fmt.Sprintf("=== Turn %d: %s ===", turn, name),
	}
}

func NewDealEvent(turn, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Kind:    KindDeal,
		Details: "Three cards dealt, one face-down",
	}
}

func NewDrawEvent(turn, player int, name, text, topic string) GameEvent {
	return GameEvent{
		Turn:             turn,
		Player:           player,
		Kind:             KindDraw,
		LeaderboardTopic: topic,
		Details:          fmt.Sprintf("%s: %s", name, text),
	}
}

func NewDrinkEvent(turn, player int, details string) GameEvent {
	return GameEvent{Turn: turn, Player: player, Kind: KindDrink, Details: details}
}

func NewGiveEvent(turn, player int, details string) GameEvent {
	return GameEvent{Turn: turn, Player: player, Kind: KindGive, Details: details}
}

func NewPenaltyEvent(turn, player int, details string) GameEvent {
	return GameEvent{Turn: turn, Player: player, Kind: KindPenalty, Details: details}
}

func NewEffectEvent(turn, player int, details string) GameEvent {
	return GameEvent{Turn: turn, Player: player, Kind: KindEffect, Details: details}
}

func NewItemEvent(turn, player int, details string) GameEvent {
	return GameEvent{Turn: turn, Player: player, Kind: KindItem, Details: details}
}

func NewDittoEvent(turn, player int, details string) GameEvent {
	return GameEvent{Turn: turn, Player: player, Kind: KindDitto, Details: details}
}

func NewChoiceEvent(turn, player int, details string) GameEvent {
	return GameEvent{Turn: turn, Player: player, Kind: KindChoice, Details: details}
}

func NewInfoEvent(turn, player int, details string) GameEvent {
	return GameEvent{Turn: turn, Player: player, Kind: KindInfo, Details: details}
}

func NewErrorEvent(turn, player int, details string) GameEvent {
	return GameEvent{Turn: turn, Player: player, Kind: KindError, Details: details}
}

package game

import (
	"testing"

	"github.com/mgeist/partydeck/internal/log"
)

func TestDrinkBuddyEchoIsLoggedNotLedgered(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.registerEffect(EffectDrinkBuddy, 3, 0, 1)

	s.ApplyDrink(0, 2, "Drink 2", DrinkOpts{})

	echoes := logger.EventsContaining("drinks too")
	if len(echoes) != 1 {
		t.Fatalf("want 1 buddy echo, got %d", len(echoes))
	}
	snap := s.StatsSnapshot()
	if snap[0].DrinksTaken != 2 {
		t.Fatalf("Alice DrinksTaken = %v, want 2", snap[0].DrinksTaken)
	}
	if snap[1].DrinksTaken != 0 {
		t.Fatalf("buddy echo must not touch the ledger, Bob has %v", snap[1].DrinksTaken)
	}
}

func TestDrinkBuddyOnlyEchoesForItsSource(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.registerEffect(EffectDrinkBuddy, 3, 0, 1)

	// Cara drinking does not trip Alice's buddy.
	s.ApplyDrink(2, 1, "Drink 1", DrinkOpts{})
	if n := len(logger.EventsContaining("drinks too")); n != 0 {
		t.Fatalf("want no echo, got %d", n)
	}
}

func TestTickEffectsExpiry(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.registerEffect(EffectDrinkBuddy, 2, 0, 1)
	s.registerEffect(EffectDittoMagnet, 1, 0, 2)

	s.TickEffects()
	if len(s.Effects) != 1 {
		t.Fatalf("want 1 effect after tick, got %d", len(s.Effects))
	}
	if s.Effects[0].Type != EffectDrinkBuddy || s.Effects[0].RemainingTurns != 1 {
		t.Fatalf("unexpected surviving effect %+v", s.Effects[0])
	}
	if n := len(logger.EventsContaining("Ditto Magnet has ended")); n != 1 {
		t.Fatalf("want 1 expiry log, got %d", n)
	}

	s.TickEffects()
	if len(s.Effects) != 0 {
		t.Fatalf("want 0 effects, got %d", len(s.Effects))
	}
}

func TestTargetSelectionRejectsSelf(t *testing.T) {
	s, logger, _ := newTestSession(t)
	done := -1
	s.BeginTargetSelection(EffectSpec{Type: "drink_buddy", Turns: 3, NeedsTarget: true}, 0,
		func(target int) { done = target })

	s.ClickPlayer(0)
	if s.Target == nil {
		t.Fatal("self-target must leave the selection open")
	}
	if done != -1 {
		t.Fatal("callback must not fire on a rejected pick")
	}
	if n := len(logger.EventsContaining("cannot pick yourself")); n != 1 {
		t.Fatalf("want rejection log, got %d", n)
	}

	s.ClickPlayer(1)
	if s.Target != nil {
		t.Fatal("selection must close after a valid pick")
	}
	if done != 1 {
		t.Fatalf("callback target = %d, want 1", done)
	}
	if len(s.Effects) != 1 || s.Effects[0].Target != 1 {
		t.Fatalf("effect not registered for target: %+v", s.Effects)
	}
}

func TestClickPlayerWithoutSelectionIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.ClickPlayer(1) // must not panic or mutate
	if len(s.Effects) != 0 {
		t.Fatal("no effect expected")
	}
}

func TestDittoMagnetForcesOneShot(t *testing.T) {
	s, logger, _ := newTestSession(t)
	// Two magnets on Bob still force exactly one Shot.
	s.registerEffect(EffectDittoMagnet, 3, 0, 1)
	s.registerEffect(EffectDittoMagnet, 3, 2, 1)

	s.onDittoActivated(1)
	if got := s.StatsSnapshot()[1].DrinksTaken; got != 1 {
		t.Fatalf("Bob DrinksTaken = %v, want 1 (single forced Shot)", got)
	}
	if n := len(logger.EventsContaining("magnetized")); n != 1 {
		t.Fatalf("want 1 magnet log, got %d", n)
	}

	s.onDittoActivated(2) // not magnetized
	if got := s.StatsSnapshot()[2].DrinksTaken; got != 0 {
		t.Fatalf("Cara DrinksTaken = %v, want 0", got)
	}
}

func TestApplyDrinkTextUnknownTokenIsNoop(t *testing.T) {
	s, logger, _ := newTestSession(t)
	before := len(logger.Events())
	s.ApplyDrinkText(0, "Interpretive dance", "test", DrinkOpts{})
	if s.StatsSnapshot()[0].DrinksTaken != 0 {
		t.Fatal("unknown token must not record a drink")
	}
	if len(logger.Events()) != before {
		t.Fatal("unknown token must not log")
	}
}

func TestEffectTypeTitleFallback(t *testing.T) {
	if got := EffectDrinkBuddy.Title(); got != "Drink Buddy" {
		t.Fatalf("Title = %q", got)
	}
	if got := EffectType("left_hand").Title(); got != "left_hand" {
		t.Fatalf("unknown type must fall back to raw string, got %q", got)
	}
}

func TestRegisterEffectLogsPairing(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.registerEffect(EffectDrinkBuddy, 3, 0, 1)

	events := logger.EventsOfKind(log.KindEffect)
	if len(events) != 1 {
		t.Fatalf("want 1 effect event, got %d", len(events))
	}
	want := "Drink Buddy: Alice → Bob, 3 turns"
	if events[0].Details != want {
		t.Fatalf("details = %q, want %q", events[0].Details, want)
	}
}

package game

import (
	"strings"
	"testing"

	"github.com/mgeist/partydeck/internal/log"
)

func TestNewSessionValidation(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"Alice"}, "at least 2"},
		{[]string{"Alice", ""}, "must not be empty"},
		{[]string{"Alice", "Alice"}, "duplicate"},
	}
	for _, tt := range tests {
		_, err := NewSession(Config{PlayerNames: tt.names, Content: testContent()})
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("NewSession(%v) error = %v, want containing %q", tt.names, err, tt.want)
		}
	}
}

func TestDealLeavesExactlyOneHidden(t *testing.T) {
	s, _, _ := newTestSession(t)
	hidden := 0
	for i := range s.Revealed {
		if s.Slots[i] == nil {
			t.Fatalf("slot %d not dealt", i)
		}
		if !s.Revealed[i] {
			hidden++
		}
	}
	if hidden != 1 {
		t.Fatalf("want exactly 1 hidden slot, got %d", hidden)
	}
}

func TestHiddenClickOnlyReveals(t *testing.T) {
	s, _, _ := newTestSession(t)
	placeCard(s, &Card{Text: "Drink 2"})
	s.hiddenSlot = 0
	s.Revealed[0] = false

	s.ClickCard(0)
	if !s.Revealed[0] {
		t.Fatal("click must reveal the hidden slot")
	}
	if s.StatsSnapshot()[0].CardsSelected != 0 {
		t.Fatal("revealing must not count as a selection")
	}
	if s.Turn != 1 {
		t.Fatal("revealing must not end the turn")
	}
}

func TestPureDrinkCardResolvesAndAdvances(t *testing.T) {
	s, _, _ := newTestSession(t)
	placeCard(s, &Card{Text: "Drink 2"})

	s.ClickCard(0)

	rec := s.StatsSnapshot()[0]
	if rec.DrinksTaken != 2 {
		t.Fatalf("DrinksTaken = %v, want 2", rec.DrinksTaken)
	}
	if rec.CardsSelected != 1 || rec.KindCount(KindDrink) != 1 {
		t.Fatalf("selection not recorded: %+v", rec)
	}
	if s.Current != 1 || s.Turn != 2 {
		t.Fatalf("turn did not advance: current=%d turn=%d", s.Current, s.Turn)
	}
}

func TestMysterySelectionAfterReveal(t *testing.T) {
	s, _, _ := newTestSession(t)
	placeCard(s, &Card{Text: "Drink 1"})
	s.hiddenSlot = 0
	s.Revealed[0] = false

	s.ClickCard(0) // reveal
	s.ClickCard(0) // act

	rec := s.StatsSnapshot()[0]
	if rec.MysteryCardsSelected != 1 {
		t.Fatalf("MysteryCardsSelected = %d, want 1", rec.MysteryCardsSelected)
	}
}

func TestGiveCardRecordsGiven(t *testing.T) {
	s, logger, _ := newTestSession(t)
	placeCard(s, &Card{Text: "Give 3"})

	s.ClickCard(0)

	if got := s.StatsSnapshot()[0].DrinksGiven; got != 3 {
		t.Fatalf("DrinksGiven = %v, want 3", got)
	}
	if n := len(logger.EventsContaining("hands out 3 drinks")); n != 1 {
		t.Fatalf("want give log, got %d", n)
	}
}

func TestEverybodyDrinksBroadcasts(t *testing.T) {
	s, _, _ := newTestSession(t)
	placeCard(s, &Card{Text: "Everybody drinks 2"})

	s.ClickCard(0)

	for i, rec := range s.StatsSnapshot() {
		if rec.DrinksTaken != 2 {
			t.Fatalf("player %d DrinksTaken = %v, want 2", i, rec.DrinksTaken)
		}
	}
}

func TestNonPureCardNeedsAcknowledgement(t *testing.T) {
	s, logger, _ := newTestSession(t)
	placeCard(s, &Card{Text: "Tell a story."})

	s.ClickCard(0)
	if s.Choice == nil {
		t.Fatal("non-pure card must raise a blocking prompt")
	}
	if s.Turn != 1 {
		t.Fatal("turn must be suspended behind the prompt")
	}

	// Card clicks are rejected while the prompt is open.
	s.ClickCard(1)
	if s.StatsSnapshot()[0].CardsSelected != 1 {
		t.Fatal("click behind an open choice must not resolve")
	}

	s.ChooseOption("nope")
	if s.Choice == nil {
		t.Fatal("invalid option id must keep the choice open")
	}
	if n := len(logger.EventsOfKind(log.KindError)); n != 1 {
		t.Fatalf("want 1 error event, got %d", n)
	}

	s.ChooseOption("ok")
	if s.Choice != nil {
		t.Fatal("acknowledgement must close the choice")
	}
	if s.Turn != 2 {
		t.Fatal("acknowledgement must end the turn")
	}
}

func TestChoiceHandlerPanicKeepsModalOpen(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.setChoice(&Choice{
		Key:   "boom",
		Title: "Boom",
		Options: []ChoiceOption{{
			ID: "go", Label: "Go",
			Run: func(*ActionContext) ActionResult { panic("kaboom") },
		}},
	})

	s.ChooseOption("go")
	if s.Choice == nil {
		t.Fatal("panicking handler must leave the choice open")
	}
	if n := len(logger.EventsContaining("choice handler failed")); n != 1 {
		t.Fatalf("want failure log, got %d", n)
	}
	if s.Turn != 1 {
		t.Fatal("turn must not advance past a failed handler")
	}
}

func TestPenaltyCardFlow(t *testing.T) {
	s, logger, _ := newTestSession(t)
	placeCard(s, &Card{Text: penaltyCardText})

	s.ClickCard(0)
	if !s.Penalty.Shown || s.Penalty.Source != PenaltyFromCard {
		t.Fatalf("penalty not opened: %+v", s.Penalty)
	}
	if s.Turn != 1 {
		t.Fatal("turn must be suspended behind the penalty")
	}

	// Card interaction is blocked; the hint is logged exactly once.
	s.ClickCard(1)
	s.ClickCard(1)
	if n := len(logger.EventsContaining("Deal with the penalty")); n != 1 {
		t.Fatalf("want 1 hint, got %d", n)
	}

	// A mandatory penalty cannot be dismissed.
	s.ClosePenalty()
	if !s.Penalty.Shown {
		t.Fatal("card-sourced penalty must not close without confirming")
	}

	s.ConfirmPenalty()
	if s.Penalty.Shown {
		t.Fatal("confirm must close the penalty")
	}
	if got := s.StatsSnapshot()[0].PenaltiesTaken; got != 2 {
		t.Fatalf("PenaltiesTaken = %v, want 2", got)
	}
	if s.Turn != 2 {
		t.Fatal("confirming a card penalty must end the turn")
	}
}

func TestShieldBlocksPenaltyCard(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.grantItem(0, ItemShield)
	placeCard(s, &Card{Text: penaltyCardText})

	s.ClickCard(0)

	if s.Penalty.Shown {
		t.Fatal("Shield must prevent the penalty from opening")
	}
	if s.Players[0].Shield || s.Players[0].hasItem(ItemShield) {
		t.Fatal("Shield must be consumed")
	}
	if n := len(logger.EventsContaining("Shield blocks")); n != 1 {
		t.Fatalf("want shield log, got %d", n)
	}
	if s.Turn != 2 {
		t.Fatal("blocked penalty still ends the turn")
	}
}

func TestRedrawOncePerTurn(t *testing.T) {
	s, logger, _ := newTestSession(t)
	before := [3]*Card{s.Slots[0], s.Slots[1], s.Slots[2]}

	s.Redraw()
	if !s.Penalty.Shown || s.Penalty.Source != PenaltyFromRedrawHold {
		t.Fatalf("redraw must open a holding penalty: %+v", s.Penalty)
	}
	for i := range s.Slots {
		if s.Slots[i] == before[i] {
			// Same pointer means the slot was not re-dealt. Texts may
			// coincide with a single-entry deck.
			t.Fatalf("slot %d not re-dealt", i)
		}
	}

	// Blocked until the penalty is dealt with.
	for i := range s.Revealed {
		s.Revealed[i] = true
	}
	s.ClickCard(0)
	if s.StatsSnapshot()[0].CardsSelected != 0 {
		t.Fatal("holding penalty must block card clicks")
	}

	s.ClosePenalty()
	if s.Penalty.Shown {
		t.Fatal("holding penalty is dismissable")
	}

	s.Redraw()
	if n := len(logger.EventsContaining("already used")); n != 1 {
		t.Fatalf("second redraw must be rejected, got %d logs", n)
	}
}

func TestClosePenaltyWaitsForOpenModals(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.openPenalty(PenaltyFromDeck)

	s.Choice = s.ackChoice("Tell a story.")
	s.ClosePenalty()
	if !s.Penalty.Shown {
		t.Fatal("penalty closed behind an open choice")
	}
	s.Choice = nil

	s.Target = &pendingTarget{Prompt: "pick a player"}
	s.ClosePenalty()
	if !s.Penalty.Shown {
		t.Fatal("penalty closed behind a pending pick")
	}
	s.Target = nil

	s.ClosePenalty()
	if s.Penalty.Shown {
		t.Fatal("penalty must close once modals are clear")
	}
}

func TestConfirmRedrawPenaltyDoesNotEndTurn(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Redraw()

	s.ConfirmPenalty()
	if got := s.StatsSnapshot()[0].PenaltiesTaken; got != 2 {
		t.Fatalf("PenaltiesTaken = %v, want 2", got)
	}
	if s.Turn != 1 || s.Current != 0 {
		t.Fatal("confirming a redraw penalty must not end the turn")
	}
}

func TestItemCardGrantsItem(t *testing.T) {
	s, _, _ := newTestSession(t)
	placeCard(s, &Card{Text: ItemMirror})

	s.ClickCard(0)

	if !s.Players[0].hasItem(ItemMirror) {
		t.Fatal("item not granted")
	}
	if got := s.StatsSnapshot()[0].KindCount(KindItem); got != 1 {
		t.Fatalf("item kind count = %d, want 1", got)
	}
	if s.Turn != 2 {
		t.Fatal("item pickup ends the turn")
	}
}

func TestImmunityAbsorbsDrinkCard(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.grantItem(0, ItemImmunity)
	placeCard(s, &Card{Text: "Drink 2"})

	s.ClickCard(0)

	if got := s.StatsSnapshot()[0].DrinksTaken; got != 0 {
		t.Fatalf("absorbed drink still ledgered: %v", got)
	}
	if s.Players[0].Immunity {
		t.Fatal("Immunity must be consumed")
	}
	if n := len(logger.EventsContaining("Immunity absorbs")); n != 1 {
		t.Fatalf("want absorb log, got %d", n)
	}
	if s.Turn != 2 {
		t.Fatal("absorbed card still ends the turn")
	}
}

func TestImmunityDoesNotAbsorbGive(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.grantItem(0, ItemImmunity)
	placeCard(s, &Card{Text: "Give 3"})

	s.ClickCard(0)

	if !s.Players[0].Immunity {
		t.Fatal("giving must not consume Immunity")
	}
	if got := s.StatsSnapshot()[0].DrinksGiven; got != 3 {
		t.Fatalf("DrinksGiven = %v, want 3", got)
	}
}

func TestExtraLifeGrantsAnotherTurn(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.grantItem(0, ItemExtraLife)
	placeCard(s, &Card{Text: "Drink 1"})

	s.ClickCard(0)

	if s.Current != 0 {
		t.Fatalf("current = %d, want Alice to go again", s.Current)
	}
	if s.Players[0].ExtraLife || s.Players[0].hasItem(ItemExtraLife) {
		t.Fatal("Extra Life must be consumed")
	}
	if s.Turn != 2 {
		t.Fatal("turn counter still advances")
	}
}

func TestSkipTurnOnOtherPlayer(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.grantItem(1, ItemSkipTurn)

	s.UseItem(1, ItemSkipTurn)
	if !s.Players[1].SkipNextTurn {
		t.Fatal("Bob must be marked to skip")
	}

	placeCard(s, &Card{Text: "Drink 1"})
	s.ClickCard(0)

	if s.Current != 2 {
		t.Fatalf("current = %d, want rotation to skip Bob", s.Current)
	}
	if s.Players[1].SkipNextTurn {
		t.Fatal("skip mark must be consumed")
	}
	if n := len(logger.EventsContaining("turn is skipped")); n != 1 {
		t.Fatalf("want skip log, got %d", n)
	}
}

func TestSkipTurnOnSelfPassesImmediately(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.grantItem(0, ItemSkipTurn)

	s.UseItem(0, ItemSkipTurn)
	if s.Current != 1 {
		t.Fatalf("current = %d, want 1", s.Current)
	}
}

func TestRevealFreeUncoversHiddenSlot(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.grantItem(0, ItemRevealFree)

	s.UseItem(0, ItemRevealFree)
	for i := range s.Revealed {
		if !s.Revealed[i] {
			t.Fatalf("slot %d still hidden", i)
		}
	}
	if s.Players[0].hasItem(ItemRevealFree) {
		t.Fatal("Reveal Free must be consumed")
	}
	if s.Turn != 1 {
		t.Fatal("Reveal Free must not advance the turn")
	}

	// A second use has nothing to reveal and is not consumed.
	s.grantItem(0, ItemRevealFree)
	s.UseItem(0, ItemRevealFree)
	if !s.Players[0].hasItem(ItemRevealFree) {
		t.Fatal("useless reveal must not consume the item")
	}
}

func TestMirrorNeedsAPriorSubEvent(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.grantItem(0, ItemMirror)

	s.UseItem(0, ItemMirror)
	if !s.Players[0].hasItem(ItemMirror) {
		t.Fatal("Mirror without a captured text must not be consumed")
	}
	if n := len(logger.EventsContaining("Nothing to mirror")); n != 1 {
		t.Fatalf("want rejection log, got %d", n)
	}

	s.lastSubText = "Sing a verse."
	s.UseItem(0, ItemMirror)
	if s.Target == nil {
		t.Fatal("Mirror must ask for a target player")
	}
	s.ClickPlayer(2)
	if n := len(logger.EventsContaining("Mirror! Cara must: Sing a verse.")); n != 1 {
		t.Fatalf("want mirror log, got %d", n)
	}
	if s.MirrorText != "" {
		t.Fatal("mirror priming must clear after the pick")
	}
}

func TestUseItemNotHeld(t *testing.T) {
	s, logger, _ := newTestSession(t)
	s.UseItem(0, ItemSkipTurn)
	if n := len(logger.EventsContaining("does not hold")); n != 1 {
		t.Fatalf("want rejection log, got %d", n)
	}
}

func TestObjectCardDrawsSubEventWithTopic(t *testing.T) {
	s, logger, _ := newTestSession(t)
	family := &s.content.Families[0] // Social Challenge
	placeCard(s, &Card{Text: family.Name, Family: family})

	s.ClickCard(0)

	draws := logger.EventsOfKind(log.KindDraw)
	if len(draws) != 1 {
		t.Fatalf("want 1 draw event, got %d", len(draws))
	}
	if !strings.HasPrefix(draws[0].Details, "Social Challenge: ") {
		t.Fatalf("draw details = %q", draws[0].Details)
	}
	if got := s.StatsSnapshot()[0].KindCount(KindSocial); got != 1 {
		t.Fatalf("social kind count = %d, want 1", got)
	}
}

func TestTargetedEffectSuspendsTurn(t *testing.T) {
	s, _, _ := newTestSession(t)
	family := &s.content.Families[0]
	sub := family.Subcategories[0] // Drink Buddy, needs_target
	card := &Card{Text: family.Name, Family: family}
	placeCard(s, card)

	// Force the bag to dispense the targeted sub-event.
	s.bagFor(family).work = []SubEvent{sub, family.Subcategories[1]}
	s.bagFor(family).used = false

	s.ClickCard(0)
	if s.Target == nil {
		t.Fatal("targeted effect must open a player pick")
	}
	if s.Turn != 1 {
		t.Fatal("turn must wait for the pick")
	}

	s.ClickPlayer(1)
	if len(s.Effects) != 1 || s.Effects[0].Type != EffectDrinkBuddy {
		t.Fatalf("effect not registered: %+v", s.Effects)
	}
	if s.Turn != 2 {
		t.Fatal("turn must end after the pick")
	}
}

func TestEffectWithActionRunsBoth(t *testing.T) {
	s, _, _ := newTestSession(t)
	family := &s.content.Families[0]
	sub := SubEvent{
		Name:        "Cursed Gamble",
		Instruction: "Roll the die and carry the curse.",
		Effect:      &EffectSpec{Type: "cursed", Turns: 2},
		Action:      "d6_gamble",
	}
	card := &Card{Text: family.Name, Family: family}
	placeCard(s, card)
	s.bagFor(family).work = []SubEvent{sub, family.Subcategories[1]}
	s.bagFor(family).used = false

	s.ClickCard(0)
	if len(s.Effects) != 1 || s.Effects[0].Type != "cursed" {
		t.Fatalf("effect not registered: %+v", s.Effects)
	}
	rec := s.StatsSnapshot()[0]
	if rec.DrinksTaken+rec.DrinksGiven == 0 {
		t.Fatal("declared action did not run")
	}
	if s.Turn != 2 {
		t.Fatalf("turn = %d, want 2", s.Turn)
	}
}

func TestTargetedEffectWithActionRunsActionAfterPick(t *testing.T) {
	s, _, _ := newTestSession(t)
	family := &s.content.Families[0]
	sub := SubEvent{
		Name:        "Hexed Gamble",
		Instruction: "Curse a player, then roll the die.",
		Effect:      &EffectSpec{Type: "hex", Turns: 2, NeedsTarget: true},
		Action:      "d6_gamble",
	}
	card := &Card{Text: family.Name, Family: family}
	placeCard(s, card)
	s.bagFor(family).work = []SubEvent{sub, family.Subcategories[1]}
	s.bagFor(family).used = false

	s.ClickCard(0)
	if s.Target == nil {
		t.Fatal("expected a player pick")
	}
	rec := s.StatsSnapshot()[0]
	if rec.DrinksTaken+rec.DrinksGiven != 0 {
		t.Fatal("action must wait for the pick")
	}

	s.ClickPlayer(1)
	if len(s.Effects) != 1 {
		t.Fatalf("effect not registered: %+v", s.Effects)
	}
	rec = s.StatsSnapshot()[0]
	if rec.DrinksTaken+rec.DrinksGiven == 0 {
		t.Fatal("declared action did not run after the pick")
	}
	if s.Turn != 2 {
		t.Fatalf("turn = %d, want 2", s.Turn)
	}
}

func TestEffectCreatedThisTurnSurvivesTheBoundaryTick(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.registerEffect(EffectDrinkBuddy, 2, 0, 1)
	placeCard(s, &Card{Text: "Drink 1"})

	s.ClickCard(0) // ends turn, ticks effects

	if len(s.Effects) != 1 || s.Effects[0].RemainingTurns != 1 {
		t.Fatalf("effect after one boundary: %+v", s.Effects)
	}
}

func TestBusySlotsRejectOutOfRangeClicks(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.ClickCard(-1)
	s.ClickCard(3)
	if s.StatsSnapshot()[0].CardsSelected != 0 {
		t.Fatal("out-of-range clicks must be ignored")
	}
}

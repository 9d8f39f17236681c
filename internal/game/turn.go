package game

import (
	"fmt"

	"github.com/mgeist/partydeck/internal/log"
)

// Deal samples three fresh cards for the current player, one face-down.
// Bags and pending session state other than the slots are untouched.
func (s *Session) Deal() {
	for i := range s.Slots {
		s.Slots[i] = s.dealCard()
		s.DittoActive[i] = false
		s.DittoPending[i] = DittoNone
	}
	s.hiddenSlot = s.rng.Intn(3)
	for i := range s.Revealed {
		s.Revealed[i] = i != s.hiddenSlot
	}
	s.log(log.NewDealEvent(s.Turn, s.Current))
	s.refresh()
}

// dealCard picks one card: weighted object-card category, then an
// independent chance to substitute an item card, with Immunity holding
// its own smaller slice of that chance.
func (s *Session) dealCard() *Card {
	if s.itemsEnabled {
		r := s.rng.Float64()
		switch {
		case r < s.immunityChance:
			return &Card{Text: ItemImmunity}
		case r < s.itemChance:
			item, err := pickRandom(s.rng, s.content.Items)
			if err == nil {
				return &Card{Text: item}
			}
		}
	}

	r := s.rng.Float64()
	var kind string
	switch {
	case r < s.socialWeight:
		kind = "social"
	case r < s.socialWeight+s.crowdWeight:
		kind = "crowd"
	case r < s.socialWeight+s.crowdWeight+s.specialWeight:
		kind = "special"
	}
	if kind != "" {
		if family, err := pickRandom(s.rng, s.content.familiesOfKind(kind)); err == nil {
			return &Card{Text: family.Name, Family: family}
		}
	}

	text, err := pickRandom(s.rng, s.content.Deck)
	if err != nil {
		text = "Drink 1" // content validated non-empty; defensive
	}
	return &Card{Text: text}
}

// ClickCard is the single entry point for acting on a card slot. The
// priority order is fixed: pending Choice and target selection reject the
// click, a hidden slot only flips face-up, an open blocking penalty wins,
// then Ditto confirm, then resolution.
func (s *Session) ClickCard(slot int) {
	if s.busy || slot < 0 || slot >= len(s.Slots) || s.Slots[slot] == nil {
		return
	}
	if s.Choice != nil {
		s.logInfo("Resolve the open choice first.")
		return
	}
	if s.Target != nil {
		s.logInfo("Pick a player first.")
		return
	}

	if s.Penalty.Shown && s.Penalty.Source.Blocking() {
		if !s.Penalty.hintLogged {
			s.Penalty.hintLogged = true
			s.logInfo("Deal with the penalty card first.")
		}
		return
	}

	// Reveal gate: flipping a hidden slot never resolves it.
	if !s.Revealed[slot] {
		s.Revealed[slot] = true
		s.logInfo("%s reveals the hidden card.", s.CurrentPlayer().Name)
		s.refresh()
		return
	}

	// A non-blocking penalty preview is closed by the next card click;
	// the click does nothing else.
	if s.Penalty.Shown {
		s.hidePenalty()
		s.refresh()
		return
	}

	if s.DittoActive[slot] {
		s.busy = true
		defer func() { s.busy = false }()
		s.confirmDitto(slot)
		return
	}

	s.busy = true
	defer func() { s.busy = false }()
	s.resolveCard(slot)
}

// resolveCard records the selection and dispatches by card category. The
// sequence is fixed: stat record, content resolution, effect/action
// dispatch, turn-end decision.
func (s *Session) resolveCard(slot int) {
	card := s.Slots[slot]
	player := s.CurrentPlayer()
	mystery := slot == s.hiddenSlot

	s.Stats.RecordCardSelection(s.Current, player.Name, card.Kind(s.content), mystery)

	if card.Family != nil {
		s.resolveObjectCard(slot, card)
		return
	}
	s.resolvePlainCard(slot, card)
}

// resolveObjectCard samples a sub-event from the family's bag and flips
// the slot to show it.
func (s *Session) resolveObjectCard(slot int, card *Card) {
	if s.maybeActivateDitto(slot) {
		return
	}

	bag := s.bagFor(card.Family)
	sub, err := bag.Next()
	if err != nil {
		s.logError("%s: no valid cards available", card.Family.Name)
		return
	}
	card.Sub = &sub
	card.Text = sub.Text()
	s.lastSubText = sub.Text()

	topic := ResolveLeaderboardTopic(sub.Name, sub.Instruction)
	s.log(log.NewDrawEvent(s.Turn, s.Current, card.Family.Name, sub.Text(), topic.Key()))
	s.refresh()

	if isPenaltyPreviewPhrase(sub.Text()) {
		s.openPenalty(PenaltyFromDeck)
	}

	// A sub-event may carry both an effect and an action; the effect is
	// registered first and the action still runs.
	kind := parseActionKind(sub.Action)

	if sub.Effect != nil {
		if sub.Effect.NeedsTarget {
			// Turn does not advance until the target is picked.
			s.BeginTargetSelection(*sub.Effect, s.Current, func(int) {
				if kind != ActionNone {
					s.runAction(kind)
					return
				}
				s.endTurn()
			})
			return
		}
		s.registerEffect(EffectType(sub.Effect.Type), sub.Effect.Turns, s.Current, -1)
	}

	if kind != ActionNone {
		s.runAction(kind)
		return
	}

	s.endTurn()
}

// runAction dispatches a special action and applies its turn-end verdict.
// A returned Choice suspends the turn until resolved.
func (s *Session) runAction(kind ActionKind) {
	res := s.dispatchAction(kind)
	if res.Choice != nil {
		s.setChoice(res.Choice)
		return
	}
	if res.RefreshCards {
		s.Deal()
	}
	if !res.KeepTurn {
		s.endTurn()
	}
}

// resolvePlainCard handles a literal instruction card.
func (s *Session) resolvePlainCard(slot int, card *Card) {
	player := s.CurrentPlayer()
	text := card.Text

	// Mandatory penalty card.
	if text == penaltyCardText {
		if player.Shield {
			s.consumeStatus(s.Current, ItemShield)
			s.log(log.NewItemEvent(s.Turn, s.Current,
				fmt.Sprintf("%s's Shield blocks the penalty card", player.Name)))
			s.endTurn()
			return
		}
		s.openPenalty(PenaltyFromCard)
		return // turn ends once the penalty is confirmed
	}

	// Item pickup.
	if s.content.IsItem(text) {
		s.grantItem(s.Current, text)
		s.endTurn()
		return
	}

	// Surprise override: the card is hijacked instead of resolving.
	if s.maybeActivateDitto(slot) {
		return
	}

	topic := ResolveLeaderboardTopic("", text)
	s.log(log.NewDrawEvent(s.Turn, s.Current, player.Name, text, topic.Key()))

	// Immunity consumption rule.
	dg := parseDrinkGive(text)
	if player.Immunity && dg.drink > 0 && (hasDrinkPrefix(text) || dg.everybody) {
		s.consumeStatus(s.Current, ItemImmunity)
		s.log(log.NewItemEvent(s.Turn, s.Current,
			fmt.Sprintf("%s's Immunity absorbs the drink", player.Name)))
		s.endTurn()
		return
	}

	if dg.everybody {
		s.log(log.NewDrinkEvent(s.Turn, s.Current, fmt.Sprintf("Everybody drinks %s!", formatAmount(dg.drink))))
		for i := range s.Players {
			s.ApplyDrink(i, dg.drink, text, DrinkOpts{SuppressSelfLog: true})
		}
	} else {
		if dg.drink > 0 {
			s.ApplyDrink(s.Current, dg.drink, text, DrinkOpts{})
		}
		if dg.give > 0 {
			s.Stats.RecordGiveDrinks(s.Current, player.Name, dg.give)
			s.log(log.NewGiveEvent(s.Turn, s.Current,
				fmt.Sprintf("%s hands out %s drinks", player.Name, formatAmount(dg.give))))
		}
	}

	if dg.pure {
		s.endTurn()
		return
	}

	// Anything that is not a pure drink/give statement needs an explicit
	// acknowledgement before the turn advances.
	s.setChoice(s.ackChoice(text))
}

// hasDrinkPrefix reports whether the card text opens with a drink order.
func hasDrinkPrefix(text string) bool {
	return len(text) >= 5 && text[:5] == "Drink"
}

// ackChoice wraps a card text in a single-option blocking prompt.
func (s *Session) ackChoice(text string) *Choice {
	return &Choice{
		Key:     "card_action",
		Title:   "Card",
		Message: text,
		Options: []ChoiceOption{{
			ID:    "ok",
			Label: "Done",
			Run:   func(*ActionContext) ActionResult { return ActionResult{} },
		}},
	}
}

// setChoice installs the one active Choice. Callers must have cleared any
// prior Choice; there is never more than one open.
func (s *Session) setChoice(c *Choice) {
	s.Choice = c
	detail := c.Title
	if c.Message != "" {
		detail = fmt.Sprintf("%s: %s", c.Title, c.Message)
	}
	s.log(log.NewChoiceEvent(s.Turn, s.Current, detail))
	s.refresh()
}

// ChooseOption resolves the open Choice through one option. An unknown id
// is reported and the Choice stays open; a panicking handler likewise
// keeps the modal open for a retry.
func (s *Session) ChooseOption(id string) {
	if s.busy || s.Choice == nil {
		return
	}
	var opt *ChoiceOption
	for i := range s.Choice.Options {
		if s.Choice.Options[i].ID == id {
			opt = &s.Choice.Options[i]
			break
		}
	}
	if opt == nil {
		s.logError("Invalid choice %q, pick one of the offered options.", id)
		return
	}

	s.busy = true
	defer func() { s.busy = false }()

	res, ok := s.runChoiceOption(opt)
	if !ok {
		return
	}
	s.Choice = nil
	if res.Choice != nil {
		s.setChoice(res.Choice)
		return
	}
	if res.RefreshCards {
		s.Deal()
	}
	if !res.KeepTurn {
		s.endTurn()
	}
}

// runChoiceOption executes an option handler, catching panics so a broken
// handler never takes the session down.
func (s *Session) runChoiceOption(opt *ChoiceOption) (res ActionResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("choice handler failed: %v", r)
			ok = false
		}
	}()
	if opt.Run == nil {
		return ActionResult{}, true
	}
	return opt.Run(s.actionContext()), true
}

// --- Penalty flow ---

// openPenalty rolls a penalty card into the single penalty slot. An
// already-open penalty is closed first; at most one is ever open.
func (s *Session) openPenalty(source PenaltySource) {
	if s.Penalty.Shown {
		s.hidePenalty()
	}
	text, err := pickRandom(s.rng, s.content.Penalties)
	if err != nil {
		s.logError("no penalty cards available")
		return
	}
	s.Penalty = penaltyState{
		Shown:        true,
		Card:         text,
		ConfirmArmed: source == PenaltyFromCard,
		Source:       source,
	}
	s.log(log.NewPenaltyEvent(s.Turn, s.Current,
		fmt.Sprintf("Penalty card (%s): %s", source, text)))
	s.refresh()
}

func (s *Session) hidePenalty() {
	s.Penalty = penaltyState{}
}

// ConfirmPenalty applies the open penalty to the current player and
// closes it. A card-sourced penalty also ends the turn.
func (s *Session) ConfirmPenalty() {
	if s.busy || !s.Penalty.Shown {
		return
	}
	if s.Choice != nil || s.Target != nil {
		return
	}
	s.busy = true
	defer func() { s.busy = false }()

	player := s.CurrentPlayer()
	amount, label, ok := drinkTokenAmount(s.Penalty.Card)
	if !ok {
		amount, label = 1, s.Penalty.Card
	}
	s.Stats.RecordPenaltyTaken(s.Current, player.Name, amount)
	s.log(log.NewPenaltyEvent(s.Turn, s.Current,
		fmt.Sprintf("%s takes the penalty: %s", player.Name, label)))

	source := s.Penalty.Source
	s.hidePenalty()
	if source == PenaltyFromCard {
		s.endTurn()
		return
	}
	s.refresh()
}

// ClosePenalty hides a preview penalty without applying it. A mandatory
// card-sourced penalty cannot be dismissed.
func (s *Session) ClosePenalty() {
	if s.busy || !s.Penalty.Shown {
		return
	}
	if s.Choice != nil || s.Target != nil {
		return
	}
	if s.Penalty.Source == PenaltyFromCard {
		s.logInfo("This penalty must be confirmed.")
		return
	}
	s.hidePenalty()
	s.refresh()
}

// --- Turn end & redraw ---

// endTurn rotates ownership of the turn, ticks effects, and deals for the
// next player. An Extra Life is consumed instead of rotating.
func (s *Session) endTurn() {
	s.finishTurn(true)
}

func (s *Session) finishTurn(allowExtraLife bool) {
	p := s.CurrentPlayer()
	if allowExtraLife && p.ExtraLife {
		s.consumeStatus(s.Current, ItemExtraLife)
		s.log(log.NewItemEvent(s.Turn, s.Current,
			fmt.Sprintf("%s burns an Extra Life and goes again!", p.Name)))
	} else {
		n := len(s.Players)
		next := (s.Current + 1) % n
		for i := 0; i < n && s.Players[next].SkipNextTurn; i++ {
			s.Players[next].SkipNextTurn = false
			s.logInfo("%s's turn is skipped.", s.Players[next].Name)
			next = (next + 1) % n
		}
		s.Current = next
	}

	s.TickEffects()
	s.Turn++
	s.redrawUsed = false
	s.log(log.NewTurnEvent(s.Turn, s.Current, s.CurrentPlayer().Name))
	s.refresh()
	s.Deal()
}

// Redraw swaps all three cards, at the price of a penalty card that
// blocks further card interaction until dealt with. Once per turn.
func (s *Session) Redraw() {
	if s.busy || s.Choice != nil || s.Target != nil {
		return
	}
	if s.redrawUsed {
		s.logInfo("Redraw already used this turn.")
		return
	}
	s.busy = true
	defer func() { s.busy = false }()

	s.redrawUsed = true
	s.openPenalty(PenaltyFromRedrawHold)
	s.Deal()
}

// --- Items ---

// UseItem consumes an active item from a player's inventory. Passive
// items trigger on their own and cannot be used by hand.
func (s *Session) UseItem(index int, item string) {
	if s.busy || s.Choice != nil || s.Target != nil {
		return
	}
	if index < 0 || index >= len(s.Players) {
		return
	}
	p := s.Players[index]
	if !p.hasItem(item) {
		s.logInfo("%s does not hold %s.", p.Name, item)
		return
	}

	switch item {
	case ItemRevealFree:
		if s.Revealed[s.hiddenSlot] {
			s.logInfo("Nothing left to reveal.")
			return
		}
		p.removeItem(item)
		s.Revealed[s.hiddenSlot] = true
		s.log(log.NewItemEvent(s.Turn, index,
			fmt.Sprintf("%s uses Reveal Free on the hidden card", p.Name)))
		s.refresh()

	case ItemSkipTurn:
		p.removeItem(item)
		if index == s.Current {
			s.log(log.NewItemEvent(s.Turn, index, fmt.Sprintf("%s skips their own turn", p.Name)))
			s.busy = true
			defer func() { s.busy = false }()
			s.finishTurn(false)
			return
		}
		p.SkipNextTurn = true
		s.log(log.NewItemEvent(s.Turn, index, fmt.Sprintf("%s will skip their next turn", p.Name)))

	case ItemMirror:
		if s.lastSubText == "" {
			s.logInfo("Nothing to mirror yet.")
			return
		}
		p.removeItem(item)
		s.MirrorText = s.lastSubText
		s.beginPlayerPick("Mirror: pick a player to reflect the challenge onto", index, func(target int) {
			s.log(log.NewItemEvent(s.Turn, target,
				fmt.Sprintf("Mirror! %s must: %s", s.Players[target].Name, s.MirrorText)))
			s.MirrorText = ""
		})

	case ItemShield, ItemImmunity, ItemExtraLife:
		s.logInfo("%s is passive and triggers on its own.", item)

	default:
		s.logInfo("%s has no use.", item)
	}
}

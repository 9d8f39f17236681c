package game

import (
	"fmt"

	"github.com/mgeist/partydeck/internal/log"
)

// maybeActivateDitto rolls the surprise chance for a revealed card and
// hijacks the slot on a hit. Returns true if the slot was taken over; the
// turn then waits for a confirm click.
func (s *Session) maybeActivateDitto(slot int) bool {
	if s.rng.Float64() >= s.dittoChance {
		return false
	}
	s.activateDitto(slot)
	return true
}

// activateDitto puts a slot into the Ditto-activated state with a pending
// outcome sampled from the fixed pool.
func (s *Session) activateDitto(slot int) {
	outcome, err := pickRandom(s.rng, dittoOutcomePool)
	if err != nil {
		return
	}
	s.DittoActive[slot] = true
	s.DittoPending[slot] = outcome
	s.dittoArmedAt[slot] = s.now()

	player := s.CurrentPlayer()
	s.Stats.ReplaceCardSelectionKind(s.Current, player.Name, s.Slots[slot].Kind(s.content), KindDitto)
	s.log(log.NewDittoEvent(s.Turn, s.Current,
		fmt.Sprintf("Ditto! %s's card transforms. Click again to see what it was hiding.", player.Name)))
	s.onDittoActivated(s.Current)
	s.refresh()
}

// confirmDitto resolves the stored outcome on the second click. A click
// inside the guard window is treated as part of the activation gesture
// and ignored.
func (s *Session) confirmDitto(slot int) {
	if s.now().Sub(s.dittoArmedAt[slot]) < dittoConfirmGuard {
		return
	}
	outcome := s.DittoPending[slot]
	s.DittoActive[slot] = false
	s.DittoPending[slot] = DittoNone

	s.log(log.NewDittoEvent(s.Turn, s.Current, fmt.Sprintf("Ditto was hiding: %s", outcome)))
	s.resolveDittoOutcome(outcome)
	s.endTurn()
}

func (s *Session) resolveDittoOutcome(outcome DittoOutcome) {
	player := s.CurrentPlayer()

	switch outcome {
	case DittoLoseItemAll:
		for i, p := range s.Players {
			if item, ok := p.removeLastItem(); ok {
				s.syncPassiveFlags(p)
				s.log(log.NewItemEvent(s.Turn, i, fmt.Sprintf("%s loses %s", p.Name, item)))
			}
		}

	case DittoStealItem:
		victim := s.randomOtherPlayer(s.Current)
		if victim < 0 {
			return
		}
		v := s.Players[victim]
		item, ok := v.removeLastItem()
		if !ok {
			s.logInfo("%s had nothing to steal.", v.Name)
			return
		}
		s.syncPassiveFlags(v)
		s.grantItem(s.Current, item)
		s.log(log.NewItemEvent(s.Turn, s.Current,
			fmt.Sprintf("%s steals %s from %s", player.Name, item, v.Name)))

	case DittoDrinkThree:
		if player.Immunity {
			s.consumeStatus(s.Current, ItemImmunity)
			s.log(log.NewItemEvent(s.Turn, s.Current,
				fmt.Sprintf("%s's Immunity absorbs the Ditto drink", player.Name)))
			return
		}
		s.ApplyDrink(s.Current, 3, "Ditto", DrinkOpts{})

	case DittoPenaltyAll:
		s.resolveDittoPenaltyAll()

	case DittoWaterfall:
		s.logInfo("Waterfall! Everybody starts drinking, %s stops first.", player.Name)

	case DittoShot:
		s.logInfo("%s announces a shot round!", player.Name)

	case DittoChallenge:
		s.logInfo("Random challenge! The group picks a dare for %s.", player.Name)
	}
}

// resolveDittoPenaltyAll rolls one penalty value and applies it to every
// player, mediated per player by Shield and Immunity consumption.
func (s *Session) resolveDittoPenaltyAll() {
	text, err := pickRandom(s.rng, s.content.Penalties)
	if err != nil {
		s.logError("no penalty cards available")
		return
	}
	amount, label, ok := drinkTokenAmount(text)
	if !ok {
		amount, label = 1, text
	}

	affected, blocked := 0, 0
	for i, p := range s.Players {
		switch {
		case p.Shield:
			s.consumeStatus(i, ItemShield)
			blocked++
		case p.Immunity:
			s.consumeStatus(i, ItemImmunity)
		default:
			s.Stats.RecordPenaltyTaken(i, p.Name, amount)
			affected++
		}
	}

	summary := fmt.Sprintf("Mass penalty: %s for everyone, %d players affected", label, affected)
	if s.itemsEnabled && blocked > 0 {
		summary += fmt.Sprintf(", %d blocked by Shield", blocked)
	}
	s.log(log.NewPenaltyEvent(s.Turn, s.Current, summary))
}

// randomOtherPlayer picks a uniformly random player other than exclude,
// or -1 if there is none.
func (s *Session) randomOtherPlayer(exclude int) int {
	var others []int
	for i := range s.Players {
		if i != exclude {
			others = append(others, i)
		}
	}
	pick, err := pickRandom(s.rng, others)
	if err != nil {
		return -1
	}
	return pick
}

// syncPassiveFlags re-derives the single-use status flags after inventory
// removal, so losing the item also loses the status.
func (s *Session) syncPassiveFlags(p *Player) {
	p.Shield = p.hasItem(ItemShield)
	p.Immunity = p.hasItem(ItemImmunity)
	p.ExtraLife = p.hasItem(ItemExtraLife)
}

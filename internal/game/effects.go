package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mgeist/partydeck/internal/log"
)

// DrinkOpts tweaks how a drink event is reported.
type DrinkOpts struct {
	SuppressSelfLog bool
	SkipBuddy       bool
}

// registerEffect creates and activates a timed effect.
func (s *Session) registerEffect(typ EffectType, turns, source, target int) *TimedEffect {
	eff := &TimedEffect{
		ID:             uuid.NewString(),
		Type:           typ,
		TotalTurns:     turns,
		RemainingTurns: turns,
		Source:         source,
		Target:         target,
	}
	s.Effects = append(s.Effects, eff)

	detail := fmt.Sprintf("%s active for %d turns", typ.Title(), turns)
	if source >= 0 && target >= 0 && source < len(s.Players) && target < len(s.Players) {
		detail = fmt.Sprintf("%s: %s → %s, %d turns",
			typ.Title(), s.Players[source].Name, s.Players[target].Name, turns)
	}
	s.log(log.NewEffectEvent(s.Turn, source, detail))
	return eff
}

// BeginTargetSelection arms the "pick a target player" protocol for a
// targeted effect. Any prior pending selection is cancelled first; it is
// never silently overwritten elsewhere.
func (s *Session) BeginTargetSelection(spec EffectSpec, source int, onDone func(target int)) {
	s.CancelTargetSelection()
	typ := EffectType(spec.Type)
	s.Target = &pendingTarget{
		Prompt: fmt.Sprintf("%s: pick a player", typ.Title()),
		Source: source,
		onDone: func(target int) {
			s.registerEffect(typ, spec.Turns, source, target)
			if onDone != nil {
				onDone(target)
			}
		},
	}
	s.logInfo("%s: click a player to target", typ.Title())
	s.refresh()
}

// CancelTargetSelection hard-clears any pending target selection.
func (s *Session) CancelTargetSelection() {
	s.Target = nil
}

// beginPlayerPick arms a generic player pick that is not tied to an
// effect (e.g. the Mirror item).
func (s *Session) beginPlayerPick(prompt string, source int, onDone func(target int)) {
	s.CancelTargetSelection()
	s.Target = &pendingTarget{Prompt: prompt, Source: source, onDone: onDone}
	s.logInfo("%s", prompt)
	s.refresh()
}

// ClickPlayer resolves a pending target selection. Self-targeting is
// rejected and the selection stays open. With no pending selection this
// is a defensive no-op.
func (s *Session) ClickPlayer(target int) {
	if s.Target == nil {
		return
	}
	if target < 0 || target >= len(s.Players) {
		return
	}
	if target == s.Target.Source {
		s.logInfo("%s, you cannot pick yourself.", s.Players[target].Name)
		return
	}
	done := s.Target.onDone
	s.Target = nil
	if done != nil {
		done(target)
	}
	s.refresh()
}

// TickEffects decrements every active effect by one turn and removes the
// expired ones. Runs strictly once per turn boundary, after any effect
// created this turn is fully active.
func (s *Session) TickEffects() {
	kept := s.Effects[:0]
	for _, eff := range s.Effects {
		eff.RemainingTurns--
		if eff.RemainingTurns > 0 {
			kept = append(kept, eff)
			continue
		}
		s.log(log.NewEffectEvent(s.Turn, eff.Source, fmt.Sprintf("%s has ended", eff.Type.Title())))
	}
	s.Effects = kept
}

// effectsOfType returns the active effects of a type.
func (s *Session) effectsOfType(typ EffectType) []*TimedEffect {
	var out []*TimedEffect
	for _, eff := range s.Effects {
		if eff.Type == typ && eff.RemainingTurns > 0 {
			out = append(out, eff)
		}
	}
	return out
}

// ApplyDrink is the canonical "a drink happened" hook for a numeric
// amount. It logs, records into the ledger, and echoes to Drink Buddy
// targets.
func (s *Session) ApplyDrink(index int, amount float64, reason string, opts DrinkOpts) {
	if !validAmount(amount) {
		return
	}
	s.applyDrinkLabeled(index, amount, fmt.Sprintf("Drink %s", formatAmount(amount)), reason, opts)
}

// ApplyDrinkText is the textual-token variant: "Drink N", "Shot",
// "Shotgun", or "Shot+Shotgun". Unrecognized text is a silent no-op.
func (s *Session) ApplyDrinkText(index int, text, reason string, opts DrinkOpts) {
	amount, label, ok := drinkTokenAmount(text)
	if !ok {
		return
	}
	s.applyDrinkLabeled(index, amount, label, reason, opts)
}

func (s *Session) applyDrinkLabeled(index int, amount float64, label, reason string, opts DrinkOpts) {
	if index < 0 || index >= len(s.Players) {
		return
	}
	name := s.Players[index].Name

	if !opts.SuppressSelfLog {
		detail := fmt.Sprintf("%s: %s", name, label)
		if reason != "" {
			detail += fmt.Sprintf(" (%s)", reason)
		}
		s.log(log.NewDrinkEvent(s.Turn, index, detail))
	}
	s.Stats.RecordDrinkTaken(index, name, amount)

	if opts.SkipBuddy {
		return
	}
	// Drink Buddy echo: logged for the buddy target, but not recorded in
	// their ledger.
	for _, eff := range s.effectsOfType(EffectDrinkBuddy) {
		if eff.Source != index {
			continue
		}
		if eff.Target < 0 || eff.Target >= len(s.Players) {
			continue
		}
		buddy := s.Players[eff.Target].Name
		s.log(log.NewDrinkEvent(s.Turn, eff.Target,
			fmt.Sprintf("%s drinks too: %s (Drink Buddy of %s)", buddy, label, name)))
	}
}

// onDittoActivated fires the Ditto Magnet hook: if any magnet targets the
// player, exactly one forced Shot happens regardless of how many magnets
// are active.
func (s *Session) onDittoActivated(index int) {
	if index < 0 || index >= len(s.Players) {
		return
	}
	magnetized := false
	for _, eff := range s.effectsOfType(EffectDittoMagnet) {
		if eff.Target == index {
			magnetized = true
			break
		}
	}
	if !magnetized {
		return
	}
	s.log(log.NewDittoEvent(s.Turn, index,
		fmt.Sprintf("%s got a Ditto while magnetized!", s.Players[index].Name)))
	s.ApplyDrinkText(index, "Shot", "Ditto Magnet", DrinkOpts{})
}

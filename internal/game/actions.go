package game

import "fmt"

// ActionResult is a handler's verdict on what happens after it ran. The
// zero value means "done, end the turn".
type ActionResult struct {
	KeepTurn     bool    // suppress the turn advance
	RefreshCards bool    // re-deal the current player's slots
	Choice       *Choice // suspend the turn behind a further Choice
}

// ActionContext is what a special-action handler gets to work with.
type ActionContext struct {
	Session     *Session
	PlayerIndex int
	PlayerName  string
}

func (s *Session) actionContext() *ActionContext {
	return &ActionContext{
		Session:     s,
		PlayerIndex: s.Current,
		PlayerName:  s.CurrentPlayer().Name,
	}
}

// Roll returns a die roll in [1, sides].
func (ctx *ActionContext) Roll(sides int) int {
	return ctx.Session.rng.Intn(sides) + 1
}

// dispatchAction routes a special action to its handler. The switch is
// exhaustive over ActionKind; unknown content-declared actions fall
// through to a harmless default so content can ship ahead of the engine.
func (s *Session) dispatchAction(kind ActionKind) ActionResult {
	ctx := s.actionContext()
	switch kind {
	case ActionD20Duel:
		return s.actionD20Duel(ctx)
	case ActionD6Gamble:
		return s.actionD6Gamble(ctx)
	case ActionMostItems:
		return s.actionItemExtreme(ctx, true)
	case ActionFewestItems:
		return s.actionItemExtreme(ctx, false)
	case ActionGiveOrTake:
		return s.actionGiveOrTake(ctx)
	case ActionDoubleOrNothing:
		return s.actionDoubleOrNothing(ctx)
	case ActionPickYourPoison:
		return s.actionPickYourPoison(ctx)
	case ActionRedraw:
		s.logInfo("%s swaps out their cards.", ctx.PlayerName)
		return ActionResult{KeepTurn: true, RefreshCards: true}
	case ActionUnknown:
		s.logInfo("Nothing happens.")
		return ActionResult{}
	case ActionNone:
		return ActionResult{}
	}
	return ActionResult{}
}

// actionD20Duel pits the player against a random opponent on a d20 each;
// the loser drinks the difference.
func (s *Session) actionD20Duel(ctx *ActionContext) ActionResult {
	opponent := s.randomOtherPlayer(ctx.PlayerIndex)
	if opponent < 0 {
		return ActionResult{}
	}
	mine, theirs := ctx.Roll(20), ctx.Roll(20)
	opName := s.Players[opponent].Name
	s.logInfo("d20 duel: %s rolls %d, %s rolls %d.", ctx.PlayerName, mine, opName, theirs)

	switch {
	case mine == theirs:
		s.logInfo("Tie! Both drink 1.")
		s.ApplyDrink(ctx.PlayerIndex, 1, "d20 duel", DrinkOpts{SuppressSelfLog: true})
		s.ApplyDrink(opponent, 1, "d20 duel", DrinkOpts{SuppressSelfLog: true})
	case mine > theirs:
		s.ApplyDrink(opponent, float64(mine-theirs), "d20 duel", DrinkOpts{})
	default:
		s.ApplyDrink(ctx.PlayerIndex, float64(theirs-mine), "d20 duel", DrinkOpts{})
	}
	return ActionResult{}
}

// actionD6Gamble rolls one d6: even hands out the roll, odd drinks it.
func (s *Session) actionD6Gamble(ctx *ActionContext) ActionResult {
	roll := ctx.Roll(6)
	if roll%2 == 0 {
		s.logInfo("d6 gamble: %s rolls %d and hands out %d drinks.", ctx.PlayerName, roll, roll)
		s.Stats.RecordGiveDrinks(ctx.PlayerIndex, ctx.PlayerName, float64(roll))
		return ActionResult{}
	}
	s.logInfo("d6 gamble: %s rolls %d.", ctx.PlayerName, roll)
	s.ApplyDrink(ctx.PlayerIndex, float64(roll), "d6 gamble", DrinkOpts{})
	return ActionResult{}
}

// actionItemExtreme makes the player(s) holding the most (or fewest)
// items drink 2. Ties all drink.
func (s *Session) actionItemExtreme(ctx *ActionContext, most bool) ActionResult {
	best := len(s.Players[0].Inventory)
	for _, p := range s.Players[1:] {
		n := len(p.Inventory)
		if (most && n > best) || (!most && n < best) {
			best = n
		}
	}
	word := "fewest"
	if most {
		word = "most"
	}
	for i, p := range s.Players {
		if len(p.Inventory) != best {
			continue
		}
		s.logInfo("%s holds the %s items (%d).", p.Name, word, best)
		s.ApplyDrink(i, 2, fmt.Sprintf("%s items", word), DrinkOpts{SuppressSelfLog: true})
	}
	return ActionResult{}
}

func (s *Session) actionGiveOrTake(ctx *ActionContext) ActionResult {
	return ActionResult{Choice: &Choice{
		Key:     "give_or_take",
		Title:   "Give or Take",
		Message: "Hand out 3 drinks, or take 3 yourself.",
		Options: []ChoiceOption{
			{ID: "give", Label: "Give 3", Run: func(c *ActionContext) ActionResult {
				c.Session.Stats.RecordGiveDrinks(c.PlayerIndex, c.PlayerName, 3)
				c.Session.logInfo("%s hands out 3 drinks.", c.PlayerName)
				return ActionResult{}
			}},
			{ID: "take", Label: "Take 3", Run: func(c *ActionContext) ActionResult {
				c.Session.ApplyDrink(c.PlayerIndex, 3, "Give or Take", DrinkOpts{})
				return ActionResult{}
			}},
		},
	}}
}

// actionDoubleOrNothing chains two Choices: settle for 2 drinks, or call
// a coin flip for 4-or-zero.
func (s *Session) actionDoubleOrNothing(ctx *ActionContext) ActionResult {
	flip := func(call string) ChoiceOption {
		return ChoiceOption{ID: call, Label: title(call), Run: func(c *ActionContext) ActionResult {
			landed := "heads"
			if c.Roll(2) == 2 {
				landed = "tails"
			}
			if landed == call {
				c.Session.logInfo("The coin lands %s. %s drinks nothing!", landed, c.PlayerName)
				return ActionResult{}
			}
			c.Session.logInfo("The coin lands %s.", landed)
			c.Session.ApplyDrink(c.PlayerIndex, 4, "Double or Nothing", DrinkOpts{})
			return ActionResult{}
		}}
	}
	return ActionResult{Choice: &Choice{
		Key:     "double_or_nothing",
		Title:   "Double or Nothing",
		Message: "Drink 2 now, or flip a coin for 4-or-zero.",
		Options: []ChoiceOption{
			{ID: "settle", Label: "Drink 2", Run: func(c *ActionContext) ActionResult {
				c.Session.ApplyDrink(c.PlayerIndex, 2, "Double or Nothing", DrinkOpts{})
				return ActionResult{}
			}},
			{ID: "double", Label: "Double it", Run: func(c *ActionContext) ActionResult {
				return ActionResult{Choice: &Choice{
					Key:     "double_or_nothing_call",
					Title:   "Call it",
					Message: "Heads or tails?",
					Options: []ChoiceOption{flip("heads"), flip("tails")},
				}}
			}},
		},
	}}
}

func (s *Session) actionPickYourPoison(ctx *ActionContext) ActionResult {
	return ActionResult{Choice: &Choice{
		Key:     "pick_your_poison",
		Title:   "Pick Your Poison",
		Message: "Choose your fate.",
		Options: []ChoiceOption{
			{ID: "drink", Label: "Drink 2", Run: func(c *ActionContext) ActionResult {
				c.Session.ApplyDrink(c.PlayerIndex, 2, "Pick Your Poison", DrinkOpts{})
				return ActionResult{}
			}},
			{ID: "give", Label: "Give 2", Run: func(c *ActionContext) ActionResult {
				c.Session.Stats.RecordGiveDrinks(c.PlayerIndex, c.PlayerName, 2)
				c.Session.logInfo("%s hands out 2 drinks.", c.PlayerName)
				return ActionResult{}
			}},
			{ID: "mystery", Label: "Mystery", Run: func(c *ActionContext) ActionResult {
				amount := float64(c.Roll(4))
				c.Session.logInfo("Mystery! The poison is %s drinks.", formatAmount(amount))
				c.Session.ApplyDrink(c.PlayerIndex, amount, "Pick Your Poison", DrinkOpts{})
				return ActionResult{}
			}},
		},
	}}
}

func title(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

package game

// --- Enums ---

// CardKind is the fixed statistics vocabulary for card selections.
type CardKind int

const (
	KindNormal CardKind = iota
	KindDrink
	KindGive
	KindMix
	KindPenaltyCall
	KindItem
	KindSocial
	KindCrowd
	KindSpecial
	KindDitto
	numCardKinds
)

func (k CardKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindDrink:
		return "drink"
	case KindGive:
		return "give"
	case KindMix:
		return "mix"
	case KindPenaltyCall:
		return "penaltycall"
	case KindItem:
		return "item"
	case KindSocial:
		return "social"
	case KindCrowd:
		return "crowd"
	case KindSpecial:
		return "special"
	case KindDitto:
		return "ditto"
	default:
		return "unknown"
	}
}

// topKindOrder breaks ties when deriving a player's most-picked kind.
var topKindOrder = [...]CardKind{
	KindDrink, KindMix, KindGive, KindPenaltyCall, KindItem,
	KindSocial, KindCrowd, KindSpecial, KindDitto, KindNormal,
}

// EffectType names a timed status effect. Known types have display titles;
// content may declare further types, which fall back to the raw string.
type EffectType string

const (
	EffectDrinkBuddy  EffectType = "drink_buddy"
	EffectDittoMagnet EffectType = "ditto_magnet"
)

var effectTitles = map[EffectType]string{
	EffectDrinkBuddy:  "Drink Buddy",
	EffectDittoMagnet: "Ditto Magnet",
}

// Title returns the display name for an effect type, falling back to the
// raw type string for types declared only in content.
func (t EffectType) Title() string {
	if title, ok := effectTitles[t]; ok {
		return title
	}
	return string(t)
}

// PenaltySource records where the open penalty slot came from.
type PenaltySource int

const (
	PenaltyNone PenaltySource = iota
	PenaltyFromDeck
	PenaltyFromCard
	PenaltyFromRedraw
	PenaltyFromRedrawHold
)

func (s PenaltySource) String() string {
	switch s {
	case PenaltyFromDeck:
		return "deck"
	case PenaltyFromCard:
		return "card"
	case PenaltyFromRedraw:
		return "redraw"
	case PenaltyFromRedrawHold:
		return "redraw_hold"
	default:
		return "none"
	}
}

// Blocking reports whether this penalty blocks card interaction until it
// is confirmed or explicitly closed.
func (s PenaltySource) Blocking() bool {
	return s == PenaltyFromCard || s == PenaltyFromRedrawHold
}

// DittoOutcome is the closed pool of Ditto surprise resolutions.
type DittoOutcome int

const (
	DittoNone DittoOutcome = iota
	DittoLoseItemAll
	DittoStealItem
	DittoDrinkThree
	DittoWaterfall
	DittoShot
	DittoChallenge
	DittoPenaltyAll
)

func (o DittoOutcome) String() string {
	switch o {
	case DittoLoseItemAll:
		return "Everybody loses an item"
	case DittoStealItem:
		return "Steal a random item"
	case DittoDrinkThree:
		return "Drink 3"
	case DittoWaterfall:
		return "Waterfall"
	case DittoShot:
		return "Shot"
	case DittoChallenge:
		return "Random challenge"
	case DittoPenaltyAll:
		return "Penalty for everyone"
	default:
		return "none"
	}
}

// dittoOutcomePool is the fixed pool sampled on activation.
var dittoOutcomePool = []DittoOutcome{
	DittoLoseItemAll,
	DittoStealItem,
	DittoDrinkThree,
	DittoWaterfall,
	DittoShot,
	DittoChallenge,
	DittoPenaltyAll,
}

// ActionKind is the closed set of special actions the engine implements.
// Content may reference further names; those dispatch to a no-op.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionUnknown
	ActionD20Duel
	ActionD6Gamble
	ActionMostItems
	ActionFewestItems
	ActionGiveOrTake
	ActionDoubleOrNothing
	ActionPickYourPoison
	ActionRedraw
)

func (a ActionKind) String() string {
	switch a {
	case ActionD20Duel:
		return "d20_duel"
	case ActionD6Gamble:
		return "d6_gamble"
	case ActionMostItems:
		return "most_items"
	case ActionFewestItems:
		return "fewest_items"
	case ActionGiveOrTake:
		return "give_or_take"
	case ActionDoubleOrNothing:
		return "double_or_nothing"
	case ActionPickYourPoison:
		return "pick_your_poison"
	case ActionRedraw:
		return "redraw"
	case ActionUnknown:
		return "unknown"
	default:
		return "none"
	}
}

// parseActionKind maps a content action name to its kind. Names without a
// handler dispatch to ActionUnknown, which is a deliberate no-op.
func parseActionKind(name string) ActionKind {
	switch name {
	case "":
		return ActionNone
	case "d20_duel":
		return ActionD20Duel
	case "d6_gamble":
		return ActionD6Gamble
	case "most_items":
		return ActionMostItems
	case "fewest_items":
		return ActionFewestItems
	case "give_or_take":
		return ActionGiveOrTake
	case "double_or_nothing":
		return ActionDoubleOrNothing
	case "pick_your_poison":
		return ActionPickYourPoison
	case "redraw":
		return ActionRedraw
	default:
		return ActionUnknown
	}
}

// StatTopic is the closed set of leaderboard queries.
type StatTopic int

const (
	TopicNone StatTopic = iota
	TopicDrinksTakenMax
	TopicDrinksTakenMin
	TopicDrinksGivenMax
	TopicDrinksGivenMin
	TopicMysteryPicksMax
	TopicPenaltiesMax
	TopicCardsMax
	TopicSocialMax
	TopicCrowdMax
	TopicSpecialMax
	TopicDittoMax
	TopicOverview
)

func (t StatTopic) Key() string {
	switch t {
	case TopicDrinksTakenMax:
		return "drinks_taken_max"
	case TopicDrinksTakenMin:
		return "drinks_taken_min"
	case TopicDrinksGivenMax:
		return "drinks_given_max"
	case TopicDrinksGivenMin:
		return "drinks_given_min"
	case TopicMysteryPicksMax:
		return "mystery_picks_max"
	case TopicPenaltiesMax:
		return "penalties_max"
	case TopicCardsMax:
		return "cards_max"
	case TopicSocialMax:
		return "social_max"
	case TopicCrowdMax:
		return "crowd_max"
	case TopicSpecialMax:
		return "special_max"
	case TopicDittoMax:
		return "ditto_max"
	case TopicOverview:
		return "stats_overview"
	default:
		return ""
	}
}

// ParseStatTopic maps a topic key back to its StatTopic. Unknown keys are
// rejected with TopicNone.
func ParseStatTopic(key string) StatTopic {
	for t := TopicDrinksTakenMax; t <= TopicOverview; t++ {
		if t.Key() == key {
			return t
		}
	}
	return TopicNone
}

package log

// Kind categorizes log lines so sinks can style or filter them.
type Kind int

const (
	KindInfo Kind = iota
	KindTurn
	KindDeal
	KindDraw
	KindDrink
	KindGive
	KindPenalty
	KindEffect
	KindItem
	KindDitto
	KindChoice
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindTurn:
		return "turn"
	case KindDeal:
		return "deal"
	case KindDraw:
		return "draw"
	case KindDrink:
		return "drink"
	case KindGive:
		return "give"
	case KindPenalty:
		return "penalty"
	case KindEffect:
		return "effect"
	case KindItem:
		return "item"
	case KindDitto:
		return "ditto"
	case KindChoice:
		return "choice"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// GameEvent is a single append-only history line. The engine treats the sink
// as fire-and-forget; a sink may independently offer a "show leaderboard"
// affordance when LeaderboardTopic is non-empty.
type GameEvent struct {
	Seq              int    // monotonic sequence number, set by the logger
	Turn             int    // 1-based turn counter
	Player           int    // acting player index, -1 if none
	Kind             Kind   // line category
	LeaderboardTopic string // topic key for the leaderboard affordance, empty if none
	Details          string // human-readable line
}

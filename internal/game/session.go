package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mgeist/partydeck/internal/log"
)

// Item names the engine gives mechanical meaning to. Content lists them;
// unknown item names are carried in inventories but have no behavior.
const (
	ItemShield     = "Shield"
	ItemImmunity   = "Immunity"
	ItemExtraLife  = "Extra Life"
	ItemRevealFree = "Reveal Free"
	ItemSkipTurn   = "Skip Turn"
	ItemMirror     = "Mirror"
)

// dittoConfirmGuard is the window after a Ditto activation during which a
// second click is treated as the same gesture, not a deliberate confirm.
const dittoConfirmGuard = time.Second

// Player is one seated player. The index in Session.Players is their
// stable identity; the name is unique within a session.
type Player struct {
	Name      string
	Inventory []string

	// Single-use statuses, deleted on consumption. Never stacked.
	Shield       bool
	Immunity     bool
	ExtraLife    bool
	SkipNextTurn bool
}

// hasItem reports whether the inventory holds the named item.
func (p *Player) hasItem(name string) bool {
	for _, it := range p.Inventory {
		if it == name {
			return true
		}
	}
	return false
}

// removeItem removes the first inventory occurrence of the named item.
func (p *Player) removeItem(name string) bool {
	for i, it := range p.Inventory {
		if it == name {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// removeLastItem pops the most recently gained item.
func (p *Player) removeLastItem() (string, bool) {
	if len(p.Inventory) == 0 {
		return "", false
	}
	it := p.Inventory[len(p.Inventory)-1]
	p.Inventory = p.Inventory[:len(p.Inventory)-1]
	return it, true
}

// TimedEffect is an active status lasting a fixed number of turns,
// optionally bound to a source and/or target player.
type TimedEffect struct {
	ID             string
	Type           EffectType
	TotalTurns     int
	RemainingTurns int
	Source         int // player index, -1 if none
	Target         int // player index, -1 if none
}

// Card is one dealt slot: either a plain instruction string or an object
// card whose concrete sub-event is sampled when acted on.
type Card struct {
	Text   string
	Family *CardFamily // non-nil for object cards
	Sub    *SubEvent   // resolved sub-event after an object card is acted on
}

// Kind classifies the card for the statistics ledger.
func (c *Card) Kind(content *Content) CardKind {
	if c.Family != nil {
		return c.Family.CardKind()
	}
	return classifyCardText(content, c.Text)
}

// penaltyState is the single active-penalty slot. At most one penalty is
// open at a time; it must be closed before a new one opens.
type penaltyState struct {
	Shown        bool
	Card         string
	ConfirmArmed bool
	Source       PenaltySource
	hintLogged   bool
}

// pendingTarget is the at-most-one "pick a target player" request. While
// active, the turn controller rejects card clicks.
type pendingTarget struct {
	Prompt string
	Source int
	onDone func(target int)
}

// Choice is a suspend-the-turn decision point. Resolving it through
// exactly one option is the only permitted action while it is open.
type Choice struct {
	Key     string
	Title   string
	Message string
	Variant string
	Options []ChoiceOption
}

// ChoiceOption is one mutually exclusive branch of a Choice. Run may
// itself return a further Choice (chaining).
type ChoiceOption struct {
	ID      string
	Label   string
	Variant string
	Run     func(ctx *ActionContext) ActionResult
}

// Config holds everything needed to start a session.
type Config struct {
	PlayerNames []string
	Content     *Content        // nil for the embedded default table
	Logger      log.EventLogger // nil for an in-memory logger
	Seed        int64           // 0 for time-based
	Now         func() time.Time

	// Deal odds. Zero values take the defaults below; set a chance
	// negative to disable it outright (deterministic tests).
	DittoChance    float64
	ItemChance     float64
	ImmunityChance float64
	SocialWeight   float64
	CrowdWeight    float64
	SpecialWeight  float64

	ItemsEnabled *bool // nil means enabled
}

const (
	defaultDittoChance    = 0.08
	defaultItemChance     = 0.10
	defaultImmunityChance = 0.02
	defaultSocialWeight   = 0.15
	defaultCrowdWeight    = 0.12
	defaultSpecialWeight  = 0.10
)

// Session is the complete mutable state of one game. It is explicitly
// constructed and passed by reference; there is no package-level state, so
// multiple sessions can coexist.
type Session struct {
	Players []*Player
	Current int // invariant: 0 <= Current < len(Players)

	Slots      [3]*Card
	Revealed   [3]bool
	hiddenSlot int // the slot dealt face-down this turn

	DittoActive  [3]bool
	DittoPending [3]DittoOutcome
	dittoArmedAt [3]time.Time

	Penalty penaltyState
	Effects []*TimedEffect
	Target  *pendingTarget
	Choice  *Choice

	Stats *Ledger
	bags  map[string]*Bag[SubEvent]

	// Mirror priming: a captured sub-event text awaiting a target player.
	MirrorText string

	Turn        int // 1-based
	redrawUsed  bool
	lastSubText string // most recent resolved sub-event, for the Mirror item

	busy bool // re-entrance guard during multi-step resolution

	content *Content
	rng     *rand.Rand
	now     func() time.Time
	logger  log.EventLogger
	refresh func()

	dittoChance    float64
	itemChance     float64
	immunityChance float64
	socialWeight   float64
	crowdWeight    float64
	specialWeight  float64
	itemsEnabled   bool
}

// NewSession creates a session and deals the first turn.
func NewSession(cfg Config) (*Session, error) {
	if len(cfg.PlayerNames) < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", len(cfg.PlayerNames))
	}
	seen := map[string]bool{}
	for _, name := range cfg.PlayerNames {
		if name == "" {
			return nil, fmt.Errorf("player names must not be empty")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate player name %q", name)
		}
		seen[name] = true
	}

	content := cfg.Content
	if content == nil {
		content = DefaultContent()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		Current: 0,
		Stats:   NewLedger(),
		bags:    make(map[string]*Bag[SubEvent]),
		Turn:    1,
		content: content,
		rng:     rand.New(rand.NewSource(seed)),
		now:     now,
		logger:  logger,
		refresh: func() {},

		dittoChance:    chanceOrDefault(cfg.DittoChance, defaultDittoChance),
		itemChance:     chanceOrDefault(cfg.ItemChance, defaultItemChance),
		immunityChance: chanceOrDefault(cfg.ImmunityChance, defaultImmunityChance),
		socialWeight:   chanceOrDefault(cfg.SocialWeight, defaultSocialWeight),
		crowdWeight:    chanceOrDefault(cfg.CrowdWeight, defaultCrowdWeight),
		specialWeight:  chanceOrDefault(cfg.SpecialWeight, defaultSpecialWeight),
		itemsEnabled:   cfg.ItemsEnabled == nil || *cfg.ItemsEnabled,
	}
	for _, name := range cfg.PlayerNames {
		s.Players = append(s.Players, &Player{Name: name})
	}

	s.log(log.NewTurnEvent(s.Turn, s.Current, s.CurrentPlayer().Name))
	s.Deal()
	return s, nil
}

func chanceOrDefault(v, def float64) float64 {
	if v < 0 {
		return 0
	}
	if v == 0 {
		return def
	}
	return v
}

// CurrentPlayer returns the player whose turn it is.
func (s *Session) CurrentPlayer() *Player {
	return s.Players[s.Current]
}

// PlayerNames returns the seating-order name list.
func (s *Session) PlayerNames() []string {
	names := make([]string, len(s.Players))
	for i, p := range s.Players {
		names[i] = p.Name
	}
	return names
}

// StatsSnapshot returns the ledger snapshot in seating order.
func (s *Session) StatsSnapshot() []PlayerStats {
	return s.Stats.Snapshot(s.PlayerNames())
}

// OnRefresh registers the pull-based UI refresh callback, invoked after
// any state change worth re-rendering.
func (s *Session) OnRefresh(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	s.refresh = fn
}

// RedrawUsed reports whether the current player has spent their redraw.
func (s *Session) RedrawUsed() bool {
	return s.redrawUsed
}

// Logger exposes the session's event sink.
func (s *Session) Logger() log.EventLogger {
	return s.logger
}

// Content exposes the static content table.
func (s *Session) Content() *Content {
	return s.content
}

func (s *Session) log(e log.GameEvent) {
	s.logger.Log(e)
}

func (s *Session) logInfo(format string, args ...any) {
	s.log(log.NewInfoEvent(s.Turn, s.Current, fmt.Sprintf(format, args...)))
}

func (s *Session) logError(format string, args ...any) {
	s.log(log.NewErrorEvent(s.Turn, s.Current, fmt.Sprintf(format, args...)))
}

// grantItem appends an item to the inventory and arms any passive status
// it carries.
func (s *Session) grantItem(index int, name string) {
	if index < 0 || index >= len(s.Players) {
		return
	}
	p := s.Players[index]
	p.Inventory = append(p.Inventory, name)
	switch name {
	case ItemShield:
		p.Shield = true
	case ItemImmunity:
		p.Immunity = true
	case ItemExtraLife:
		p.ExtraLife = true
	}
	s.log(log.NewItemEvent(s.Turn, index, fmt.Sprintf("%s picks up %s", p.Name, name)))
}

// consumeStatus clears a single-use status and drops the matching
// inventory entry.
func (s *Session) consumeStatus(index int, name string) {
	if index < 0 || index >= len(s.Players) {
		return
	}
	p := s.Players[index]
	switch name {
	case ItemShield:
		p.Shield = false
	case ItemImmunity:
		p.Immunity = false
	case ItemExtraLife:
		p.ExtraLife = false
	}
	p.removeItem(name)
}

// bagFor returns the lazily created bag sampler for an object-card
// family. Bags survive across turns so each family's sub-event order
// stays shuffled without repeats.
func (s *Session) bagFor(f *CardFamily) *Bag[SubEvent] {
	bag, ok := s.bags[f.Name]
	if !ok {
		bag = NewBag(s.rng, f.Subcategories, subEventKey)
		s.bags[f.Name] = bag
	}
	return bag
}

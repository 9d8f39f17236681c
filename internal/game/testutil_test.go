package game

import (
	"testing"
	"time"

	"github.com/mgeist/partydeck/internal/log"
)

// fakeClock is a manually advanced clock for the Ditto confirm guard.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// testContent is a minimal deterministic content table: a single-entry
// deck so plain deals are predictable, plus one family per kind.
func testContent() *Content {
	return &Content{
		Deck:  []string{"Tell a story."},
		Items: []string{ItemShield, ItemImmunity, ItemExtraLife, ItemRevealFree, ItemSkipTurn, ItemMirror},
		Families: []CardFamily{
			{
				Name: "Social Challenge",
				Kind: "social",
				Subcategories: []SubEvent{
					{Name: "Drink Buddy", Instruction: "Pick a Drink Buddy. They drink whenever you do.",
						Effect: &EffectSpec{Type: "drink_buddy", Turns: 3, NeedsTarget: true}},
					{Name: "Gamble", Instruction: "Roll the die and live with it.", Action: "d6_gamble"},
				},
			},
			{
				Name: "Special",
				Kind: "special",
				Subcategories: []SubEvent{
					{Name: "Redraw", Instruction: "Swap out your cards.", Action: "redraw"},
				},
			},
		},
		Penalties: []string{"Drink 2"},
	}
}

// newTestSession builds a session with seeded randomness, a fake clock,
// an in-memory logger, and every random chance disabled.
func newTestSession(t *testing.T, mutate ...func(*Config)) (*Session, *log.MemoryLogger, *fakeClock) {
	t.Helper()
	logger := log.NewMemoryLogger()
	clock := newFakeClock()
	cfg := Config{
		PlayerNames:    []string{"Alice", "Bob", "Cara"},
		Content:        testContent(),
		Logger:         logger,
		Seed:           1,
		Now:            clock.Now,
		DittoChance:    -1,
		ItemChance:     -1,
		ImmunityChance: -1,
		SocialWeight:   -1,
		CrowdWeight:    -1,
		SpecialWeight:  -1,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, logger, clock
}

// placeCard puts a known card in slot 0 with everything face-up, so a
// click resolves it immediately. The hidden slot is parked on slot 2.
func placeCard(s *Session, card *Card) {
	s.Slots[0] = card
	s.hiddenSlot = 2
	for i := range s.Revealed {
		s.Revealed[i] = true
	}
}

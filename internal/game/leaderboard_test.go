package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLeaderboardTopic(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
		want        StatTopic
	}{
		{"", "Who has drunk the most? They drink 2.", TopicDrinksTakenMax},
		{"", "Whoever has the fewest drinks catches up.", TopicDrinksTakenMin},
		{"", "The most generous player gives 3.", TopicDrinksGivenMax},
		{"", "Whoever has given the fewest drinks, give 2 now.", TopicDrinksGivenMin},
		{"", "Whoever has given the most drinks, gives 2 more.", TopicDrinksGivenMax},
		{"", "The player with the most mystery picks drinks.", TopicMysteryPicksMax},
		{"", "Most penalties so far? Drink up.", TopicPenaltiesMax},
		{"", "Whoever picked the most cards hands out 2.", TopicCardsMax},
		{"", "The player with the most social challenges drinks.", TopicSocialMax},
		{"", "Most ditto cards drinks 1.", TopicDittoMax},
		{"Statistics", "Read out the statistics.", TopicOverview},
		{"", "Tell a story.", TopicNone},
	}
	for _, tt := range tests {
		got := ResolveLeaderboardTopic(tt.name, tt.instruction)
		assert.Equalf(t, tt.want, got, "ResolveLeaderboardTopic(%q, %q)", tt.name, tt.instruction)
	}
}

func TestBuildLeaderboardMessageListsAllTies(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Stats.RecordDrinkTaken(0, "Alice", 3)
	s.Stats.RecordDrinkTaken(1, "Bob", 3)
	s.Stats.RecordDrinkTaken(2, "Cara", 1)

	msg, ok := BuildLeaderboardMessage(s, TopicDrinksTakenMax)
	require.True(t, ok)
	assert.Equal(t, "Leaderboard (most drinks taken): Alice, Bob (3).", msg)
}

func TestBuildLeaderboardMessageMin(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Stats.RecordDrinkTaken(0, "Alice", 3)
	s.Stats.RecordDrinkTaken(1, "Bob", 1)

	msg, ok := BuildLeaderboardMessage(s, TopicDrinksTakenMin)
	require.True(t, ok)
	// Cara never drank; zero still qualifies for a min topic.
	assert.Equal(t, "Leaderboard (fewest drinks taken): Cara (0).", msg)
}

func TestBuildLeaderboardMessagePositiveOnly(t *testing.T) {
	s, _, _ := newTestSession(t)

	msg, ok := BuildLeaderboardMessage(s, TopicPenaltiesMax)
	require.True(t, ok)
	assert.Equal(t, "Leaderboard (most penalties): nobody qualifies yet.", msg)

	s.Stats.RecordPenaltyTaken(1, "Bob", 2)
	msg, _ = BuildLeaderboardMessage(s, TopicPenaltiesMax)
	assert.Equal(t, "Leaderboard (most penalties): Bob (2).", msg)
}

func TestBuildLeaderboardMessageOverview(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Stats.RecordDrinkTaken(0, "Alice", 2.5)
	s.Stats.RecordGiveDrinks(1, "Bob", 4)
	s.Stats.RecordPenaltyTaken(2, "Cara", 2)
	s.Stats.RecordCardSelection(0, "Alice", KindNormal, true)

	msg, ok := BuildLeaderboardMessage(s, TopicOverview)
	require.True(t, ok)
	assert.Equal(t, "Stats so far: 2.5 drinks taken, 4 drinks given, 1 mystery picks, 2 penalties.", msg)
}

func TestBuildLeaderboardMessageUnknownTopic(t *testing.T) {
	s, _, _ := newTestSession(t)
	_, ok := BuildLeaderboardMessage(s, TopicNone)
	assert.False(t, ok)
}

func TestStatTopicKeyRoundTrip(t *testing.T) {
	for topic := TopicDrinksTakenMax; topic <= TopicOverview; topic++ {
		key := topic.Key()
		require.NotEmpty(t, key)
		assert.Equal(t, topic, ParseStatTopic(key))
	}
	assert.Equal(t, TopicNone, ParseStatTopic("bogus"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "3", formatAmount(3))
	assert.Equal(t, "2.5", formatAmount(2.5))
	assert.Equal(t, "0", formatAmount(0))
}

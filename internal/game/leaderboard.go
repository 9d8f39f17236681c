package game

import (
	"fmt"
	"strings"
)

// topicRule maps card text to a leaderboard topic. Rules are ordered;
// the first rule whose every needle appears in the combined lowercase
// text wins.
type topicRule struct {
	needles []string
	topic   StatTopic
}

var topicRules = []topicRule{
	{[]string{"statistics"}, TopicOverview},
	{[]string{"overview"}, TopicOverview},
	{[]string{"most", "mystery"}, TopicMysteryPicksMax},
	{[]string{"most", "penalt"}, TopicPenaltiesMax},
	{[]string{"penalt"}, TopicPenaltiesMax},
	// Given/generous rules come before the taken rules: "given the most
	// drinks" contains "most drinks" and must not read as drinks taken.
	{[]string{"least generous"}, TopicDrinksGivenMin},
	{[]string{"given the fewest"}, TopicDrinksGivenMin},
	{[]string{"most generous"}, TopicDrinksGivenMax},
	{[]string{"given the most"}, TopicDrinksGivenMax},
	{[]string{"fewest drinks"}, TopicDrinksTakenMin},
	{[]string{"least drinks"}, TopicDrinksTakenMin},
	{[]string{"most drinks"}, TopicDrinksTakenMax},
	{[]string{"drunk the most"}, TopicDrinksTakenMax},
	{[]string{"most cards"}, TopicCardsMax},
	{[]string{"most social"}, TopicSocialMax},
	{[]string{"most crowd"}, TopicCrowdMax},
	{[]string{"most special"}, TopicSpecialMax},
	{[]string{"most ditto"}, TopicDittoMax},
}

// ResolveLeaderboardTopic pattern-matches a card's name and instruction
// against the topic rules. Returns TopicNone when nothing matches; the
// card then carries no leaderboard affordance.
func ResolveLeaderboardTopic(cardName, instruction string) StatTopic {
	text := strings.ToLower(cardName + " " + instruction)
	for _, rule := range topicRules {
		matched := true
		for _, n := range rule.needles {
			if !strings.Contains(text, n) {
				matched = false
				break
			}
		}
		if matched {
			return rule.topic
		}
	}
	return TopicNone
}

// topicMeta describes how to evaluate a max/min topic over the snapshot.
type topicMeta struct {
	label        string
	value        func(PlayerStats) float64
	min          bool
	positiveOnly bool
}

var topicMetas = map[StatTopic]topicMeta{
	TopicDrinksTakenMax:  {"most drinks taken", func(r PlayerStats) float64 { return r.DrinksTaken }, false, false},
	TopicDrinksTakenMin:  {"fewest drinks taken", func(r PlayerStats) float64 { return r.DrinksTaken }, true, false},
	TopicDrinksGivenMax:  {"most drinks given", func(r PlayerStats) float64 { return r.DrinksGiven }, false, false},
	TopicDrinksGivenMin:  {"fewest drinks given", func(r PlayerStats) float64 { return r.DrinksGiven }, true, false},
	TopicMysteryPicksMax: {"most mystery picks", func(r PlayerStats) float64 { return float64(r.MysteryCardsSelected) }, false, true},
	TopicPenaltiesMax:    {"most penalties", func(r PlayerStats) float64 { return r.PenaltiesTaken }, false, true},
	TopicCardsMax:        {"most cards selected", func(r PlayerStats) float64 { return float64(r.CardsSelected) }, false, true},
	TopicSocialMax:       {"most social challenges", func(r PlayerStats) float64 { return float64(r.KindCount(KindSocial)) }, false, true},
	TopicCrowdMax:        {"most crowd challenges", func(r PlayerStats) float64 { return float64(r.KindCount(KindCrowd)) }, false, true},
	TopicSpecialMax:      {"most special cards", func(r PlayerStats) float64 { return float64(r.KindCount(KindSpecial)) }, false, true},
	TopicDittoMax:        {"most dittos", func(r PlayerStats) float64 { return float64(r.KindCount(KindDitto)) }, false, true},
}

// BuildLeaderboardMessage formats a leaderboard query over the current
// statistics snapshot. Unknown topics are rejected with ok=false.
func BuildLeaderboardMessage(s *Session, topic StatTopic) (string, bool) {
	snapshot := s.StatsSnapshot()
	if topic == TopicOverview {
		return buildOverviewMessage(snapshot), true
	}

	meta, ok := topicMetas[topic]
	if !ok {
		return "", false
	}

	var leaders []string
	var best float64
	have := false
	for _, rec := range snapshot {
		v := meta.value(rec)
		if meta.positiveOnly && v <= 0 {
			continue
		}
		switch {
		case !have:
			best = v
			leaders = []string{rec.PlayerName}
			have = true
		case v == best:
			leaders = append(leaders, rec.PlayerName)
		case (meta.min && v < best) || (!meta.min && v > best):
			best = v
			leaders = []string{rec.PlayerName}
		}
	}

	if !have {
		return fmt.Sprintf("Leaderboard (%s): nobody qualifies yet.", meta.label), true
	}
	return fmt.Sprintf("Leaderboard (%s): %s (%s).",
		meta.label, strings.Join(leaders, ", "), formatAmount(best)), true
}

// AnnounceLeaderboard resolves a topic over the live statistics and logs
// the result into the game history. Unknown topics are ignored.
func (s *Session) AnnounceLeaderboard(topic StatTopic) {
	msg, ok := BuildLeaderboardMessage(s, topic)
	if !ok {
		return
	}
	s.logInfo("%s", msg)
	s.refresh()
}

// buildOverviewMessage composes the four fixed overview facts.
func buildOverviewMessage(snapshot []PlayerStats) string {
	var drinks, given, penalties float64
	mystery := 0
	for _, rec := range snapshot {
		drinks += rec.DrinksTaken
		given += rec.DrinksGiven
		penalties += rec.PenaltiesTaken
		mystery += rec.MysteryCardsSelected
	}
	return fmt.Sprintf("Stats so far: %s drinks taken, %s drinks given, %d mystery picks, %s penalties.",
		formatAmount(drinks), formatAmount(given), mystery, formatAmount(penalties))
}

// formatAmount renders a drink amount without a trailing ".0".
func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

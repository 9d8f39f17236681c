package game

import (
	"regexp"
	"strconv"
	"strings"
)

// penaltyCardText is the literal plain card forcing the mandatory
// penalty-confirm flow.
const penaltyCardText = "Draw a Penalty Card"

var (
	drinkRe     = regexp.MustCompile(`(?i)\bdrinks?\s+(\d+(?:\.\d+)?)`)
	giveRe      = regexp.MustCompile(`(?i)\bgive\s+(\d+(?:\.\d+)?)`)
	everybodyRe = regexp.MustCompile(`(?i)^everybody drinks\s+(\d+(?:\.\d+)?)`)

	// A "pure" statement is nothing but a drink/give instruction; anything
	// else needs the blocking card-action prompt.
	pureRe = regexp.MustCompile(`(?i)^(everybody drinks \d+(?:\.\d+)?|drink \d+(?:\.\d+)?(?: and give \d+(?:\.\d+)?)?|give \d+(?:\.\d+)?)[.!]?$`)

	// Explicit "roll/reveal/draw penalty ... now" wording opens a
	// non-blocking penalty preview.
	penaltyPreviewRe = regexp.MustCompile(`(?i)\b(roll|reveal|draw)\b[^.!?]*\bpenalty\b[^.!?]*\bnow\b`)

	drinkTokenRe = regexp.MustCompile(`(?i)^drink\s+(\d+(?:\.\d+)?)$`)
)

// drinkGive is the parse result of a plain card's text.
type drinkGive struct {
	drink     float64
	give      float64
	everybody bool
	pure      bool
}

func parseDrinkGive(text string) drinkGive {
	var dg drinkGive
	if m := everybodyRe.FindStringSubmatch(text); m != nil {
		dg.drink, _ = strconv.ParseFloat(m[1], 64)
		dg.everybody = true
	} else {
		if m := drinkRe.FindStringSubmatch(text); m != nil {
			dg.drink, _ = strconv.ParseFloat(m[1], 64)
		}
		if m := giveRe.FindStringSubmatch(text); m != nil {
			dg.give, _ = strconv.ParseFloat(m[1], 64)
		}
	}
	dg.pure = pureRe.MatchString(strings.TrimSpace(text))
	return dg
}

// isPenaltyPreviewPhrase reports whether a sub-event's text asks for an
// immediate penalty preview.
func isPenaltyPreviewPhrase(text string) bool {
	return penaltyPreviewRe.MatchString(text)
}

// drinkTokenAmount resolves the recognized drink tokens to an amount and
// display label. Unrecognized text returns ok=false; callers treat that as
// a silent no-op.
func drinkTokenAmount(text string) (amount float64, label string, ok bool) {
	switch text {
	case "Shot":
		return 1, "Shot", true
	case "Shotgun":
		return 2, "Shotgun", true
	case "Shot+Shotgun":
		return 3, "Shot+Shotgun", true
	}
	if m := drinkTokenRe.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, "", false
		}
		return v, "Drink " + m[1], true
	}
	return 0, "", false
}

// classifyCardText derives the statistics kind of a plain card.
func classifyCardText(c *Content, text string) CardKind {
	if c.IsItem(text) {
		return KindItem
	}
	if text == penaltyCardText || strings.Contains(strings.ToLower(text), "penalty") {
		return KindPenaltyCall
	}
	dg := parseDrinkGive(text)
	switch {
	case dg.drink > 0 && dg.give > 0:
		return KindMix
	case dg.drink > 0:
		return KindDrink
	case dg.give > 0:
		return KindGive
	default:
		return KindNormal
	}
}

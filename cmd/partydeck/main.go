package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mgeist/partydeck/internal/game"
	"github.com/mgeist/partydeck/internal/log"
)

func main() {
	players := flag.String("players", "", "comma-separated player names in seating order")
	contentFile := flag.String("content", "", "path to a content YAML file (default: embedded)")
	seed := flag.Int64("seed", 0, "RNG seed for a reproducible game")
	noItems := flag.Bool("no-items", false, "disable item cards")
	flag.Parse()

	names := splitNames(*players)
	if len(names) < 2 {
		fmt.Fprintln(os.Stderr, "usage: partydeck -players Alice,Bob[,...]")
		os.Exit(2)
	}

	var content *game.Content
	if *contentFile != "" {
		c, err := game.LoadContent(*contentFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		content = c
	}

	itemsEnabled := !*noItems
	s, err := game.NewSession(game.Config{
		PlayerNames:  names,
		Content:      content,
		Logger:       log.NewTextLogger(os.Stdout),
		Seed:         *seed,
		ItemsEnabled: &itemsEnabled,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s.OnRefresh(func() { render(s) })
	render(s)

	fmt.Println(`Commands: card N | player N | choose ID | confirm | close | redraw | use N ITEM | board TOPIC | quit`)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if !dispatch(s, strings.Fields(scanner.Text())) {
			return
		}
	}
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var names []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func dispatch(s *game.Session, fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	arg := func(i int) int {
		if i >= len(fields) {
			return -1
		}
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return -1
		}
		return n
	}

	switch fields[0] {
	case "card", "c":
		s.ClickCard(arg(1))
	case "player", "p":
		s.ClickPlayer(arg(1))
	case "choose", "ch":
		if len(fields) > 1 {
			s.ChooseOption(fields[1])
		}
	case "confirm":
		s.ConfirmPenalty()
	case "close":
		s.ClosePenalty()
	case "redraw", "r":
		s.Redraw()
	case "use", "u":
		if len(fields) > 2 {
			s.UseItem(arg(1), strings.Join(fields[2:], " "))
		}
	case "board", "b":
		if len(fields) > 1 {
			s.AnnounceLeaderboard(game.ParseStatTopic(fields[1]))
		}
	case "stats":
		printStats(s)
	case "quit", "q":
		printStats(s)
		return false
	default:
		fmt.Println("unknown command")
	}
	return true
}

func render(s *game.Session) {
	fmt.Printf("\n[%s's turn]\n", s.CurrentPlayer().Name)
	for i, c := range s.Slots {
		switch {
		case c == nil:
			continue
		case s.DittoActive[i]:
			fmt.Printf("  (%d) *** DITTO ***\n", i)
		case !s.Revealed[i]:
			fmt.Printf("  (%d) [face-down]\n", i)
		default:
			fmt.Printf("  (%d) %s\n", i, c.Text)
		}
	}
	if s.Penalty.Shown {
		fmt.Printf("  PENALTY: %s (confirm/close)\n", s.Penalty.Card)
	}
	if s.Target != nil {
		fmt.Printf("  PICK: %s\n", s.Target.Prompt)
	}
	if s.Choice != nil {
		fmt.Printf("  CHOICE: %s", s.Choice.Title)
		if s.Choice.Message != "" {
			fmt.Printf(" - %s", s.Choice.Message)
		}
		fmt.Println()
		for _, opt := range s.Choice.Options {
			fmt.Printf("    [%s] %s\n", opt.ID, opt.Label)
		}
	}
}

func printStats(s *game.Session) {
	fmt.Println("\nFinal standings:")
	for _, rec := range s.StatsSnapshot() {
		line := fmt.Sprintf("  %-12s cards=%d mystery=%d drinks=%.1f given=%.1f penalties=%.1f",
			rec.PlayerName, rec.CardsSelected, rec.MysteryCardsSelected,
			rec.DrinksTaken, rec.DrinksGiven, rec.PenaltiesTaken)
		if top, ok := rec.TopKind(); ok {
			line += " top=" + top.String()
		}
		fmt.Println(line)
	}
}

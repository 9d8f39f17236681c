package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mgeist/partydeck/internal/game"
)

// activeSession is the singleton game session (one per stdio process).
var activeSession *GameSession

// contentFile is an optional content YAML override, set by main.
var contentFile string

// SetContentFile sets the content YAML path used by start_game.
func SetContentFile(path string) {
	contentFile = path
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(getStateTool(), handleGetState)
	s.AddTool(clickCardTool(), handleClickCard)
	s.AddTool(pickPlayerTool(), handlePickPlayer)
	s.AddTool(chooseOptionTool(), handleChooseOption)
	s.AddTool(confirmPenaltyTool(), handleConfirmPenalty)
	s.AddTool(closePenaltyTool(), handleClosePenalty)
	s.AddTool(redrawTool(), handleRedraw)
	s.AddTool(useItemTool(), handleUseItem)
	s.AddTool(leaderboardTool(), handleLeaderboard)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new party game session. Players act in the given seating order; "+
			"the host reads cards aloud and relays clicks through the other tools."),
		mcp.WithString("players", mcp.Required(),
			mcp.Description("Comma-separated player names in seating order (at least 2, unique)")),
		mcp.WithNumber("seed", mcp.Description("Optional RNG seed for a reproducible game")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current game state and the events since the last call. Read-only."))
}

func clickCardTool() mcp.Tool {
	return mcp.NewTool("click_card",
		mcp.WithDescription("Click one of the three card slots for the current player. "+
			"A hidden slot is revealed first; a second click acts on it."),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("Slot index 0-2")),
	)
}

func pickPlayerTool() mcp.Tool {
	return mcp.NewTool("pick_player",
		mcp.WithDescription("Resolve a pending target selection (effect target or Mirror). "+
			"Self-targeting is rejected and the selection stays open."),
		mcp.WithNumber("player", mcp.Required(), mcp.Description("Target player index")),
	)
}

func chooseOptionTool() mcp.Tool {
	return mcp.NewTool("choose_option",
		mcp.WithDescription("Resolve the open choice by option id. Use when the state carries a choice."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Option id from the choice's options list")),
	)
}

func confirmPenaltyTool() mcp.Tool {
	return mcp.NewTool("confirm_penalty",
		mcp.WithDescription("Apply the open penalty card to the current player and close it."))
}

func closePenaltyTool() mcp.Tool {
	return mcp.NewTool("close_penalty",
		mcp.WithDescription("Dismiss an open penalty preview without applying it. "+
			"Mandatory penalties cannot be dismissed."))
}

func redrawTool() mcp.Tool {
	return mcp.NewTool("redraw",
		mcp.WithDescription("Swap all three cards at the price of a penalty card. Once per turn."))
}

func useItemTool() mcp.Tool {
	return mcp.NewTool("use_item",
		mcp.WithDescription("Use an active item from a player's inventory (Reveal Free, Skip Turn, Mirror). "+
			"Passive items trigger on their own."),
		mcp.WithNumber("player", mcp.Required(), mcp.Description("Holder's player index")),
		mcp.WithString("item", mcp.Required(), mcp.Description("Item name, e.g. 'Mirror'")),
	)
}

func leaderboardTool() mcp.Tool {
	return mcp.NewTool("leaderboard",
		mcp.WithDescription("Announce a leaderboard for a stats topic into the game log. "+
			"Topic keys appear on card draw events (e.g. 'drinks_taken_max', 'stats_overview')."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Topic key")),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	players := strings.Split(request.GetString("players", ""), ",")
	for i := range players {
		players[i] = strings.TrimSpace(players[i])
	}
	seed := int64(request.GetInt("seed", 0))

	sess, err := NewGameSession(players, contentFile, seed)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	activeSession = sess
	return mcp.NewToolResultText(respondJSON(sess.do(nil))), nil
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(respondJSON(sess.do(nil))), nil
}

func handleClickCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	slot := request.GetInt("slot", -1)
	resp := sess.do(func(s *game.Session) { s.ClickCard(slot) })
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handlePickPlayer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	player := request.GetInt("player", -1)
	resp := sess.do(func(s *game.Session) { s.ClickPlayer(player) })
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleChooseOption(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	id := request.GetString("id", "")
	resp := sess.do(func(s *game.Session) { s.ChooseOption(id) })
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleConfirmPenalty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	resp := sess.do(func(s *game.Session) { s.ConfirmPenalty() })
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleClosePenalty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	resp := sess.do(func(s *game.Session) { s.ClosePenalty() })
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleRedraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	resp := sess.do(func(s *game.Session) { s.Redraw() })
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleUseItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	player := request.GetInt("player", -1)
	item := request.GetString("item", "")
	resp := sess.do(func(s *game.Session) { s.UseItem(player, item) })
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	topic := game.ParseStatTopic(request.GetString("topic", ""))
	if topic == game.TopicNone {
		return mcp.NewToolResultError("Unknown topic key."), nil
	}
	resp := sess.do(func(s *game.Session) { s.AnnounceLeaderboard(topic) })
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func requireSession() (*GameSession, *mcp.CallToolResult) {
	if activeSession == nil {
		return nil, mcp.NewToolResultError("No game is running. Use start_game first.")
	}
	return activeSession, nil
}

package mcp

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/peterkuimelis/cardstorm/internal/sim"
	cardstormweb "github.com/peterkuimelis/cardstorm/internal/web"
)

// RegisterTools adds all simulator tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(listCardsTool(), handleListCards)
	s.AddTool(getCardTool(), handleGetCard)
	s.AddTool(listMonstersTool(), handleListMonsters)
	s.AddTool(simulateTool(), handleSimulate)
	s.AddTool(getStateTool(), handleGetState)
	s.AddTool(getTooltipsTool(), handleGetTooltips)
}

// --- Tool definitions ---

func listCardsTool() mcp.Tool {
	return mcp.NewTool("list_cards",
		mcp.WithDescription("List every card and skill in the database with its id, title, kind, and tier names."),
	)
}

func getCardTool() mcp.Tool {
	return mcp.NewTool("get_card",
		mcp.WithDescription("Get the full definition of one card: tier attributes, tooltip templates, tags, and available enchantments."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Card id or display title")),
	)
}

func listMonstersTool() mcp.Tool {
	return mcp.NewTool("list_monsters",
		mcp.WithDescription("List the encounter monsters by day, with health and board contents."),
	)
}

func simulateTool() mcp.Tool {
	return mcp.NewTool("simulate",
		mcp.WithDescription("Run a full fight between two sides and store the replay. Each side is either a monster preset name "+
			"or a custom board given in the sides JSON. Returns a run_id for get_state and get_tooltips, the event log, and the outcome."),
		mcp.WithString("p1_monster", mcp.Description("Monster preset for player 1")),
		mcp.WithString("p2_monster", mcp.Description("Monster preset for player 2")),
		mcp.WithString("sides", mcp.Description(`Optional JSON array of two side configs, e.g. `+
			`[{"health":1000,"cards":[{"card":"pyg_blade","tier":"bronze"}]},{"monster":"Pyg Brawler"}]. Overrides the monster params.`)),
		mcp.WithNumber("max_ticks", mcp.Description("Stop after this many ticks (0 = run until the fight resolves)")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get one stored state of a completed run. Pass tick in milliseconds to page through the replay; omit it for the final state. Read-only."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run id returned by simulate")),
		mcp.WithNumber("tick", mcp.Description("Simulation time in ms (rounded down to the stored tick, clamped to the run length)")),
	)
}

func getTooltipsTool() mcp.Tool {
	return mcp.NewTool("get_tooltips",
		mcp.WithDescription("Expand the tooltips of one board entry at a stored state, reflecting runtime buffs at that tick."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run id returned by simulate")),
		mcp.WithNumber("player", mcp.Required(), mcp.Description("Player index: 0 or 1")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Board position of the entry")),
		mcp.WithNumber("tick", mcp.Description("Simulation time in ms (omit for the final state)")),
	)
}

// --- Response shapes ---

// TierDetail is one tier of a card in the get_card response.
type TierDetail struct {
	Name       string             `json:"name"`
	Attributes map[string]float64 `json:"attributes,omitempty"`
	AbilityIDs []string           `json:"ability_ids,omitempty"`
	AuraIDs    []string           `json:"aura_ids,omitempty"`
	TooltipIDs []int              `json:"tooltip_ids,omitempty"`
}

// CardDetail is the get_card response body.
type CardDetail struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Kind         string       `json:"kind"`
	Size         string       `json:"size,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	HiddenTags   []string     `json:"hidden_tags,omitempty"`
	Tooltips     []string     `json:"tooltips,omitempty"`
	Tiers        []TierDetail `json:"tiers"`
	Enchantments []string     `json:"enchantments,omitempty"`
}

// SimulateResult is the simulate response body.
type SimulateResult struct {
	RunID      string                       `json:"run_id"`
	Frames     int                          `json:"frames"`
	FinalTick  int                          `json:"final_tick"`
	Result     string                       `json:"result"`
	Events     []cardstormweb.EventViewJSON `json:"events"`
	FinalState *cardstormweb.StateView      `json:"final_state"`
}

// StateResult is the get_state response body.
type StateResult struct {
	RunID  string                  `json:"run_id"`
	Frames int                     `json:"frames"`
	State  *cardstormweb.StateView `json:"state"`
	Result string                  `json:"result"`
}

// TooltipsResult is the get_tooltips response body.
type TooltipsResult struct {
	Card     string   `json:"card"`
	Tier     string   `json:"tier,omitempty"`
	Tick     int      `json:"tick"`
	Tooltips []string `json:"tooltips"`
}

// --- Tool handlers ---

func handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if db == nil {
		return mcp.NewToolResultError("No database loaded."), nil
	}
	return mcp.NewToolResultText(respondJSON(cardstormweb.CardList(db))), nil
}

func handleGetCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if db == nil {
		return mcp.NewToolResultError("No database loaded."), nil
	}

	id := request.GetString("id", "")
	card, err := db.Card(id)
	if err != nil {
		card, err = db.CardByTitle(id)
	}
	if err != nil {
		return mcp.NewToolResultErrorf("Card %q not found.", id), nil
	}

	detail := CardDetail{
		ID:         card.ID,
		Title:      card.Title,
		Kind:       card.Kind.String(),
		Size:       card.Size.String(),
		Tags:       card.Tags,
		HiddenTags: card.HiddenTags,
		Tooltips:   card.Tooltips,
	}
	for _, t := range card.Tiers {
		td := TierDetail{
			Name:       t.Name,
			AbilityIDs: t.AbilityIDs,
			AuraIDs:    t.AuraIDs,
			TooltipIDs: t.TooltipIDs,
		}
		if len(t.Attributes) > 0 {
			td.Attributes = make(map[string]float64, len(t.Attributes))
			for a, v := range t.Attributes {
				td.Attributes[a.String()] = v
			}
		}
		detail.Tiers = append(detail.Tiers, td)
	}
	for name := range card.Enchantments {
		detail.Enchantments = append(detail.Enchantments, name)
	}
	sort.Strings(detail.Enchantments)

	return mcp.NewToolResultText(respondJSON(detail)), nil
}

func handleListMonsters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if db == nil {
		return mcp.NewToolResultError("No database loaded."), nil
	}
	return mcp.NewToolResultText(respondJSON(cardstormweb.MonsterList(db))), nil
}

func handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if db == nil {
		return mcp.NewToolResultError("No database loaded."), nil
	}

	var sides [2]sim.SideConfig
	if sidesJSON := request.GetString("sides", ""); sidesJSON != "" {
		if err := json.Unmarshal([]byte(sidesJSON), &sides); err != nil {
			return mcp.NewToolResultErrorf("Invalid sides JSON: %v", err), nil
		}
	} else {
		sides[0].Monster = request.GetString("p1_monster", "")
		sides[1].Monster = request.GetString("p2_monster", "")
		if sides[0].Monster == "" || sides[1].Monster == "" {
			return mcp.NewToolResultError("Provide p1_monster and p2_monster, or a sides JSON array."), nil
		}
	}

	maxTicks := request.GetInt("max_ticks", 0)
	if maxTicks <= 0 {
		maxTicks = sim.Unbounded
	}

	sess, err := startRun(sides, maxTicks)
	if err != nil {
		return mcp.NewToolResultErrorf("Simulation failed: %v", err), nil
	}

	final := sess.States[len(sess.States)-1]
	resp := SimulateResult{
		RunID:      sess.ID,
		Frames:     len(sess.States),
		FinalTick:  final.Tick,
		Result:     sess.Result,
		Events:     eventViews(sess.Events),
		FinalState: cardstormweb.BuildStateView(final),
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := getSession(request.GetString("run_id", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("%v. Use simulate first.", err), nil
	}

	gs := stateAtTick(sess, request.GetInt("tick", -1))
	resp := StateResult{
		RunID:  sess.ID,
		Frames: len(sess.States),
		State:  cardstormweb.BuildStateView(gs),
		Result: sess.Result,
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetTooltips(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := getSession(request.GetString("run_id", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("%v. Use simulate first.", err), nil
	}

	player := request.GetInt("player", -1)
	if player != 0 && player != 1 {
		return mcp.NewToolResultError("player must be 0 or 1"), nil
	}

	gs := stateAtTick(sess, request.GetInt("tick", -1))

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(gs.Players[player].Board) {
		return mcp.NewToolResultErrorf("Invalid index %d. Board has %d entries.", index, len(gs.Players[player].Board)), nil
	}

	tooltips, err := sim.Tooltips(gs, player, index)
	if err != nil {
		return mcp.NewToolResultErrorf("Tooltip expansion failed: %v", err), nil
	}

	entry := gs.Players[player].Board[index]
	resp := TooltipsResult{
		Card:     entry.Title,
		Tier:     entry.Tier,
		Tick:     gs.Tick,
		Tooltips: tooltips,
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

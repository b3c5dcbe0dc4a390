package hub

import (
	"slices"
	"strings"

	"github.com/tmarlow/cashout-backend/internal/engine"
	"github.com/tmarlow/cashout-backend/pkg/types"
)

// sanitize builds the client-safe view of a game: transport bindings and
// hidden pending amounts are stripped, net gain is derived.
func sanitize(g *engine.Game) types.GameSnapshot {
	players := make([]types.PlayerView, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, types.PlayerView{
			Name:           p.Name,
			Cash:           p.Cash,
			Bankrupt:       p.Bankrupt,
			Jailed:         p.Jailed,
			ActionTaken:    p.ActionTaken,
			NetGain:        p.Cash - p.RoundStartCash,
			AccusationSent: p.AccusationSent,
		})
	}

	snap := types.GameSnapshot{
		ID:              g.ID,
		MaxPlayers:      g.MaxPlayers,
		Players:         players,
		State:           string(g.Phase),
		Round:           g.Round,
		ActionsReceived: g.ActionsReceived,
		Bank:            g.Bank,
	}
	for _, a := range g.PendingActions {
		snap.PendingActions = append(snap.PendingActions, types.PendingActionView{Name: a.Name, Amount: a.Amount})
	}
	if r := g.AccusationResult; r != nil {
		snap.AccusationResult = &types.AccusationResultView{Accused: r.Accused, Guilty: r.Guilty, Amount: r.Amount}
	}
	if b := g.BalanceReveal; b != nil {
		snap.TemporaryShowBalance = &types.BalanceRevealView{PlayerName: b.PlayerName, Cash: b.Cash}
	}
	return snap
}

// openGames lists joinable and running games, sorted for a stable wire order.
func (h *Hub) openGames() []types.OpenGame {
	list := make([]types.OpenGame, 0, len(h.games))
	for _, g := range h.games {
		if !g.Open() {
			continue
		}
		list = append(list, types.OpenGame{ID: g.ID, Players: len(g.Players), MaxPlayers: g.MaxPlayers})
	}
	slices.SortFunc(list, func(a, b types.OpenGame) int { return strings.Compare(a.ID, b.ID) })
	return list
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// accusingGame builds a game sitting in the accusing phase with every
// player's settled pending amount still recorded.
func accusingGame(cash int, amounts map[string]int, names ...string) *Game {
	g := testGame(cash, names...)
	for name, amount := range amounts {
		p := g.FindPlayer(name)
		p.ActionTaken = true
		p.PendingAmount = amount
	}
	g.Phase = PhaseAccusing
	return g
}

func TestResolve_GuiltyPartialPayout(t *testing.T) {
	g := accusingGame(1000, map[string]int{"dan": -100}, "ann", "bob", "cat", "dan")
	g.FindPlayer("dan").Cash = 150
	g.AccusationVotes = map[string]int{"dan": 3, PassVote: 1}

	resolveAccusation(g)

	r := g.AccusationResult
	require.NotNil(t, r)
	require.True(t, r.Guilty)
	require.Equal(t, "dan", r.Accused)
	// nominal total owed, not the 150 actually paid
	require.Equal(t, 300, r.Amount)

	dan := g.FindPlayer("dan")
	require.Equal(t, 0, dan.Cash)
	require.True(t, dan.Bankrupt)
	require.Equal(t, 1050, g.FindPlayer("ann").Cash)
	require.Equal(t, 1050, g.FindPlayer("bob").Cash)
	require.Equal(t, 1050, g.FindPlayer("cat").Cash)
}

func TestResolve_GuiltySolventPaysInFull(t *testing.T) {
	g := accusingGame(1000, map[string]int{"cat": -50}, "ann", "bob", "cat")
	g.AccusationVotes = map[string]int{"cat": 2}

	resolveAccusation(g)

	r := g.AccusationResult
	require.NotNil(t, r)
	require.True(t, r.Guilty)
	require.Equal(t, 100, r.Amount)

	require.Equal(t, 900, g.FindPlayer("cat").Cash)
	require.False(t, g.FindPlayer("cat").Bankrupt)
	require.Equal(t, 1050, g.FindPlayer("ann").Cash)
	require.Equal(t, 1050, g.FindPlayer("bob").Cash)
}

func TestResolve_GuiltyFlooredShareRemainderGoesToBank(t *testing.T) {
	g := accusingGame(1000, map[string]int{"dan": -100}, "ann", "bob", "cat", "dan")
	g.FindPlayer("dan").Cash = 100

	g.AccusationVotes = map[string]int{"dan": 3}

	resolveAccusation(g)

	// actual payout 100 over 3 players: 33 each, 1 to the bank
	require.Equal(t, 1033, g.FindPlayer("ann").Cash)
	require.Equal(t, 1033, g.FindPlayer("bob").Cash)
	require.Equal(t, 1033, g.FindPlayer("cat").Cash)
	require.Equal(t, 1, g.Bank)
	require.Equal(t, 0, g.FindPlayer("dan").Cash)
	require.True(t, g.FindPlayer("dan").Bankrupt)
}

func TestResolve_InnocentTaxesAccusers(t *testing.T) {
	g := accusingGame(1000, map[string]int{"ann": 100}, "ann", "bob", "cat")
	g.FindPlayer("cat").Cash = 30
	g.AccusationVotes = map[string]int{"ann": 2}

	resolveAccusation(g)

	r := g.AccusationResult
	require.NotNil(t, r)
	require.False(t, r.Guilty)
	require.Equal(t, "ann", r.Accused)
	// actual collected: bob pays 100, cat pays their last 30
	require.Equal(t, 130, r.Amount)

	require.Equal(t, 1130, g.FindPlayer("ann").Cash)
	require.Equal(t, 900, g.FindPlayer("bob").Cash)
	cat := g.FindPlayer("cat")
	require.Equal(t, 0, cat.Cash)
	require.True(t, cat.Bankrupt)
}

func TestResolve_NoVerdictCases(t *testing.T) {
	cases := []struct {
		name  string
		votes map[string]int
		setup func(*Game)
	}{
		{name: "unanimous pass", votes: map[string]int{PassVote: 3}},
		{name: "top two tie", votes: map[string]int{"ann": 1, "bob": 1, PassVote: 1}},
		{name: "pass plurality", votes: map[string]int{PassVote: 2, "ann": 1}},
		{name: "pass ties the leader", votes: map[string]int{"ann": 2, PassVote: 2}},
		{name: "accused unknown", votes: map[string]int{"zed": 3}},
		{
			name:  "accused already jailed",
			votes: map[string]int{"bob": 3},
			setup: func(g *Game) { g.FindPlayer("bob").Jailed = true },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := accusingGame(1000, map[string]int{"ann": -100, "bob": -100}, "ann", "bob", "cat")
			if tc.setup != nil {
				tc.setup(g)
			}
			g.AccusationVotes = tc.votes

			resolveAccusation(g)

			require.Nil(t, g.AccusationResult)
			// no money moved
			for _, p := range g.Players {
				if !p.Jailed {
					require.Equal(t, 1000, p.Cash, p.Name)
				}
			}
			require.Equal(t, 0, g.Bank)
			// the round still advances
			require.Equal(t, 2, g.Round)
		})
	}
}

func TestResolve_VerdictGuiltyIffWithdrew(t *testing.T) {
	cases := []struct {
		name       string
		amount     int
		wantGuilty bool
	}{
		{name: "withdrew", amount: -1, wantGuilty: true},
		{name: "deposited", amount: 1, wantGuilty: false},
		{name: "did nothing", amount: 0, wantGuilty: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := accusingGame(1000, map[string]int{"ann": tc.amount}, "ann", "bob", "cat")
			g.AccusationVotes = map[string]int{"ann": 2}

			resolveAccusation(g)

			require.NotNil(t, g.AccusationResult)
			require.Equal(t, tc.wantGuilty, g.AccusationResult.Guilty)
		})
	}
}

func TestResolve_RollsOverRound(t *testing.T) {
	g := accusingGame(1000, map[string]int{"ann": 100, "bob": -50}, "ann", "bob")
	g.ActionsReceived = 2
	g.PendingActions = []PendingAction{{Name: "ann", Amount: 100}}
	for _, p := range g.Players {
		p.AccusationSent = true
	}
	g.AccusationVotes = map[string]int{PassVote: 2}

	resolveAccusation(g)

	require.Equal(t, 2, g.Round)
	require.Equal(t, 0, g.ActionsReceived)
	require.Nil(t, g.PendingActions)
	for _, p := range g.Players {
		require.False(t, p.ActionTaken, p.Name)
		require.False(t, p.AccusationSent, p.Name)
		require.Equal(t, 0, p.PendingAmount, p.Name)
	}
}

func TestResolve_DisconnectedSolventPlayerStillPaidOut(t *testing.T) {
	g := accusingGame(1000, map[string]int{"cat": -100}, "ann", "bob", "cat")
	g.FindPlayer("bob").ClientID = "" // disconnected, keeps economic state
	g.AccusationVotes = map[string]int{"cat": 2}

	resolveAccusation(g)

	require.Equal(t, 1100, g.FindPlayer("ann").Cash)
	require.Equal(t, 1100, g.FindPlayer("bob").Cash)
	require.Equal(t, 800, g.FindPlayer("cat").Cash)
}

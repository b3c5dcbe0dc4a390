package engine

import (
	"cmp"
	"slices"
)

type voteEntry struct {
	Name  string
	Count int
}

// resolveAccusation turns the accumulated votes into a verdict and moves the
// money, then rolls the game over into the next round. No verdict is produced
// when the vote passes unanimously, when the top two counts tie, or when the
// plurality winner is the pass bucket; the round still advances.
//
// A guilty accused owes |amount| to every other solvent player; they pay at
// most their cash and go bankrupt on a shortfall. The reported amount is the
// nominal total owed. An innocent accused taxes every other solvent player
// |amount|; a player who cannot pay contributes their remaining cash and goes
// bankrupt. The reported amount is the total actually collected.
func resolveAccusation(g *Game) {
	tally := make([]voteEntry, 0, len(g.AccusationVotes))
	for name, count := range g.AccusationVotes {
		tally = append(tally, voteEntry{Name: name, Count: count})
	}
	slices.SortFunc(tally, func(a, b voteEntry) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if accused := pluralityWinner(g, tally); accused != nil {
		judge(g, accused)
	}

	// round rollover
	g.Round++
	g.ActionsReceived = 0
	g.PendingActions = nil
	for _, p := range g.Players {
		p.ActionTaken = false
		p.PendingAmount = 0
		p.AccusationSent = false
	}
}

// pluralityWinner picks the accused, or nil when no verdict should be
// reached. The winner must be a named player, strictly ahead of the runner-up
// (passes count as a candidate), and still in play.
func pluralityWinner(g *Game, tally []voteEntry) *Player {
	if len(tally) == 0 || tally[0].Name == PassVote {
		return nil
	}
	if len(tally) > 1 && tally[0].Count == tally[1].Count {
		return nil
	}
	p := g.FindPlayer(tally[0].Name)
	if p == nil || p.Jailed || p.Bankrupt {
		return nil
	}
	return p
}

func judge(g *Game, accused *Player) {
	// economic state survives disconnection, so payouts and taxes include
	// disconnected players
	var others []*Player
	for _, p := range g.Players {
		if p != accused && !p.Jailed && !p.Bankrupt {
			others = append(others, p)
		}
	}

	amount := accused.PendingAmount
	if amount < 0 {
		// guilty: they withdrew this round
		payout := -amount
		totalOwed := payout * len(others)
		actual := min(accused.Cash, totalOwed)
		share := 0
		if len(others) > 0 {
			share = actual / len(others)
		}
		for _, p := range others {
			p.Cash += share
		}
		accused.Cash -= actual
		// flooring leaves at most len(others)-1 behind; it goes to the bank
		g.Bank += actual - share*len(others)
		if actual < totalOwed {
			accused.Bankrupt = true
		}
		g.AccusationResult = &AccusationResult{Accused: accused.Name, Guilty: true, Amount: totalOwed}
		return
	}

	// innocent: the accusers pay the tax
	tax := amount
	collected := 0
	for _, p := range others {
		if p.Cash >= tax {
			p.Cash -= tax
			collected += tax
		} else {
			collected += p.Cash
			p.Cash = 0
			p.Bankrupt = true
		}
	}
	accused.Cash += collected
	g.AccusationResult = &AccusationResult{Accused: accused.Name, Guilty: false, Amount: collected}
}

package engine

import "slices"

// settle reconciles the round's hidden transactions against the bank.
// Deposits apply first, smallest first; withdrawals apply most-negative
// first. Whether a withdrawal succeeds depends on the bank balance at the
// moment it is evaluated, so this magnitude ordering is a deliberate
// deterministic policy, independent of submission order. A withdrawal the
// bank cannot cover charges the player min(|amount|, cash) instead, jails
// them for one round, and bankrupts them if it empties their cash.
func settle(g *Game) {
	// jail imposed by the previous settlement expires now
	for _, p := range g.Players {
		p.Jailed = false
	}
	for _, p := range g.Players {
		p.RoundStartCash = p.Cash
	}

	var deposits, withdrawals []*Player
	for _, p := range g.Players {
		if !p.ActionTaken {
			continue
		}
		switch {
		case p.PendingAmount > 0:
			deposits = append(deposits, p)
		case p.PendingAmount < 0:
			withdrawals = append(withdrawals, p)
		}
	}
	// stable: equal amounts keep join order
	slices.SortStableFunc(deposits, func(a, b *Player) int { return a.PendingAmount - b.PendingAmount })
	slices.SortStableFunc(withdrawals, func(a, b *Player) int { return a.PendingAmount - b.PendingAmount })

	for _, p := range deposits {
		p.Cash -= p.PendingAmount
		g.Bank += p.PendingAmount
	}
	for _, p := range withdrawals {
		amount := p.PendingAmount
		if g.Bank+amount >= 0 {
			p.Cash -= amount
			g.Bank += amount
			continue
		}
		charge := min(-amount, p.Cash)
		p.Cash -= charge
		g.Bank += charge
		p.Jailed = true
		if p.Cash == 0 {
			p.Bankrupt = true
		}
	}

	g.PendingActions = make([]PendingAction, 0, len(deposits)+len(withdrawals))
	for _, p := range deposits {
		g.PendingActions = append(g.PendingActions, PendingAction{Name: p.Name, Amount: p.PendingAmount})
	}
	for _, p := range withdrawals {
		g.PendingActions = append(g.PendingActions, PendingAction{Name: p.Name, Amount: p.PendingAmount})
	}
}

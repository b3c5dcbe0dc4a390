package types

// OpenGame is one row of the public game list.
type OpenGame struct {
	ID         string `json:"id"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
}

// PlayerView is a player as clients see them: no transport handle, no hidden
// pending amount. NetGain is cash relative to the start of the round.
type PlayerView struct {
	Name           string `json:"name"`
	Cash           int    `json:"cash"`
	Bankrupt       bool   `json:"bankrupt"`
	Jailed         bool   `json:"jailed"`
	ActionTaken    bool   `json:"actionTaken"`
	NetGain        int    `json:"netGain"`
	AccusationSent bool   `json:"accusationSent"`
}

type PendingActionView struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

type AccusationResultView struct {
	Accused string `json:"accused"`
	Guilty  bool   `json:"guilty"`
	Amount  int    `json:"amount"`
}

type BalanceRevealView struct {
	PlayerName string `json:"playerName"`
	Cash       int    `json:"cash"`
}

// GameSnapshot is the sanitized per-game state pushed to every client on any
// change.
type GameSnapshot struct {
	ID                   string                `json:"id"`
	MaxPlayers           int                   `json:"maxPlayers"`
	Players              []PlayerView          `json:"players"`
	State                string                `json:"state"`
	Round                int                   `json:"round"`
	ActionsReceived      int                   `json:"actionsReceived"`
	Bank                 int                   `json:"bank"`
	TemporaryShowBalance *BalanceRevealView    `json:"temporaryShowBalance,omitempty"`
	PendingActions       []PendingActionView   `json:"pendingActions,omitempty"`
	AccusationResult     *AccusationResultView `json:"accusationResult,omitempty"`
}

package types

// ClientMessage is the envelope every client command arrives in.
type ClientMessage struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

type Payload struct {
	GameID     string  `json:"gameId,omitempty"`
	PlayerName string  `json:"playerName,omitempty"`
	Amount     int     `json:"amount,omitempty"`
	Accused    *string `json:"accused"` // nil = pass
	Emoji      string  `json:"emoji,omitempty"`
}

// ServerMessage covers every outbound shape: typed notices (gameCreated,
// error, emoji, gameDeleted) and the bare gamesList / gameState pushes.
type ServerMessage struct {
	Type       string        `json:"type,omitempty"`
	GameID     string        `json:"gameId,omitempty"`
	Message    string        `json:"message,omitempty"`
	PlayerName string        `json:"playerName,omitempty"`
	Emoji      string        `json:"emoji,omitempty"`
	GamesList  []OpenGame    `json:"gamesList,omitempty"`
	GameState  *GameSnapshot `json:"gameState,omitempty"`
}

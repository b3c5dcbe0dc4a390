package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmarlow/cashout-backend/internal/engine"
	"github.com/tmarlow/cashout-backend/internal/hub"
	"github.com/tmarlow/cashout-backend/pkg/types"
)

// Handler upgrades the connection, registers it with the hub, and pumps
// messages both ways until the client goes away.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		out := make(chan types.ServerMessage, 16)

		if !h.Send(hub.Join{ClientID: clientID, Outbox: out}) {
			return
		}
		defer h.Send(hub.Leave{ClientID: clientID})

		// Writer goroutine; ends when the hub closes the outbox.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop. No read deadline: players sit idle for whole rounds.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","message":"bad json"}`))
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","message":"unknown type"}`))
				continue
			}

			if !h.Send(hub.FromClient{ClientID: clientID, Cmd: cmd}) {
				return
			}
		}
	}
}

func toCommand(m types.ClientMessage) (hub.Command, bool) {
	p := m.Payload
	switch m.Type {
	case "CREATE_GAME":
		return hub.Command{Type: hub.CmdCreateGame, PlayerName: p.PlayerName}, true
	case "JOIN_GAME":
		return hub.Command{Type: hub.CmdJoinGame, GameID: p.GameID, PlayerName: p.PlayerName}, true
	case "START_GAME":
		return hub.Command{Type: hub.CmdStartGame, GameID: p.GameID}, true
	case "PLAYER_ACTION":
		return hub.Command{Type: hub.CmdPlayerAction, GameID: p.GameID, PlayerName: p.PlayerName, Amount: p.Amount}, true
	case "ACCUSE":
		accused := engine.PassVote
		if p.Accused != nil {
			accused = *p.Accused
		}
		return hub.Command{Type: hub.CmdAccuse, GameID: p.GameID, PlayerName: p.PlayerName, Accused: accused}, true
	case "ANIMATIONS_DONE":
		return hub.Command{Type: hub.CmdAnimationsDone, GameID: p.GameID}, true
	case "SHOW_BALANCE":
		return hub.Command{Type: hub.CmdShowBalance, GameID: p.GameID, PlayerName: p.PlayerName}, true
	case "GET_GAMES":
		return hub.Command{Type: hub.CmdGetGames}, true
	case "GET_GAME_STATE":
		return hub.Command{Type: hub.CmdGetGameState, GameID: p.GameID}, true
	case "DELETE_GAME":
		return hub.Command{Type: hub.CmdDeleteGame, GameID: p.GameID}, true
	case "EMOJI":
		return hub.Command{Type: hub.CmdEmoji, Emoji: p.Emoji}, true
	default:
		return hub.Command{}, false
	}
}

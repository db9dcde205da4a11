/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"github.com/mitchellh/mapstructure"
)

// Message is a frame coming from a client.
type Message struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

// Envelope is a frame sent to a client.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Client -> server events
const (
	EventSetPlayerName  = "set_player_name"
	EventJoinLobby      = "join_lobby"
	EventToggleReady    = "toggle_ready"
	EventSelectGame     = "select_game"
	EventStartGame      = "start_game"
	EventJoinGame       = "join_game"
	EventMovePlayer     = "move_player"
	EventJoinFakinIt    = "join_fakinit_game"
	EventFakinItAnswer  = "fakinit_submit_answer"
	EventFakinItVote    = "fakinit_vote"
	EventJoinFictionary = "join_fictionary_game"
	EventFictionaryDef  = "fictionary_submit_definition"
	EventFictionaryVote = "fictionary_vote"
	EventJoinScript     = "join_scriptionary_game"
	EventScriptDef      = "scriptionary_submit_definition"
	EventScriptVote     = "scriptionary_vote"
	EventJoinPacMan     = "join_pacman_game"
	EventPacManMove     = "pacman_move"
)

// Server -> client events shared by every game
const (
	EventConnected       = "connected"
	EventRejected        = "request_rejected"
	EventLobbyJoined     = "lobby_joined"
	EventLobbyUpdate     = "lobby_update"
	EventGameStarting    = "game_starting"
	EventJoinGameSuccess = "join_game_success"
	EventStateUpdate     = "state_update"
	EventRemovePlayer    = "remove_player"
)

func transitionEvent(a Activity) string {
	return "transition_to_" + a.String()
}

type setNameRequest struct {
	Name string `json:"name"`
}

type selectGameRequest struct {
	Game string `json:"game" validate:"required"`
}

type moveSpriteRequest struct {
	Axis  string `json:"axis" validate:"oneof=x y"`
	Force int    `json:"force" validate:"oneof=-1 1"`
}

type joinSessionRequest struct {
	PlayerName string `json:"playerName" validate:"max=12"`
}

type answerRequest struct {
	Answer string `json:"answer" validate:"required,max=280"`
}

type definitionRequest struct {
	Definition string `json:"definition" validate:"required,max=280"`
}

type fakerVoteRequest struct {
	SuspectedFaker string `json:"suspectedFaker" validate:"required"`
}

type definitionVoteRequest struct {
	DefinitionID string `json:"definitionId" validate:"required"`
}

type pacmanMoveRequest struct {
	Direction string `json:"direction" validate:"oneof=up down left right"`
}

// Rejection tells a client why its request had no effect.
type Rejection struct {
	Request string `json:"request"`
	Reason  string `json:"reason"`
}

// Standing is one line of a final scoreboard.
type Standing struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// decodeInto copies an inbound data map onto a typed request using the
// request's json tag names.
func decodeInto(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return dec.Decode(data)
}

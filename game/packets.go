package game

import (
	"encoding/json"

	"cardczar/domain"
)

// Client packet types.
const (
	TypeCreateGame     = "create-game"
	TypeJoinGame       = "join-game"
	TypeStartGame      = "start-game"
	TypeNewRound       = "new-round"
	TypeCardSelected   = "card-selected"
	TypeWinnerSelected = "winner-selected"
	TypeEndGame        = "end-game"
	TypeReconnectGame  = "reconnect-game"
)

// Server packet types.
const (
	TypeGameCreated     = "game-created"
	TypeGameJoined      = "game-joined"
	TypePlayerConnected = "player-connected"
	TypeGameStarted     = "game-started"
	TypeNewRoundHost    = "new-round-host"
	TypeCardPlayed      = "card-played"
	TypeCardPlayedHost  = "card-played-host"
	TypeFindWinner      = "find-winner"
	TypeWinnerFound     = "winner-found"
	TypeGameEnded       = "game-ended"
	TypeReconnected     = "reconnected"
	TypeErrorMessage    = "error-message"
)

// ClientPacket is one inbound event. Type selects the action; the other
// fields are that action's payload.
type ClientPacket struct {
	Type     string `json:"type"`
	Code     string `json:"code,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	CardId   string `json:"cardId,omitempty"`
	GameCode string `json:"gameCode,omitempty"`
	PlayerId string `json:"playerId,omitempty"`
}

type ServerPacket struct {
	Type string `json:"type"`

	Code         string         `json:"code,omitempty"`
	GameCode     string         `json:"gameCode,omitempty"`
	PlayerId     string         `json:"playerId,omitempty"`
	Nickname     string         `json:"nickname,omitempty"`
	PlayerCount  int            `json:"playerCount,omitempty"`
	BlackCard    *domain.Card   `json:"blackCard,omitempty"`
	Cards        []domain.Card  `json:"cards,omitempty"`
	Judge        string         `json:"judge,omitempty"`
	CardId       string         `json:"cardId,omitempty"`
	PlayedCards  []domain.Card  `json:"playedCards,omitempty"`
	Card         *domain.Card   `json:"card,omitempty"`
	Winner       string         `json:"winner,omitempty"`
	Wins         int            `json:"wins,omitempty"`
	Reconnected  *bool          `json:"reconnected,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// encode can only fail on unsupported types, which these packets never
// contain.
func (p ServerPacket) encode() []byte {
	data, _ := json.Marshal(p)
	return data
}

func MakePacketGameCreated(code string) ServerPacket {
	return ServerPacket{Type: TypeGameCreated, Code: code}
}

func MakePacketGameJoined(gameCode, playerId, nickname string) ServerPacket {
	return ServerPacket{Type: TypeGameJoined, GameCode: gameCode, PlayerId: playerId, Nickname: nickname}
}

func MakePacketPlayerConnected(playerCount int) ServerPacket {
	return ServerPacket{Type: TypePlayerConnected, PlayerCount: playerCount}
}

func MakePacketGameStarted() ServerPacket {
	return ServerPacket{Type: TypeGameStarted}
}

func MakePacketNewRoundHost(blackCard domain.Card) ServerPacket {
	return ServerPacket{Type: TypeNewRoundHost, BlackCard: &blackCard}
}

// MakePacketNewRound carries one player's private hand; it is addressed
// to that player only, never broadcast.
func MakePacketNewRound(cards []domain.Card, judgeSession string) ServerPacket {
	return ServerPacket{Type: TypeNewRound, Cards: cards, Judge: judgeSession}
}

func MakePacketCardPlayed(cardId string) ServerPacket {
	return ServerPacket{Type: TypeCardPlayed, CardId: cardId}
}

func MakePacketCardPlayedHost(playedCards []domain.Card) ServerPacket {
	return ServerPacket{Type: TypeCardPlayedHost, PlayedCards: playedCards}
}

func MakePacketFindWinner(playedCards []domain.Card) ServerPacket {
	return ServerPacket{Type: TypeFindWinner, PlayedCards: playedCards}
}

func MakePacketWinnerFound(card domain.Card) ServerPacket {
	return ServerPacket{Type: TypeWinnerFound, Card: &card}
}

func MakePacketGameEnded(winnerId string, wins int) ServerPacket {
	return ServerPacket{Type: TypeGameEnded, Winner: winnerId, Wins: wins}
}

func MakePacketGameEndedEarly() ServerPacket {
	return ServerPacket{Type: TypeGameEnded}
}

func MakePacketReconnected(ok bool) ServerPacket {
	return ServerPacket{Type: TypeReconnected, Reconnected: &ok}
}

func MakePacketError(message string) ServerPacket {
	return ServerPacket{Type: TypeErrorMessage, ErrorMessage: message}
}

package game

import "cardczar/domain"

// CardMax is the hand size every player is refilled to when dealing.
const CardMax = 10

// Player is a participant's game-scoped identity. The id is permanent
// for the game's lifetime; sessionId is rebound on reconnect.
type Player struct {
	id        string
	sessionId string
	nickname  string
	cards     []domain.Card

	// Disconnects never remove a player from the roster, they only set
	// this flag. Removal would break judge rotation and historical move
	// attribution.
	disconnected bool
	// Set when the player reconnected during the current round, cleared
	// when the next round starts.
	reconnected bool
}

func NewPlayer(id, sessionId, nickname string) *Player {
	return &Player{
		id:        id,
		sessionId: sessionId,
		nickname:  nickname,
		cards:     make([]domain.Card, 0, CardMax),
	}
}

func (p *Player) Id() string {
	return p.id
}

func (p *Player) SessionId() string {
	return p.sessionId
}

func (p *Player) Nickname() string {
	return p.nickname
}

func (p *Player) DisplayName() string {
	if p.nickname == "" {
		return "Player " + p.id
	}
	return p.nickname
}

func (p *Player) Hand() []domain.Card {
	hand := make([]domain.Card, len(p.cards))
	copy(hand, p.cards)
	return hand
}

func (p *Player) cardInHand(cardId string) (domain.Card, bool) {
	for _, card := range p.cards {
		if card.Id == cardId {
			return card, true
		}
	}
	return domain.Card{}, false
}

func (p *Player) removeCard(cardId string) {
	for i, card := range p.cards {
		if card.Id == cardId {
			p.cards = append(p.cards[:i], p.cards[i+1:]...)
			return
		}
	}
}

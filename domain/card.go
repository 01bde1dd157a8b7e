package domain

// CardCategory splits the deck into prompts and responses.
type CardCategory string

const (
	CategoryBlack CardCategory = "black" // prompt, one per round
	CategoryWhite CardCategory = "white" // response, held in hands
)

// Card is immutable once constructed. A dealt white card belongs to
// exactly one hand until it is played, then to that round's move record.
type Card struct {
	Id       string       `json:"id"`
	Text     string       `json:"text"`
	Category CardCategory `json:"category"`
}

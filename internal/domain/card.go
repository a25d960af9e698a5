package domain

// Suits in a standard deck.
var Suits = []string{"S", "H", "D", "C"}

// Ranks in deal order. Aces are counted as 11 until the hand demotes them.
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

var rankValues = map[string]int{
	"A": 11, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
	"8": 8, "9": 9, "10": 10, "J": 10, "Q": 10, "K": 10,
}

// Card is a single playing card. Equality is by (Suit, Rank).
type Card struct {
	Suit string // "S","H","D","C"
	Rank string // "A","2".."10","J","Q","K"
}

// Value returns the blackjack point value. Aces count 11 here; demotion to 1
// is the hand's job.
func (c Card) Value() int {
	return rankValues[c.Rank]
}

// IsAce reports whether the card is an ace.
func (c Card) IsAce() bool {
	return c.Rank == "A"
}

func (c Card) String() string {
	return c.Rank + c.Suit
}

// NormalizeUpcard collapses the ten-valued ranks to "10" for reporting keys.
// Aces keep their own bucket.
func NormalizeUpcard(rank string) string {
	switch rank {
	case "J", "Q", "K":
		return "10"
	}
	return rank
}

package domain

import (
	"math/rand"
	"time"
)

// Shoe is the working population of not-yet-dealt cards for a round or trial.
type Shoe struct {
	cards []Card
	rng   *rand.Rand
}

// NewShoe returns a full shuffled 52-card shoe.
// rng may be nil to use a time-seeded default.
func NewShoe(rng *rand.Rand) *Shoe {
	s := &Shoe{rng: ensureRng(rng)}
	s.rebuild()
	return s
}

// NewShoeExcluding builds a shuffled shoe with one matching instance removed
// per known card. This is how trials draw from a population consistent with
// everything already visible on the table without fixing the hidden cards.
func NewShoeExcluding(known []Card, rng *rand.Rand) *Shoe {
	s := &Shoe{rng: ensureRng(rng), cards: fullDeck()}
	for _, k := range known {
		for i, c := range s.cards {
			if c == k {
				s.cards = append(s.cards[:i], s.cards[i+1:]...)
				break
			}
		}
	}
	s.Shuffle()
	return s
}

func ensureRng(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rng
}

func fullDeck() []Card {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return cards
}

func (s *Shoe) rebuild() {
	s.cards = fullDeck()
	s.Shuffle()
}

// Shuffle randomizes the draw order in place.
func (s *Shoe) Shuffle() {
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Deal removes and returns the top card. An exhausted shoe rebuilds a fresh
// 52-card population rather than failing; per-trial shoes are sized so this
// only triggers in ordinary sequential play.
func (s *Shoe) Deal() Card {
	if len(s.cards) == 0 {
		s.rebuild()
	}
	c := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return c
}

// DealRank removes and returns the first card of the given rank, searching
// the whole shoe. ok is false when no card of that rank remains.
func (s *Shoe) DealRank(rank string) (Card, bool) {
	for i, c := range s.cards {
		if c.Rank == rank {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// Return puts cards back into the shoe. Used by filtered dealing to undo a
// rejected opening deal before reshuffling.
func (s *Shoe) Return(cards ...Card) {
	s.cards = append(s.cards, cards...)
}

// Size returns the number of cards left to draw.
func (s *Shoe) Size() int {
	return len(s.cards)
}

// Cards returns a copy of the remaining cards.
func (s *Shoe) Cards() []Card {
	return append([]Card(nil), s.cards...)
}

// Clone returns an independent copy sharing the rng source.
func (s *Shoe) Clone() *Shoe {
	return &Shoe{cards: append([]Card(nil), s.cards...), rng: s.rng}
}

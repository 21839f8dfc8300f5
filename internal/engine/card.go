// Package engine implements the 6 nimmt! table rules.
//
// The package is pure: it performs no I/O, holds no locks, and mutates only
// the values passed to it. The room layer (internal/game) drives it in
// response to player actions and owns all synchronization.
package engine

const (
	// DeckSize is the number of cards in a full deck, numbered 1..DeckSize.
	DeckSize = 104

	// NumRows is the number of rows on the table during an active game.
	NumRows = 4

	// RowCapacity is the maximum row length; the card after the fifth
	// forces a take instead of extending the row.
	RowCapacity = 5

	// HandSize is the number of cards dealt to each player. Hands deplete
	// exactly over MaxRounds turns.
	HandSize = 10

	// MaxRounds is the number of turns in a game.
	MaxRounds = 10
)

// Card is a face value in 1..DeckSize. The penalty weight is derived from
// the value and never stored.
type Card uint8

// NoCard represents the absence of a card.
const NoCard Card = 0

// Penalty returns the penalty weight printed on the card:
//   - 55 → 7
//   - multiples of 11 → 5
//   - multiples of 10 → 3
//   - remaining multiples of 5 → 2
//   - everything else → 1
//
// 55 must be checked before the mod-11 rule, and mod-10 before mod-5.
func (c Card) Penalty() int {
	n := int(c)
	switch {
	case n == 55:
		return 7
	case n%11 == 0:
		return 5
	case n%10 == 0:
		return 3
	case n%5 == 0:
		return 2
	default:
		return 1
	}
}

// DeckPenaltyTotal is the fixed sum of penalty weights over a full deck:
// 7 + 8*5 + 10*3 + 9*2 + 76*1.
const DeckPenaltyTotal = 171

// NewDeck returns all DeckSize cards in ascending order.
func NewDeck() []Card {
	deck := make([]Card, DeckSize)
	for i := range deck {
		deck[i] = Card(i + 1)
	}
	return deck
}

// Rand is a xorshift64 generator. The zero value is invalid; use NewRand.
type Rand struct {
	state uint64
}

// NewRand seeds a generator. A zero seed is remapped, xorshift cannot
// start at 0.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{state: seed}
}

func (r *Rand) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.next() % uint64(n))
}

// Shuffle permutes deck in place with a Fisher-Yates walk.
func Shuffle(deck []Card, r *Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal shuffles a fresh deck and splits it into one hand per player plus
// the four single-card starting rows. Hands are contiguous slices of the
// shuffled deck, in seat order. The rest of the deck is discarded; it is
// never drawn from again.
func Deal(numPlayers int, r *Rand) (hands [][]Card, starters [NumRows]Card) {
	deck := NewDeck()
	Shuffle(deck, r)

	hands = make([][]Card, numPlayers)
	for p := 0; p < numPlayers; p++ {
		hand := make([]Card, HandSize)
		copy(hand, deck[p*HandSize:(p+1)*HandSize])
		hands[p] = hand
	}

	next := numPlayers * HandSize
	for i := 0; i < NumRows; i++ {
		starters[i] = deck[next+i]
	}
	return hands, starters
}

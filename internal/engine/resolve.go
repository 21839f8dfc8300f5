package engine

import "sort"

// Row is an ascending run of cards on the table. Length stays in
// [1, RowCapacity]; the would-be sixth card always triggers a take.
type Row []Card

// Last returns the highest card of the row.
func (w Row) Last() Card {
	return w[len(w)-1]
}

// PenaltySum returns the total penalty weight of the row.
func (w Row) PenaltySum() int {
	sum := 0
	for _, c := range w {
		sum += c.Penalty()
	}
	return sum
}

// Board holds the four table rows.
type Board struct {
	Rows [NumRows]Row
}

// NewBoard builds a board of four single-card rows.
func NewBoard(starters [NumRows]Card) Board {
	var b Board
	for i, c := range starters {
		b.Rows[i] = Row{c}
	}
	return b
}

// targetRow returns the index of the row whose last card is closest below
// c. Ties on the difference break toward the lowest index. ok is false when
// c is smaller than every row's last card.
func (b *Board) targetRow(c Card) (idx int, ok bool) {
	best := -1
	bestDiff := int(DeckSize) + 1
	for i, row := range b.Rows {
		diff := int(c) - int(row.Last())
		if diff > 0 && diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// place appends c to the row at idx. A full row is taken instead: the
// penalty of its five cards is returned and the row restarts with c alone.
// The displaced cards leave the game.
func (b *Board) place(idx int, c Card) (penalty int) {
	row := b.Rows[idx]
	if len(row) == RowCapacity {
		penalty = row.PenaltySum()
		b.Rows[idx] = Row{c}
		return penalty
	}
	b.Rows[idx] = append(row, c)
	return 0
}

// Claim applies a manual row claim: the chosen row's penalty is returned
// and the row restarts with the claimant's card.
func (b *Board) Claim(idx int, c Card) (penalty int) {
	penalty = b.Rows[idx].PenaltySum()
	b.Rows[idx] = Row{c}
	return penalty
}

// Submission pairs a seat with the card it committed this round.
type Submission struct {
	Seat uint8
	Card Card
}

// Placement records where one submitted card landed and the penalty
// incurred, if the placement took the row.
type Placement struct {
	Seat    uint8
	Card    Card
	Row     int
	TookRow bool
	Penalty int
}

// Resolution walks a round's submissions across the board in ascending
// card order. It is the resume token for a suspended round: when a card
// fits no row the walk halts, the unplaced remainder stays queued, and the
// caller resumes after the manual claim. Card numbers are unique within a
// deck, so the sort order is total.
type Resolution struct {
	queue []Submission
}

// NewResolution sorts a complete submission batch into processing order.
func NewResolution(subs []Submission) *Resolution {
	queue := make([]Submission, len(subs))
	copy(queue, subs)
	sort.Slice(queue, func(i, j int) bool {
		return queue[i].Card < queue[j].Card
	})
	return &Resolution{queue: queue}
}

// Run places queued submissions one at a time until the queue is empty or
// a card fits no row. In the latter case the blocked submission is popped
// and returned as forced: its placement happens via Board.Claim, and the
// submissions after it remain queued for the next Run call.
func (r *Resolution) Run(b *Board) (placed []Placement, forced *Submission) {
	for len(r.queue) > 0 {
		sub := r.queue[0]
		r.queue = r.queue[1:]

		idx, ok := b.targetRow(sub.Card)
		if !ok {
			f := sub
			return placed, &f
		}
		penalty := b.place(idx, sub.Card)
		placed = append(placed, Placement{
			Seat:    sub.Seat,
			Card:    sub.Card,
			Row:     idx,
			TookRow: penalty > 0,
			Penalty: penalty,
		})
	}
	return placed, nil
}

// Done reports whether every submission has been placed.
func (r *Resolution) Done() bool {
	return len(r.queue) == 0
}

// Remaining returns a copy of the unplaced queue, in processing order.
func (r *Resolution) Remaining() []Submission {
	out := make([]Submission, len(r.queue))
	copy(out, r.queue)
	return out
}

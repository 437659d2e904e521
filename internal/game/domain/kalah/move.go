package kalah

import (
	"fmt"
	"strconv"

	apperrors "github.com/openkalah/server/internal/platform/errors"
)

// maxHand is the largest seed count a single sow supports. A hand of 13
// wraps the full cycle of sowable pits exactly once and lands back on
// the source house; anything larger would wrap past the start twice,
// which no reachable Kalah(6, 3) position produces. Seeing it means the
// board was corrupted, so move refuses rather than silently supporting
// multi-wrap sows.
const maxHand = boardSize - 1

func invalidHouse(p Player, house int, reason string) error {
	low, high := p.HouseRange()
	return apperrors.WithMetadata(
		apperrors.CodeMoveInvalidHouse,
		fmt.Sprintf("house %d is not a legal move for %s: %s", house, p.Name(), reason),
		map[string]string{
			"House":     strconv.Itoa(house),
			"LowHouse":  strconv.Itoa(low),
			"HighHouse": strconv.Itoa(high),
		},
	)
}

func internalDefect(message string) error {
	return apperrors.New(apperrors.CodeInternalInvariant, message)
}

// sow picks up every seed in house and deposits them one per pit
// clockwise, skipping the opponent's store. It returns the new board
// and the last pit that actually received a seed, which is never the
// skipped store.
//
// house must be a prevalidated, non-empty house owned by p.
func sow(b Board, house int, p Player) (Board, int) {
	seeds := b[house]
	b[house] = 0

	skip := p.Opponent().Store()
	pit := house
	last := house
	for seeds > 0 {
		pit = (pit + 1) % boardSize
		if pit == skip {
			continue
		}
		b[pit]++
		last = pit
		seeds--
	}
	return b, last
}

// applyCapture transfers the last-sown seed plus the mirror house's
// seeds into p's store when the capture conditions hold; otherwise it
// returns after unchanged.
//
// Capture requires all of: the sow ended in one of p's own houses, that
// house was empty before the sow (the sown seed itself is what makes it
// non-empty afterwards, hence the pre-sow check), and the mirror house
// holds at least one seed after the sow.
func applyCapture(before, after Board, last int, p Player) Board {
	if !p.OwnsHouse(last) {
		return after
	}
	if before[last] != 0 {
		return after
	}
	mirror := Mirror(last)
	if after[mirror] == 0 {
		return after
	}

	after[p.Store()] += after[mirror] + 1
	after[last] = 0
	after[mirror] = 0
	return after
}

// Move applies one turn: validate the chosen house, sow, resolve
// captures, and decide who moves next. The extra-turn rule applies when
// the last seed lands in the mover's own store.
//
// An invalid house returns a MOVE_INVALID_HOUSE error and leaves no
// partial effects; state is returned unchanged. Invariant breaks
// (oversized hands, seed-count drift) surface as INTERNAL_INVARIANT
// errors because they indicate a defect, not bad input.
func Move(state GameState, house int) (GameState, error) {
	p := state.Next
	if p != South && p != North {
		return state, ErrInvalidPlayer
	}
	if !p.OwnsHouse(house) {
		return state, invalidHouse(p, house, "not one of the mover's houses")
	}

	seeds := state.Board[house]
	if seeds == 0 {
		return state, invalidHouse(p, house, "house is empty")
	}
	if seeds > maxHand {
		return state, internalDefect(fmt.Sprintf("house %d holds %d seeds, beyond a single-wrap sow", house, seeds))
	}

	next, last := sow(state.Board, house, p)
	next = applyCapture(state.Board, next, last, p)

	if next.Total() != TotalSeeds {
		return state, internalDefect(fmt.Sprintf("seed conservation broken: board total %d after move", next.Total()))
	}

	nextPlayer := p.Opponent()
	if last == p.Store() {
		nextPlayer = p
	}
	return GameState{Next: nextPlayer, Board: next}, nil
}

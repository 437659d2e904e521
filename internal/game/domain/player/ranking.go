package player

import "sort"

// Ranking is one row of the leaderboard.
type Ranking struct {
	Name         string
	WinLossRatio float64
}

// Rank orders players by win/loss ratio descending, breaking ties with
// the draw count descending. The sort is stable, so players that tie on
// both keys keep their input order, which keeps the output
// deterministic for a given store listing.
func Rank(players []Player) []Ranking {
	ordered := make([]Player, len(players))
	copy(ordered, players)

	sort.SliceStable(ordered, func(i, j int) bool {
		left, right := WinLossRatio(ordered[i]), WinLossRatio(ordered[j])
		if left != right {
			return left > right
		}
		return ordered[i].Draws > ordered[j].Draws
	})

	rankings := make([]Ranking, len(ordered))
	for i, p := range ordered {
		rankings[i] = Ranking{Name: p.Name, WinLossRatio: WinLossRatio(p)}
	}
	return rankings
}

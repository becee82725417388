package event

// Kind identifies a category of in-game achievement a castaway can earn
// during an episode.
type Kind string

const (
	KindImmunityWin          Kind = "immunity_win"
	KindTeamChallengeWin     Kind = "team_challenge_win"
	KindFoundIdol            Kind = "found_idol"
	KindUsedIdolSuccessfully Kind = "used_idol_successfully"
	KindVotedAtTribal        Kind = "voted_at_tribal"
	KindSurvivedEpisode      Kind = "survived_episode"
	KindFireMakingWin        Kind = "fire_making_win"
	KindMadeFinalThree       Kind = "made_final_three"
	KindSeasonWinner         Kind = "season_winner"
	KindMadeJury             Kind = "made_jury"
	KindVotedOut             Kind = "voted_out"
)

// AllKinds enumerates every scoring kind in ledger-entry display order.
var AllKinds = []Kind{
	KindImmunityWin,
	KindTeamChallengeWin,
	KindFoundIdol,
	KindUsedIdolSuccessfully,
	KindVotedAtTribal,
	KindSurvivedEpisode,
	KindFireMakingWin,
	KindMadeFinalThree,
	KindSeasonWinner,
	KindMadeJury,
	KindVotedOut,
}

// Catalog maps scoring kinds to signed point values. It is injected per
// deployment; point values are never negotiated at runtime.
type Catalog map[Kind]int

// DefaultCatalog returns the standard season point table.
func DefaultCatalog() Catalog {
	return Catalog{
		KindImmunityWin:          5,
		KindTeamChallengeWin:     3,
		KindFoundIdol:            5,
		KindUsedIdolSuccessfully: 3,
		KindVotedAtTribal:        3,
		KindSurvivedEpisode:      1,
		KindFireMakingWin:        5,
		KindMadeFinalThree:       5,
		KindSeasonWinner:         10,
		KindMadeJury:             3,
		KindVotedOut:             -10,
	}
}

// Known reports whether the catalog carries a value for kind.
func (c Catalog) Known(kind Kind) bool {
	_, ok := c[kind]
	return ok
}

// Value returns the point value for kind, 0 for kinds outside the catalog.
func (c Catalog) Value(kind Kind) int {
	return c[kind]
}

// Event records how many times a castaway earned one scoring kind within a
// single episode.
type Event struct {
	Kind  Kind
	Count int
}

// Points sums value(kind) × count over events against the catalog.
func Points(events []Event, catalog Catalog) int {
	total := 0
	for _, item := range events {
		total += catalog.Value(item.Kind) * item.Count
	}
	return total
}

// Label returns the display name for a scoring kind.
func Label(kind Kind) string {
	switch kind {
	case KindImmunityWin:
		return "Immunity Win"
	case KindTeamChallengeWin:
		return "Team Challenge Win"
	case KindFoundIdol:
		return "Found Idol/Advantage"
	case KindUsedIdolSuccessfully:
		return "Used Idol Successfully"
	case KindVotedAtTribal:
		return "Voted at Tribal"
	case KindSurvivedEpisode:
		return "Survived Episode"
	case KindFireMakingWin:
		return "Fire-Making Win"
	case KindMadeFinalThree:
		return "Made Final 3"
	case KindSeasonWinner:
		return "Season Winner"
	case KindMadeJury:
		return "Made Jury"
	case KindVotedOut:
		return "Voted Out"
	default:
		return string(kind)
	}
}

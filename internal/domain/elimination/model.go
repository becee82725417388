package elimination

import "time"

// ScopeMode selects whether eliminations are tracked per league or shared
// across every league in a season. Both deployments exist; this is
// configuration, not two designs.
type ScopeMode string

const (
	ScopeModeGlobal ScopeMode = "global"
	ScopeModeLeague ScopeMode = "league"
)

// Scope addresses one eliminated-castaway set. In global mode LeagueID is
// folded to the empty string so every league reads the same set.
type Scope struct {
	LeagueID string
	Season   int
}

// ScopeFor builds the registry scope for a league under the configured mode.
func ScopeFor(mode ScopeMode, leagueID string, season int) Scope {
	if mode == ScopeModeLeague {
		return Scope{LeagueID: leagueID, Season: season}
	}
	return Scope{Season: season}
}

// Record marks one castaway as out of the game within a scope.
type Record struct {
	Scope        Scope
	CastawayID   string
	Week         int
	EliminatedAt time.Time
}

package roster

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRosterSize      = errors.New("invalid roster size")
	ErrNetChangeExceeded      = errors.New("weekly net roster change exceeded")
	ErrRosterFull             = errors.New("roster is full")
	ErrSameCastawayAddAndDrop = errors.New("cannot add and drop the same castaway")
	ErrCannotDropEliminated   = errors.New("cannot drop an eliminated castaway")
	ErrCastawayEliminated     = errors.New("castaway has been eliminated")
	ErrCastawayNotOnRoster    = errors.New("castaway is not an active roster member")
	ErrCastawayAlreadyActive  = errors.New("castaway is already on the roster")
	ErrNoSnapshotForWeek      = errors.New("no roster snapshot recorded for week")
)

// Rules stores roster composition and weekly-change policy parameters.
type Rules struct {
	// Size is the fixed roster size; drafts must supply exactly this many
	// castaways and the active count can never exceed it.
	Size int
	// NetChangeCap bounds how many active castaways may differ from the
	// previous week's committed snapshot.
	NetChangeCap int
	// RestrictionEnabled toggles the weekly net-change policy. When false
	// only the hard size cap applies.
	RestrictionEnabled bool
}

func DefaultRules() Rules {
	return Rules{
		Size:               5,
		NetChangeCap:       1,
		RestrictionEnabled: true,
	}
}

// ValidateDraft checks a proposed draft list: exact size, no duplicates, no
// eliminated castaways. eliminated may be nil when nobody is out yet.
func ValidateDraft(castawayIDs []string, rules Rules, eliminated map[string]struct{}) error {
	if len(castawayIDs) != rules.Size {
		return fmt.Errorf("%w: expected %d castaways, got %d", ErrInvalidRosterSize, rules.Size, len(castawayIDs))
	}

	seen := make(map[string]struct{}, len(castawayIDs))
	for _, id := range castawayIDs {
		if id == "" {
			return fmt.Errorf("%w: castaway id is required", ErrInvalidRosterSize)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate castaway %s", ErrInvalidRosterSize, id)
		}
		seen[id] = struct{}{}

		if _, out := eliminated[id]; out {
			return fmt.Errorf("%w: %s", ErrCastawayEliminated, id)
		}
	}

	return nil
}

// NetChange counts the active castaways from prev that are missing from
// proposed. Comparing against the previous week's committed snapshot (not
// the latest transaction) makes the cap cumulative across a week.
func NetChange(prev, proposed []Entry) int {
	proposedActive := ActiveIDs(proposed)
	departed := 0
	for id := range ActiveIDs(prev) {
		if _, still := proposedActive[id]; !still {
			departed++
		}
	}
	return departed
}

// ValidateChange applies the weekly-change policy to a proposed roster
// against the previous week's snapshot. prev may be empty when no snapshot
// exists yet (week 0, or history lost), in which case only the size cap
// applies.
func ValidateChange(prev, proposed []Entry, rules Rules) error {
	if activeCount := len(ActiveIDs(proposed)); activeCount > rules.Size {
		return fmt.Errorf("%w: %d active castaways exceeds limit of %d", ErrRosterFull, activeCount, rules.Size)
	}

	if !rules.RestrictionEnabled || len(prev) == 0 {
		return nil
	}

	if departed := NetChange(prev, proposed); departed > rules.NetChangeCap {
		return fmt.Errorf("%w: %d castaways changed since last week, cap is %d", ErrNetChangeExceeded, departed, rules.NetChangeCap)
	}

	return nil
}

// ApplyAddDrop produces the roster after one drop and/or one add at the
// given week. Validation beyond structural checks (net-change policy,
// elimination registry lookups) happens before this is called.
//
// Re-adding a previously dropped castaway reactivates the existing entry and
// resets AddedWeek to the reactivation week: the castaway earned nothing for
// this roster during the dropped interval, so the contribution window
// restarts.
func ApplyAddDrop(entries []Entry, dropCastawayID, addCastawayID string, week int) ([]Entry, error) {
	if dropCastawayID == "" && addCastawayID == "" {
		return nil, fmt.Errorf("%w: nothing to apply", ErrCastawayNotOnRoster)
	}
	if dropCastawayID != "" && dropCastawayID == addCastawayID {
		return nil, fmt.Errorf("%w: %s", ErrSameCastawayAddAndDrop, dropCastawayID)
	}

	out := CloneEntries(entries)

	if dropCastawayID != "" {
		idx := -1
		for i, e := range out {
			if e.CastawayID == dropCastawayID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrCastawayNotOnRoster, dropCastawayID)
		}
		switch out[idx].Status {
		case StatusEliminated:
			// The slot is forfeited for the season; elimination is not a
			// refundable drop.
			return nil, fmt.Errorf("%w: %s", ErrCannotDropEliminated, dropCastawayID)
		case StatusDropped:
			return nil, fmt.Errorf("%w: %s", ErrCastawayNotOnRoster, dropCastawayID)
		}
		dropWeek := week
		out[idx].Status = StatusDropped
		out[idx].DroppedWeek = &dropWeek
	}

	if addCastawayID != "" {
		existing := -1
		for i, e := range out {
			if e.CastawayID == addCastawayID {
				existing = i
				break
			}
		}
		switch {
		case existing >= 0 && out[existing].Status == StatusEliminated:
			return nil, fmt.Errorf("%w: %s", ErrCastawayEliminated, addCastawayID)
		case existing >= 0 && out[existing].Status == StatusActive:
			return nil, fmt.Errorf("%w: %s", ErrCastawayAlreadyActive, addCastawayID)
		case existing >= 0:
			// Reactivate rather than duplicate.
			out[existing].Status = StatusActive
			out[existing].AddedWeek = week
			out[existing].DroppedWeek = nil
		default:
			out = append(out, Entry{
				CastawayID: addCastawayID,
				Status:     StatusActive,
				AddedWeek:  week,
			})
		}
	}

	return out, nil
}

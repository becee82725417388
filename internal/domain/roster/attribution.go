package roster

// TotalPoints derives the points a fantasy roster has earned from the
// week-indexed episode score maps. Pure and total: identical inputs always
// yield identical output, and missing data contributes zero, so a full
// recompute can be retried wholesale without double-counting.
//
// Episode n credits entry e iff e.AddedWeek <= n and, when the entry has a
// drop week, n < *e.DroppedWeek. The half-open interval excludes the drop
// week itself; eliminated entries participate through their DroppedWeek with
// no special case.
func TotalPoints(entries []Entry, scoresByEpisode map[int]map[string]int) int {
	total := 0
	for _, e := range entries {
		total += entryPoints(e, scoresByEpisode)
	}
	return total
}

// EntryPoints derives one entry's contribution, used for per-castaway
// breakdowns on member pages.
func EntryPoints(e Entry, scoresByEpisode map[int]map[string]int) int {
	return entryPoints(e, scoresByEpisode)
}

func entryPoints(e Entry, scoresByEpisode map[int]map[string]int) int {
	total := 0
	for episodeNum, scores := range scoresByEpisode {
		if episodeNum < e.AddedWeek {
			continue
		}
		if e.DroppedWeek != nil && episodeNum >= *e.DroppedWeek {
			continue
		}
		total += scores[e.CastawayID]
	}
	return total
}

package outline

// ValidateHierarchy repairs illegal level jumps in emission order: an item
// whose rank exceeds the previous item's rank by more than one is clamped to
// the next legal depth, so no level is ever skipped on the way down.
func ValidateHierarchy(items []Item) []Item {
	lastRank := 0
	for i := range items {
		rank := items[i].Level.Rank()
		if rank > lastRank+1 {
			rank = lastRank + 1
			items[i].Level = Level(rank)
		}
		lastRank = rank
	}
	return items
}

// Deduplicate removes repeated (level, text, page) triples, keeping the
// first occurrence and preserving order. Running it twice is a no-op.
func Deduplicate(items []Item) []Item {
	type key struct {
		level Level
		text  string
		page  int
	}
	seen := make(map[key]bool, len(items))
	out := items[:0]
	for _, it := range items {
		k := key{level: it.Level, text: it.Text, page: it.Page}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

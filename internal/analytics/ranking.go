package analytics

import "sort"

// RankedEntity is one entity with its per-record average over a window.
type RankedEntity struct {
	ID      string
	Sum     float64
	Count   int
	Average float64
}

// TopAverages accumulates the extracted value per entity, computes each
// entity's average and returns the top n sorted descending by average.
// Ties keep first-encountered order (stable sort over insertion order).
func TopAverages[T any](records []T, key func(T) string, value func(T) float64, n int) []RankedEntity {
	if n <= 0 {
		return nil
	}

	index := make(map[string]int)
	entities := make([]RankedEntity, 0)
	for _, rec := range records {
		id := key(rec)
		if id == "" {
			continue
		}
		v := value(rec)
		if v < 0 {
			v = 0
		}
		i, ok := index[id]
		if !ok {
			i = len(entities)
			index[id] = i
			entities = append(entities, RankedEntity{ID: id})
		}
		entities[i].Sum += v
		entities[i].Count++
	}

	for i := range entities {
		count := entities[i].Count
		if count < 1 {
			count = 1
		}
		entities[i].Average = entities[i].Sum / float64(count)
	}

	sort.SliceStable(entities, func(i, j int) bool { return entities[i].Average > entities[j].Average })

	if len(entities) > n {
		entities = entities[:n]
	}
	return entities
}

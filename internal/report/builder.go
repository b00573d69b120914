// Package report aggregates offers per category and builds the sorted report rows.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"ymlfeed/report/internal/domain"
	"ymlfeed/report/internal/hierarchy"

	log "github.com/sirupsen/logrus"
)

type sortKey struct {
	id  string
	num int64
}

// BuildRows produces one row per labelled category, ordered by numeric id.
// Missing paths render as "" and missing counts as 0.
func BuildRows(labels, paths map[string]string, counts map[string]int) ([]domain.ReportRow, error) {
	keys := make([]sortKey, 0, len(labels))
	for id := range labels {
		num, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, &domain.InvalidIdentifierError{ID: id, Err: err}
		}
		keys = append(keys, sortKey{id: id, num: num})
	}

	// "7" and "07" share a numeric value; the raw id keeps the order stable.
	slices.SortFunc(keys, func(a, b sortKey) int {
		if c := cmp.Compare(a.num, b.num); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	rows := make([]domain.ReportRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, domain.ReportRow{
			Path:  paths[key.id],
			Count: counts[key.id],
		})
	}

	return rows, nil
}

// Generate runs the whole pipeline from parsed feed to report rows.
func Generate(feed *domain.Feed) ([]domain.ReportRow, error) {
	adj := hierarchy.BuildAdjacency(feed.Categories)

	tree, err := hierarchy.BuildTree(adj)
	if err != nil {
		return nil, fmt.Errorf("failed to build category tree: %w", err)
	}

	paths := hierarchy.ResolvePaths(tree, adj.Labels())
	counts := CountOffers(feed.Offers)

	rows, err := BuildRows(adj.Labels(), paths, counts)
	if err != nil {
		return nil, fmt.Errorf("failed to build report rows: %w", err)
	}

	if unresolved := len(adj.Labels()) - countResolved(adj.Labels(), paths); unresolved > 0 {
		log.Warnf("⚠️ %d categories are not reachable from any root and have no path", unresolved)
	}
	log.Debugf("Built %d report rows from %d categories and %d offers", len(rows), len(feed.Categories), len(feed.Offers))

	return rows, nil
}

func countResolved(labels, paths map[string]string) int {
	n := 0
	for id := range labels {
		if _, ok := paths[id]; ok {
			n++
		}
	}
	return n
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: table.go
Description: Result aggregation for byteclasser. Merges per-row score maps into one
rectangular table with alphabetically sorted label columns and rows ordered by id.
*/

package aggregate

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/kleascm/byteclasser/pkg/core"
)

// Fixed leading columns of every output table.
const (
	ColumnRowID = "row_id"
	ColumnText  = "text"
)

// Row is one output line.
type Row struct {
	ID     int
	Text   string
	Scores []float64 // aligned with Table.Labels
}

// Table is the aggregated result of a run.
type Table struct {
	Labels []string
	Rows   []Row
}

// Build merges results into a table. Label columns are the sorted union of all
// labels seen; a label missing from a row's scores is filled with 0.
func Build(results []core.RowResult) *Table {
	seen := make(map[string]struct{})
	for _, res := range results {
		for label := range res.Scores {
			seen[label] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	rows := make([]Row, len(results))
	for i, res := range results {
		scores := make([]float64, len(labels))
		for j, label := range labels {
			scores[j] = res.Scores[label]
		}
		rows[i] = Row{ID: res.RowID, Text: res.Text, Scores: scores}
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].ID < rows[b].ID })

	return &Table{Labels: labels, Rows: rows}
}

// BuildWithLabels is Build with the label columns fixed up front, so a run
// with no surviving rows still produces the full header.
func BuildWithLabels(results []core.RowResult, labels []string) *Table {
	t := Build(results)
	if len(labels) == 0 {
		return t
	}
	merged := append([]string(nil), labels...)
	for _, l := range t.Labels {
		if !slices.Contains(labels, l) {
			merged = append(merged, l)
		}
	}
	slices.Sort(merged)
	merged = slices.Compact(merged)
	if slices.Equal(merged, t.Labels) {
		return t
	}

	// from[j] is the column of merged[j] in t, or -1 when no row scored it.
	from := make([]int, len(merged))
	for j, label := range merged {
		from[j] = slices.Index(t.Labels, label)
	}

	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		scores := make([]float64, len(merged))
		for j, k := range from {
			if k >= 0 {
				scores[j] = r.Scores[k]
			}
		}
		rows[i] = Row{ID: r.ID, Text: r.Text, Scores: scores}
	}
	return &Table{Labels: merged, Rows: rows}
}

// Header returns row_id, text and the label names.
func (t *Table) Header() []string {
	header := make([]string, 0, len(t.Labels)+2)
	header = append(header, ColumnRowID, ColumnText)
	return append(header, t.Labels...)
}

// Records renders every row as strings in header order.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Record()
	}
	return out
}

// Record renders the row as strings in header order.
func (r Row) Record() []string {
	rec := make([]string, 0, len(r.Scores)+2)
	rec = append(rec, strconv.Itoa(r.ID), r.Text)
	for _, s := range r.Scores {
		rec = append(rec, FormatScore(s))
	}
	return rec
}

// FormatScore prints the shortest decimal that round-trips, always with a
// decimal point: 4 → "4.0", -1.5 → "-1.5".
func FormatScore(v float64) string {
	if v == 0 {
		// Folds -0 into 0.0.
		return "0.0"
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

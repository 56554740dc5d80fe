/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: table_test.go
Description: Tests for result aggregation. Covers label column ordering, row ordering,
missing score fill, fixed label sets and score formatting.
*/

package aggregate_test

import (
	"math"
	"testing"

	"github.com/kleascm/byteclasser/pkg/aggregate"
	"github.com/kleascm/byteclasser/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildOrdersColumnsAndRows tests sorted labels and ascending row ids
func TestBuildOrdersColumnsAndRows(t *testing.T) {
	results := []core.RowResult{
		{RowID: 4, Text: "d", Scores: map[string]float64{"zeta": 1, "alpha": 2}},
		{RowID: 0, Text: "a", Scores: map[string]float64{"zeta": 0, "alpha": -1.5}},
		{RowID: 2, Text: "c", Scores: map[string]float64{"zeta": 3, "alpha": 0}},
	}

	table := aggregate.Build(results)
	assert.Equal(t, []string{"alpha", "zeta"}, table.Labels)
	assert.Equal(t, []string{"row_id", "text", "alpha", "zeta"}, table.Header())

	assert.Equal(t, [][]string{
		{"0", "a", "-1.5", "0.0"},
		{"2", "c", "0.0", "3.0"},
		{"4", "d", "2.0", "1.0"},
	}, table.Records())
}

// TestBuildFillsMissingScores tests that absent labels render as zero
func TestBuildFillsMissingScores(t *testing.T) {
	results := []core.RowResult{
		{RowID: 0, Text: "a", Scores: map[string]float64{"alpha": 1}},
		{RowID: 1, Text: "b", Scores: map[string]float64{"beta": 2}},
		{RowID: 2, Text: "c"},
	}

	table := aggregate.Build(results)
	require.Equal(t, []string{"alpha", "beta"}, table.Labels)
	assert.Equal(t, []string{"0", "a", "1.0", "0.0"}, table.Rows[0].Record())
	assert.Equal(t, []string{"1", "b", "0.0", "2.0"}, table.Rows[1].Record())
	assert.Equal(t, []string{"2", "c", "0.0", "0.0"}, table.Rows[2].Record())
}

// TestBuildEmpty tests an empty result set
func TestBuildEmpty(t *testing.T) {
	table := aggregate.Build(nil)
	assert.Empty(t, table.Labels)
	assert.Empty(t, table.Rows)
	assert.Equal(t, []string{"row_id", "text"}, table.Header())
}

// TestBuildWithLabels tests the fixed label set used for runs without rows
func TestBuildWithLabels(t *testing.T) {
	table := aggregate.BuildWithLabels(nil, []string{"beta", "alpha", "beta"})
	assert.Equal(t, []string{"row_id", "text", "alpha", "beta"}, table.Header())

	results := []core.RowResult{{RowID: 3, Text: "x", Scores: map[string]float64{"gamma": 1}}}
	table = aggregate.BuildWithLabels(results, []string{"alpha"})
	assert.Equal(t, []string{"alpha", "gamma"}, table.Labels)
	assert.Equal(t, []string{"3", "x", "0.0", "1.0"}, table.Rows[0].Record())
}

// TestBuildKeepsGaps tests that dropped row ids are not renumbered
func TestBuildKeepsGaps(t *testing.T) {
	results := []core.RowResult{
		{RowID: 0, Scores: map[string]float64{"a": 0}},
		{RowID: 2, Scores: map[string]float64{"a": 0}},
		{RowID: 5, Scores: map[string]float64{"a": 0}},
	}
	table := aggregate.Build(results)
	ids := make([]int, len(table.Rows))
	for i, r := range table.Rows {
		ids[i] = r.ID
	}
	assert.Equal(t, []int{0, 2, 5}, ids)
}

// TestFormatScore tests the decimal rendering of scores
func TestFormatScore(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{math.Copysign(0, -1), "0.0"},
		{4, "4.0"},
		{-1.5, "-1.5"},
		{1.0 / 3, "0.3333333333333333"},
		{1e21, "1000000000000000000000.0"},
		{123.456, "123.456"},
		{-7, "-7.0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, aggregate.FormatScore(tc.in), "input %v", tc.in)
	}
	assert.Equal(t, "+Inf", aggregate.FormatScore(math.Inf(1)))
	assert.Equal(t, "NaN", aggregate.FormatScore(math.NaN()))
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: writer_test.go
Description: Tests for the output writers. Covers CSV and TSV layout, JSON lines,
deterministic CBOR, the SQLite sink, compressed outputs and write failures.
*/

package output_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/kleascm/byteclasser/pkg/aggregate"
	"github.com/kleascm/byteclasser/pkg/compression"
	"github.com/kleascm/byteclasser/pkg/core"
	"github.com/kleascm/byteclasser/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *aggregate.Table {
	return aggregate.Build([]core.RowResult{
		{RowID: 2, Text: "foo bar", Scores: map[string]float64{"alpha": 0, "beta": -1.5}},
		{RowID: 0, Text: "abcabc x", Scores: map[string]float64{"alpha": 4, "beta": 0}},
	})
}

// TestWriteCSV tests the CSV layout
func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Encode(&buf, output.FormatCSV, sampleTable()))

	assert.Equal(t, "row_id,text,alpha,beta\n"+
		"0,abcabc x,4.0,0.0\n"+
		"2,foo bar,0.0,-1.5\n", buf.String())
}

// TestWriteTSV tests the TSV layout
func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Encode(&buf, output.FormatTSV, sampleTable()))

	assert.Equal(t, "row_id\ttext\talpha\tbeta\n"+
		"0\tabcabc x\t4.0\t0.0\n"+
		"2\tfoo bar\t0.0\t-1.5\n", buf.String())
}

// TestWriteCSVQuoting tests that texts containing separators stay one field
func TestWriteCSVQuoting(t *testing.T) {
	table := aggregate.Build([]core.RowResult{{RowID: 0, Text: `a,"b"`, Scores: map[string]float64{"l": 1}}})

	var buf bytes.Buffer
	require.NoError(t, output.Encode(&buf, output.FormatCSV, table))
	assert.Equal(t, "row_id,text,l\n0,\"a,\"\"b\"\"\",1.0\n", buf.String())
}

// TestWriteJSONL tests one object per row with ordered scores
func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Encode(&buf, output.FormatJSONL, sampleTable()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"row_id":0,"text":"abcabc x","scores":{"alpha":4.0,"beta":0.0}}`, lines[0])

	var rec struct {
		RowID  int                `json:"row_id"`
		Scores map[string]float64 `json:"scores"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, 2, rec.RowID)
	assert.Equal(t, -1.5, rec.Scores["beta"])
}

// TestWriteJSONLRejectsNaN tests that non-finite scores fail
func TestWriteJSONLRejectsNaN(t *testing.T) {
	table := aggregate.Build([]core.RowResult{{RowID: 0, Scores: map[string]float64{"l": math.NaN()}}})
	assert.Error(t, output.Encode(io.Discard, output.FormatJSONL, table))
}

// TestWriteCBOR tests the CBOR sequence and its determinism
func TestWriteCBOR(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, output.Encode(&first, output.FormatCBOR, sampleTable()))
	require.NoError(t, output.Encode(&second, output.FormatCBOR, sampleTable()))
	assert.Equal(t, first.Bytes(), second.Bytes())

	dec := cbor.NewDecoder(&first)
	var recs []output.CBORRecord
	for {
		var rec output.CBORRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	require.Len(t, recs, 2)
	assert.Equal(t, 0, recs[0].RowID)
	assert.Equal(t, "abcabc x", recs[0].Text)
	assert.Equal(t, map[string]float64{"alpha": 4, "beta": 0}, recs[0].Scores)
}

// TestWriteSQLite tests the scores table layout
func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	require.NoError(t, output.Write(path, "", sampleTable()))
	// A second write replaces the table.
	require.NoError(t, output.Write(path, "", sampleTable()))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT row_id, text, alpha, beta FROM scores ORDER BY row_id`)
	require.NoError(t, err)
	defer rows.Close()

	type scoreRow struct {
		id          int
		text        string
		alpha, beta float64
	}
	var got []scoreRow
	for rows.Next() {
		var r scoreRow
		require.NoError(t, rows.Scan(&r.id, &r.text, &r.alpha, &r.beta))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []scoreRow{{0, "abcabc x", 4, 0}, {2, "foo bar", 0, -1.5}}, got)
}

// TestWriteSQLiteRejectsStreams tests that sqlite needs a plain file
func TestWriteSQLiteRejectsStreams(t *testing.T) {
	err := output.Write("-", output.FormatSQLite, sampleTable())
	var werr *output.WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, output.FormatSQLite, werr.Format)

	err = output.Write(filepath.Join(t.TempDir(), "scores.db.gz"), "", sampleTable())
	assert.True(t, errors.As(err, &werr))
}

// TestWriteCompressed tests that outputs are compressed by extension
func TestWriteCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv.zst")
	require.NoError(t, output.Write(path, "", sampleTable()))

	r, err := compression.Open(path)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "row_id,text,alpha,beta\n"))
}

// TestWriteFailure tests that an unwritable destination is a WriteError
func TestWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.csv")
	err := output.Write(path, "", sampleTable())

	var werr *output.WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, path, werr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "csv")
}

// TestFormatFromPath tests extension based format selection
func TestFormatFromPath(t *testing.T) {
	cases := map[string]output.Format{
		"out.csv":        output.FormatCSV,
		"out.tsv.gz":     output.FormatTSV,
		"out.jsonl":      output.FormatJSONL,
		"out.ndjson.lz4": output.FormatJSONL,
		"out.cbor":       output.FormatCBOR,
		"out.sqlite":     output.FormatSQLite,
		"out.db":         output.FormatSQLite,
		"-":              output.FormatCSV,
		"out":            output.FormatCSV,
	}
	for path, want := range cases {
		assert.Equal(t, want, output.FormatFromPath(path), path)
	}
}

// TestParseFormat tests format flag validation
func TestParseFormat(t *testing.T) {
	f, err := output.ParseFormat(" TSV ")
	require.NoError(t, err)
	assert.Equal(t, output.FormatTSV, f)

	f, err = output.ParseFormat("")
	require.NoError(t, err)
	assert.Empty(t, f)

	_, err = output.ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cbor")

	assert.Equal(t, []string{"cbor", "csv", "jsonl", "sqlite", "tsv"}, output.Formats())
}

// TestIsBrokenPipe tests broken pipe detection
func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, output.IsBrokenPipe(io.ErrClosedPipe))
	assert.False(t, output.IsBrokenPipe(nil))
	assert.False(t, output.IsBrokenPipe(errors.New("disk full")))
}

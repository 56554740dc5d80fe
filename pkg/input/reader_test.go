/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reader_test.go
Description: Tests for the delimited table reader. Covers header handling, row id
assignment with dropped records, delimiters, compressed inputs and charset transcoding.
*/

package input_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kleascm/byteclasser/pkg/compression"
	"github.com/kleascm/byteclasser/pkg/core"
	"github.com/kleascm/byteclasser/pkg/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadSkipsHeader tests that the first record is the header
func TestReadSkipsHeader(t *testing.T) {
	table, err := input.Read(strings.NewReader("a,b\nabcabc,x\nfoo,bar\n"), input.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, table.Header)
	assert.Equal(t, []core.Row{
		{ID: 0, Fields: []string{"abcabc", "x"}},
		{ID: 1, Fields: []string{"foo", "bar"}},
	}, table.Rows)
	assert.Equal(t, 2, table.Records)
	assert.Empty(t, table.Dropped)
}

// TestReadNoHeader tests reading every record as data
func TestReadNoHeader(t *testing.T) {
	table, err := input.Read(strings.NewReader("abcabc,x\n"), input.Options{NoHeader: true})
	require.NoError(t, err)

	assert.Nil(t, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 0, table.Rows[0].ID)
}

// TestReadDropsBadRecords tests that unparsable records leave gaps in the ids
func TestReadDropsBadRecords(t *testing.T) {
	data := "h1,h2\n" +
		"ok,0\n" +
		"too,many,fields\n" +
		"ok,2\n" +
		"short\n" +
		"ok,4\n"

	table, err := input.Read(strings.NewReader(data), input.Options{})
	require.NoError(t, err)

	ids := make([]int, len(table.Rows))
	for i, r := range table.Rows {
		ids[i] = r.ID
	}
	assert.Equal(t, []int{0, 2, 4}, ids)
	assert.Equal(t, 5, table.Records)

	require.Len(t, table.Dropped, 2)
	assert.Equal(t, 1, table.Dropped[0].RowID)
	assert.Equal(t, 3, table.Dropped[0].Line)
	assert.Equal(t, 3, table.Dropped[1].RowID)
	assert.Contains(t, table.Dropped[0].Error(), "row 1")

	var rowErr *input.RowReadError
	assert.True(t, errors.As(error(table.Dropped[0]), &rowErr))
}

// TestReadKeepsBareQuotes tests that quotes inside unquoted fields are literal text
func TestReadKeepsBareQuotes(t *testing.T) {
	data := "line\n" +
		"GET /x HTTP/1.1 \"200\" ok\n" +
		"user said \"hi\" twice\n" +
		"plain\n"

	table, err := input.Read(strings.NewReader(data), input.Options{})
	require.NoError(t, err)

	assert.Empty(t, table.Dropped)
	assert.Equal(t, []core.Row{
		{ID: 0, Fields: []string{`GET /x HTTP/1.1 "200" ok`}},
		{ID: 1, Fields: []string{`user said "hi" twice`}},
		{ID: 2, Fields: []string{"plain"}},
	}, table.Rows)
}

// TestReadDropsInvalidUTF8 tests that records with invalid UTF-8 are dropped
func TestReadDropsInvalidUTF8(t *testing.T) {
	data := "h\nok\nbad\xff\nfine\n"

	table, err := input.Read(strings.NewReader(data), input.Options{})
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, 0, table.Rows[0].ID)
	assert.Equal(t, 2, table.Rows[1].ID)
	assert.Equal(t, 3, table.Records)

	require.Len(t, table.Dropped, 1)
	assert.Equal(t, 1, table.Dropped[0].RowID)
	assert.Equal(t, 3, table.Dropped[0].Line)
	assert.ErrorIs(t, table.Dropped[0], input.ErrInvalidUTF8)
}

// TestReadQuotedFields tests quoted separators and newlines inside fields
func TestReadQuotedFields(t *testing.T) {
	data := "text,n\n\"a,b\",1\n\"multi\nline\",2\n"
	table, err := input.Read(strings.NewReader(data), input.Options{})
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"a,b", "1"}, table.Rows[0].Fields)
	assert.Equal(t, []string{"multi\nline", "2"}, table.Rows[1].Fields)
}

// TestReadEmpty tests empty and header-only inputs
func TestReadEmpty(t *testing.T) {
	table, err := input.Read(strings.NewReader(""), input.Options{})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)

	table, err = input.Read(strings.NewReader("only,header\n"), input.Options{})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Equal(t, 0, table.Records)
}

// TestReadTSV tests tab delimited input chosen by extension
func TestReadTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.tsv")
	require.NoError(t, os.WriteFile(path, []byte("a\tb\nx,y\tz\n"), 0644))

	table, err := input.ReadFile(path, input.Options{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"x,y", "z"}, table.Rows[0].Fields)
}

// TestReadCompressed tests that compressed inputs are decoded by extension
func TestReadCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.tsv.gz")
	w, err := compression.Create(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "a\tb\nabc\tdef\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	table, err := input.ReadFile(path, input.Options{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"abc", "def"}, table.Rows[0].Fields)
}

// TestReadFileMissing tests that a missing input is an error
func TestReadFileMissing(t *testing.T) {
	_, err := input.ReadFile(filepath.Join(t.TempDir(), "nope.csv"), input.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestReadEncoding tests charset transcoding to UTF-8
func TestReadEncoding(t *testing.T) {
	// "café" in ISO-8859-1.
	data := []byte("h\ncaf\xe9\n")
	table, err := input.Read(strings.NewReader(string(data)), input.Options{Encoding: "latin1"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "café", table.Rows[0].Fields[0])

	_, err = input.Read(strings.NewReader("x"), input.Options{Encoding: "klingon"})
	assert.Error(t, err)
}

// TestReadEncodingBOM tests that a byte order mark is stripped
func TestReadEncodingBOM(t *testing.T) {
	table, err := input.Read(strings.NewReader("\xef\xbb\xbfh\nv\n"), input.Options{Encoding: "utf-8"})
	require.NoError(t, err)
	assert.Equal(t, []string{"h"}, table.Header)
	assert.Equal(t, "v", table.Rows[0].Fields[0])
}

// TestDelimiterFromPath tests extension based delimiter selection
func TestDelimiterFromPath(t *testing.T) {
	assert.Equal(t, ',', input.DelimiterFromPath("rows.csv"))
	assert.Equal(t, '\t', input.DelimiterFromPath("rows.tsv"))
	assert.Equal(t, '\t', input.DelimiterFromPath("rows.TAB.zst"))
	assert.Equal(t, ',', input.DelimiterFromPath("-"))
}

// TestParseDelimiter tests flag parsing of delimiters
func TestParseDelimiter(t *testing.T) {
	for in, want := range map[string]rune{"": 0, ",": ',', ";": ';', "tab": '\t', `\t`: '\t', "|": '|'} {
		got, err := input.ParseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"ab", "\"", "\n"} {
		_, err := input.ParseDelimiter(bad)
		assert.Error(t, err, bad)
	}
}

// TestValidateEncoding tests charset label validation
func TestValidateEncoding(t *testing.T) {
	assert.NoError(t, input.ValidateEncoding("utf-8"))
	assert.NoError(t, input.ValidateEncoding("shift_jis"))
	assert.Error(t, input.ValidateEncoding("klingon"))
}

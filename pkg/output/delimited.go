/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: delimited.go
Description: CSV and TSV encoders for the result table. The header is row_id, text and
the sorted label names; scores always carry a decimal point.
*/

package output

import (
	"encoding/csv"
	"io"

	"github.com/kleascm/byteclasser/pkg/aggregate"
)

func init() {
	Register(FormatCSV, delimitedEncoder(','))
	Register(FormatTSV, delimitedEncoder('\t'))
}

func delimitedEncoder(comma rune) EncodeFunc {
	return func(w io.Writer, table *aggregate.Table) error {
		return WriteDelimited(w, comma, table)
	}
}

// WriteDelimited writes the header and every row separated by comma.
func WriteDelimited(w io.Writer, comma rune, table *aggregate.Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(table.Header()); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(row.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

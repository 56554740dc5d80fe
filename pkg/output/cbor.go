/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: cbor.go
Description: CBOR sequence encoder for the result table. Rows are encoded one data item
each with Core Deterministic Encoding, so identical tables produce identical bytes.
*/

package output

import (
	"bufio"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/kleascm/byteclasser/pkg/aggregate"
)

// cborMode sorts map keys and uses the shortest float and integer forms.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("output: CBOR encoder initialization failed: " + err.Error())
	}
	Register(FormatCBOR, WriteCBOR)
}

// CBORRecord is one row of a CBOR output stream.
type CBORRecord struct {
	RowID  int                `cbor:"row_id"`
	Text   string             `cbor:"text"`
	Scores map[string]float64 `cbor:"scores"`
}

// WriteCBOR writes the rows as an RFC 8742 CBOR sequence.
func WriteCBOR(w io.Writer, table *aggregate.Table) error {
	bw := bufio.NewWriter(w)
	enc := cborMode.NewEncoder(bw)

	for _, row := range table.Rows {
		scores := make(map[string]float64, len(table.Labels))
		for i, label := range table.Labels {
			scores[label] = row.Scores[i]
		}
		if err := enc.Encode(CBORRecord{RowID: row.ID, Text: row.Text, Scores: scores}); err != nil {
			return err
		}
	}
	return bw.Flush()
}

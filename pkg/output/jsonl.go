/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: jsonl.go
Description: JSON lines encoder for the result table. One object per row with the
scores nested under "scores" in label order.
*/

package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/kleascm/byteclasser/pkg/aggregate"
)

func init() {
	Register(FormatJSONL, WriteJSONL)
}

type jsonlRecord struct {
	RowID  int          `json:"row_id"`
	Text   string       `json:"text"`
	Scores orderedScore `json:"scores"`
}

// orderedScore renders scores as an object keyed by label in column order.
type orderedScore struct {
	labels []string
	values []float64
}

func (o orderedScore) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range o.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		v := o.values[i]
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("label %q: score %v is not representable in JSON", label, v)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(aggregate.FormatScore(v))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteJSONL writes one JSON object per row.
func WriteJSONL(w io.Writer, table *aggregate.Table) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for _, row := range table.Rows {
		rec := jsonlRecord{
			RowID:  row.ID,
			Text:   row.Text,
			Scores: orderedScore{labels: table.Labels, values: row.Scores},
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

//go:build js

package pipeline

import "errors"

func marshalSummaryParquet([]SummaryRow) ([]byte, error) {
	return nil, errors.New("parquet output is not supported in js builds")
}

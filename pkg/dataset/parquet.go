package dataset

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"podcast-pipeline/pkg/domain"
)

// MarshalParquet serializes records into a columnar Parquet file. The column
// layout follows the EpisodeRecord parquet tags; segments are a repeated group
// of (start, end, text).
func MarshalParquet(records []domain.EpisodeRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := parquet.Write(&buf, records); err != nil {
		return nil, fmt.Errorf("write parquet: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalParquet reads records back from a Parquet file produced by
// MarshalParquet. The round trip is field-for-field lossless.
func UnmarshalParquet(data []byte) ([]domain.EpisodeRecord, error) {
	records, err := parquet.Read[domain.EpisodeRecord](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return records, nil
}

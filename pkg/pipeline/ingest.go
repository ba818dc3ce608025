package pipeline

import (
	"context"
	"encoding/json"

	"github.com/labelpress/labelpress/pkg/dataset"
)

// Ingest resolves the pipeline's records: read the dataset file or take
// the inline records, then apply the row selection. Options must have
// passed ValidateForIngest.
func Ingest(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	var ds *dataset.Dataset
	if opts.Dataset != "" {
		read, err := dataset.Read(opts.Dataset)
		if err != nil {
			return nil, err
		}
		ds = read
	} else {
		ds = &dataset.Dataset{Records: opts.Records}
	}

	if opts.Rows != "" {
		rows, err := dataset.ParseRows(opts.Rows)
		if err != nil {
			return nil, err
		}
		sub, err := ds.Subset(rows)
		if err != nil {
			return nil, err
		}
		ds = sub
	}
	return ds, nil
}

// ingestHash is the content hash input for the plan cache key: the
// selected records in order. Two datasets with the same rows hash the
// same regardless of which file they came from.
func ingestHash(ds *dataset.Dataset) []byte {
	data, _ := json.Marshal(ds.Records)
	return data
}

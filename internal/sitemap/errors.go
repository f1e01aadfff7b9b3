package sitemap

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPartition = errors.New("unknown sitemap partition")
	ErrInvalidPart      = errors.New("invalid sitemap part")
)

// DataAccessError reports a failed store query while generating a partition.
type DataAccessError struct {
	Partition Partition
	Err       error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("sitemap %s: data access: %v", e.Partition, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

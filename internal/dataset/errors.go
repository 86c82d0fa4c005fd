package dataset

import "errors"

var (
	// ErrWriteFailed wraps any failure while building or swapping a dataset.
	ErrWriteFailed = errors.New("dataset write failed")
	// ErrPublishLocked means another publish holds the directory lock.
	ErrPublishLocked = errors.New("another publish is in progress")
	// ErrNoDataset means no published dataset exists at the expected path.
	ErrNoDataset = errors.New("no published dataset")
)

package record

import "errors"

var (
	errEmptyText         = errors.New("record text is empty")
	errBadCategory       = errors.New("category outside the fixed set")
	errBadOutputType     = errors.New("output type outside the fixed set")
	errUnclassifiedModel = errors.New("model reference was never classified")
	errEmptyFingerprint  = errors.New("record fingerprint is empty")
)

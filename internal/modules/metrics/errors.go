package metrics

import "errors"

var (
	ErrMetricNotFound = errors.New("metric not found")
	ErrMetricExists   = errors.New("metric already exists")
	ErrDefaultMetric  = errors.New("default metrics cannot be deleted")
	ErrInvalidMetric  = errors.New("invalid metric definition")
)

//-------------------------------------------------------------------------
//
// pgEdge Shop Insights
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package errdefs defines the typed failures surfaced by pipeline stages.
//
// Every stage validates its own inputs and fails fast with one of these
// types. Callers use errors.As to recover the concrete failure; StageError
// records which stage produced it.
package errdefs

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// ReferentialIntegrityError reports a foreign key without a matching parent.
// Key is zero when the violation was reported by the store and the
// offending value is unknown.
type ReferentialIntegrityError struct {
	Table  string
	Column string
	Key    int64
	Parent string
	Err    error
}

func (e *ReferentialIntegrityError) Error() string {
	if e.Key == 0 && e.Err != nil {
		return fmt.Sprintf("referential integrity violation loading %s: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("referential integrity violation: %s.%s=%d has no matching row in %s",
		e.Table, e.Column, e.Key, e.Parent)
}

func (e *ReferentialIntegrityError) Unwrap() error { return e.Err }

// MissingInputError reports a required input that is absent or malformed.
type MissingInputError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MissingInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing input %s", e.Path)
	}
	return fmt.Sprintf("missing input %s: %s", e.Path, e.Reason)
}

func (e *MissingInputError) Unwrap() error { return e.Err }

// AggregationError reports a query result with an unexpected null or shape.
type AggregationError struct {
	Query  string
	Reason string
	Err    error
}

func (e *AggregationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("aggregation %s failed: %s: %v", e.Query, e.Reason, e.Err)
	}
	return fmt.Sprintf("aggregation %s failed: %s", e.Query, e.Reason)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// ConsistencyError reports a record that breaks a dataset invariant other
// than referential closure: order totals, subtotals, rating range or
// duplicate keys.
type ConsistencyError struct {
	Table  string
	Key    int64
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("inconsistent %s record %d: %s", e.Table, e.Key, e.Reason)
}

// StageError names the pipeline stage a failure came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// InStage wraps err with the stage name. A nil err stays nil and an error
// that already carries a stage is returned unchanged.
func InStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

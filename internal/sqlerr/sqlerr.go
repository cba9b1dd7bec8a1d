// Package sqlerr turns PostgreSQL driver errors into short, readable
// descriptions.
//
// The Postgres expense store wraps every failed statement with
// HandleError, so the "error" field of an expense failure body reads
// "The Amount is required" rather than a raw SQLSTATE dump.
package sqlerr

import "fmt"

// Code is a coarse class of SQLSTATE.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	InvalidText         Code = "invalid_text_representation"
	NumericOutOfRange   Code = "numeric_value_out_of_range"
	UndefinedTable      Code = "undefined_table"
	ConnectionFailure   Code = "connection_failure"
)

// MapCode maps a SQLSTATE onto a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "22P02":
		return InvalidText
	case "22003":
		return NumericOutOfRange
	case "42P01":
		return UndefinedTable
	case "08000", "08003", "08006", "08001", "08004":
		return ConnectionFailure
	default:
		return Other
	}
}

// Severity of a Postgres error.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityUnknown Severity = "UNKNOWN"
)

func MapSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityError, SeverityFatal, SeverityPanic:
		return Severity(s)
	default:
		return SeverityUnknown
	}
}

// Error is a normalized Postgres error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	TableName      string
	ColumnName     string
	ConstraintName string

	// friendly is the readable description returned by Error().
	friendly  string
	driverErr error
}

func (e *Error) Error() string {
	if e.friendly != "" {
		return e.friendly
	}
	return fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.DatabaseCode)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

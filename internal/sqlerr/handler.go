package sqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of err, or Other when err is not an *Error.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError normalizes a raw driver error.
func ConvertPgError(src *pgconn.PgError) *Error {
	e := &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
	e.friendly = formatMessage(e)

	return e
}

func formatMessage(sqlErr *Error) string {
	entity := getEntityName(sqlErr.TableName)

	switch sqlErr.Code {
	case NotNullViolation:
		field := humanizeText(sqlErr.ColumnName)
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entity)
	case CheckViolation:
		return "One or more values do not meet required conditions"
	case InvalidText, NumericOutOfRange:
		return "A value could not be stored: " + sqlErr.Message
	case UndefinedTable:
		return fmt.Sprintf("The %s table does not exist", entity)
	default:
		return ""
	}
}

// getEntityName singularizes a table name for messages: "expenses" -> "Expense".
func getEntityName(tableName string) string {
	if tableName == "" {
		return "record"
	}

	entity := strings.ReplaceAll(tableName, "-", "_")
	entity = strings.TrimSuffix(entity, "_table")
	if strings.HasSuffix(entity, "s") && len(entity) > 1 {
		entity = entity[:len(entity)-1]
	}

	return humanizeText(entity)
}

// humanizeText converts snake_case into Title Case: "first_name" -> "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError normalizes a database error. Postgres server errors become
// *Error; anything else is returned unchanged.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var already *Error
	if errors.As(err, &already) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return ConvertPgError(pgerr)
	}

	return err
}

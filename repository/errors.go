package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("not found")
	// ErrReferenced is returned when a delete is blocked by rows that point at the target
	ErrReferenced = errors.New("referenced by other records")
	// ErrMissingReference is returned when an insert points at a row that does not exist
	ErrMissingReference = errors.New("referenced record does not exist")
)

const (
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// classify maps driver errors onto repository sentinels, keeping the original in the chain
func classify(err error, deleting bool) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows), hasPGCode(err, pgInvalidText):
		return errors.Join(ErrNotFound, err)
	case hasPGCode(err, pgForeignKeyViolation) && deleting:
		return errors.Join(ErrReferenced, err)
	case hasPGCode(err, pgForeignKeyViolation):
		return errors.Join(ErrMissingReference, err)
	default:
		return err
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

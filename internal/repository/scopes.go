package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownOrder is returned when a list is asked for an ordering it does not support.
	ErrUnknownOrder = errors.New("unknown ordering")
)

// ListOptions are the filters shared by every listing
type ListOptions struct {
	// Query is a case-insensitive substring matched against the entity's search fields
	Query string
	// IncludeInactive lists soft-deleted rows as well (administrative view)
	IncludeInactive bool
	// Active restricts the list to one state; it wins over IncludeInactive
	Active *bool
	// Order names one of the entity's supported orderings; empty means insertion order
	Order string
}

// visibility applies the soft-delete filter. Every list and count goes through it.
func visibility(table string, opts ListOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case opts.Active != nil:
			return db.Where(table+".active = ?", *opts.Active)
		case opts.IncludeInactive:
			return db
		default:
			return db.Where(table+".active = ?", true)
		}
	}
}

// activeOnly is the default listing filter
func activeOnly(table string) func(*gorm.DB) *gorm.DB {
	return visibility(table, ListOptions{})
}

// likeEscape is portable across mysql, postgres and sqlite; a backslash is not
// because mysql treats it as an escape inside string literals.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// search matches query against any of the given columns, ignoring case
func search(query string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		query = strings.TrimSpace(query)
		if query == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE ? ESCAPE '" + likeEscape + "'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// ordering resolves a named ordering against the entity's allowed set
func ordering(table, name string, allowed map[string]string) (string, error) {
	if name == "" {
		return table + ".id ASC", nil
	}
	clause, ok := allowed[name]
	if !ok {
		return "", ErrUnknownOrder
	}
	return clause + ", " + table + ".id ASC", nil
}

// setActive flips the soft-delete flag without touching any other column or dependent row
func setActive(db *gorm.DB, model interface{}, id uint, active bool) error {
	return db.Model(model).Where("id = ?", id).Update("active", active).Error
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: what, ID: id}
	}
	return err
}

// NotFoundError identifies the missing record; it matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

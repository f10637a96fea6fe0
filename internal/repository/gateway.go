package repository

import (
	"errors"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/kutbudev/tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Clause is one WHERE condition in gorm syntax.
type Clause struct {
	Query interface{}
	Args  []interface{}
}

// Where builds a Clause.
func Where(query interface{}, args ...interface{}) Clause {
	return Clause{Query: query, Args: args}
}

// Query describes a filtered read.
type Query struct {
	Where   []Clause
	Sort    []string
	Preload []string
	Limit   int
	// Lock adds SELECT ... FOR UPDATE where the dialect supports it.
	Lock bool
}

func (q Query) apply(tx *gorm.DB) *gorm.DB {
	for _, w := range q.Where {
		tx = tx.Where(w.Query, w.Args...)
	}
	for _, s := range q.Sort {
		tx = tx.Order(s)
	}
	for _, p := range q.Preload {
		tx = tx.Preload(p)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Lock {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// GetByID loads a row by primary key.
func GetByID[T any](tx *gorm.DB, id uuid.UUID, preload ...string) (*T, error) {
	return First[T](tx, Query{Where: []Clause{Where("id = ?", id)}, Preload: preload})
}

// First returns the first row matching q, or a NotFound error.
func First[T any](tx *gorm.DB, q Query) (*T, error) {
	q.Limit = 1
	var rows []T
	if err := q.apply(tx).Find(&rows).Error; err != nil {
		return nil, Translate[T](err, "")
	}
	if len(rows) == 0 {
		return nil, models.NotFound(modelName[T](), "")
	}
	return &rows[0], nil
}

// Filter returns every row matching q.
func Filter[T any](tx *gorm.DB, q Query) ([]T, error) {
	rows := []T{}
	if err := q.apply(tx).Find(&rows).Error; err != nil {
		return nil, Translate[T](err, "")
	}
	return rows, nil
}

// All returns every row in the given order.
func All[T any](tx *gorm.DB, sort ...string) ([]T, error) {
	return Filter[T](tx, Query{Sort: sort})
}

// Count returns the number of rows matching q.
func Count[T any](tx *gorm.DB, q Query) (int64, error) {
	var n int64
	if err := q.apply(tx.Model(new(T))).Count(&n).Error; err != nil {
		return 0, Translate[T](err, "")
	}
	return n, nil
}

// Create inserts v together with its associations.
func Create[T any](tx *gorm.DB, v *T) error {
	if err := tx.Create(v).Error; err != nil {
		return Translate[T](err, "")
	}
	return nil
}

// Save writes every column of v, leaving associations untouched.
func Save[T any](tx *gorm.DB, v *T) error {
	if err := tx.Omit(clause.Associations).Save(v).Error; err != nil {
		return Translate[T](err, "")
	}
	return nil
}

// Update sets the given columns on rows matching q.
func Update[T any](tx *gorm.DB, q Query, columns map[string]interface{}) (int64, error) {
	res := q.apply(tx.Model(new(T))).Updates(columns)
	if res.Error != nil {
		return 0, Translate[T](res.Error, "")
	}
	return res.RowsAffected, nil
}

// Delete removes rows matching q and reports how many were removed.
func Delete[T any](tx *gorm.DB, q Query) (int64, error) {
	res := q.apply(tx).Delete(new(T))
	if res.Error != nil {
		return 0, Translate[T](res.Error, "")
	}
	return res.RowsAffected, nil
}

// Exec runs a raw statement, used for join tables that have no model.
func Exec(tx *gorm.DB, sql string, args ...interface{}) error {
	if err := tx.Exec(sql, args...).Error; err != nil {
		return models.StorageError(err)
	}
	return nil
}

// Translate maps gorm errors onto the model error kinds.
func Translate[T any](err error, ref string) error {
	switch {
	case err == nil:
		return nil
	case models.KindName(err) != "":
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NotFound(modelName[T](), ref)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &models.Error{Kind: models.ErrAlreadyExists, Model: modelName[T](), Ref: ref, Err: err}
	default:
		return models.StorageError(err)
	}
}

func modelName[T any]() string {
	return strings.ToLower(reflect.TypeOf((*T)(nil)).Elem().Name())
}

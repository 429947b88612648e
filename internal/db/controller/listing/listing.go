// Package listing implements the paginated list query shared by the record controllers.
package listing

import (
	"gorm.io/gorm"
)

// Page selects a window of a list. Page is 1-based.
type Page struct {
	Page     int
	PageSize int
}

// Paginated reports whether both page and page size are set.
func (p Page) Paginated() bool {
	return p.Page > 0 && p.PageSize > 0
}

// Offset returns the number of rows skipped before the page starts.
func (p Page) Offset() int {
	if !p.Paginated() {
		return 0
	}

	return (p.Page - 1) * p.PageSize
}

// Result holds one page of rows and the number of rows matching the filter.
type Result[T any] struct {
	Rows  []T   `json:"data"`
	Count int64 `json:"count"`
}

// Scope narrows a list query, usually with a WHERE clause.
type Scope func(*gorm.DB) *gorm.DB

// Find counts the rows of T matched by scope and loads the requested page ordered by id.
// Without pagination all matching rows are returned.
func Find[T any](db *gorm.DB, page Page, scope Scope, preloads ...string) (*Result[T], error) {
	if scope == nil {
		scope = func(tx *gorm.DB) *gorm.DB { return tx }
	}

	res := &Result[T]{Rows: make([]T, 0)}

	if err := db.Model(new(T)).Scopes(scope).Count(&res.Count).Error; err != nil {
		return nil, err
	}

	query := db.Model(new(T)).Scopes(scope)
	for _, p := range preloads {
		query = query.Preload(p)
	}

	if page.Paginated() {
		query = query.Order("id ASC").Offset(page.Offset()).Limit(page.PageSize)
	}

	if err := query.Find(&res.Rows).Error; err != nil {
		return nil, err
	}

	return res, nil
}

// Like wraps term for a LIKE match anywhere in the column.
func Like(term string) string {
	return "%" + term + "%"
}

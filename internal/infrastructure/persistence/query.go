package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// translateError maps GORM's not-found and duplicate-key errors to domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyViolation(err):
		return shared.ErrInUse
	}
	return err
}

// isUniqueViolation recognizes unique constraint failures from PostgreSQL (23505) and SQLite
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isForeignKeyViolation recognizes referential integrity failures from PostgreSQL (23503) and SQLite
func isForeignKeyViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23503") || strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// likePattern builds a case-insensitive LIKE pattern, to be compared against LOWER(column)
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(strings.TrimSpace(search)))
	return "%" + escaped + "%"
}

// paginate applies the filter's ordering (whitelisted), offset and limit
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.
		Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit())
}

// filterValue returns the named filter when present and non-empty
func filterValue(filter shared.Filter, key string) (any, bool) {
	if filter.Filters == nil {
		return nil, false
	}
	v, ok := filter.Filters[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && s == "" {
		return nil, false
	}
	return v, true
}

// findPage counts the rows matched by query and loads one page of them into dest.
// The extra scopes (preloads) only apply to the page query.
func findPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string, dest any, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	base := query.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := paginate(base, filter, allowed, defaultField).Scopes(scopes...).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// nextVersion returns the version to store for an aggregate that was loaded at expected.
// Domain methods already bump the version; a caller that did not still gets a fresh one.
func nextVersion(agg *shared.BaseAggregateRoot, expected int) int {
	if agg.Version <= expected {
		agg.Version = expected + 1
	}
	return agg.Version
}

// updateVersioned runs a guarded UPDATE ... WHERE id = ? AND version = ?.
// When no row matches it distinguishes a missing row from a stale version.
func updateVersioned(tx *gorm.DB, model any, tenantID, id uuid.UUID, expectedVersion int, values map[string]any) error {
	result := tx.Model(model).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(values)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

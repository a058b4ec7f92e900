package transaction

import (
	"context"

	"gorm.io/gorm"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/utils/contextkeys"
)

func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, contextkeys.TransactionContextKey{}, tx)
}

type Database struct {
	db *gorm.DB
}

func (t *Database) GetTx(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(contextkeys.TransactionContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return t.db
}

// GetQuery returns a session bound to ctx, inside the request transaction
// when one is active.
func (t *Database) GetQuery(ctx context.Context) *gorm.DB {
	return t.GetTx(ctx).WithContext(ctx)
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db}
}

// Paginate applies limit, offset and id cursor ordering on the given column.
func Paginate(sql *gorm.DB, idColumn string, p *query.Pagination) *gorm.DB {
	if p == nil {
		return sql.Order(idColumn + " ASC")
	}
	if p.Limit != nil && *p.Limit > 0 {
		sql = sql.Limit(*p.Limit)
	}
	if p.Offset != nil && *p.Offset > 0 {
		sql = sql.Offset(*p.Offset)
	}
	if p.After != nil {
		if p.Order == "desc" {
			sql = sql.Where(idColumn+" < ?", *p.After)
		} else {
			sql = sql.Where(idColumn+" > ?", *p.After)
		}
	}
	if p.Order == "desc" {
		return sql.Order(idColumn + " DESC")
	}
	return sql.Order(idColumn + " ASC")
}

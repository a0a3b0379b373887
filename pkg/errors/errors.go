package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStateChanged 条件更新未命中任何行：记录已删除
// 或已不处于调用方预期的状态
var ErrStateChanged = errors.New("row no longer in expected state")

// PostgreSQL SQLSTATE 错误码
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation 判断是否为 PostgreSQL 唯一约束冲突
// 可选地限定为指定的约束名
func IsUniqueViolation(err error, constraints ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}

// IsForeignKeyViolation 判断是否为 PostgreSQL 外键冲突
// 如删除仍被引用的记录
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

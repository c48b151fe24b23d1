package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrLockNotAcquired 分布式锁已被其他实例持有
var ErrLockNotAcquired = errors.New("资源正被其他操作占用，请稍后重试")

// PostgreSQL 完整性约束错误码
const (
	PgExclusionViolation = "23P01"
	PgUniqueViolation    = "23505"
)

// IsIntegrityViolation 判断是否为排他约束或唯一约束冲突
func IsIntegrityViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == PgExclusionViolation || pgErr.Code == PgUniqueViolation
}

// ConstraintName 返回触发错误的约束名，非数据库错误返回空串
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

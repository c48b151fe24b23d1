package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsIntegrityViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"排他约束", &pgconn.PgError{Code: PgExclusionViolation}, true},
		{"唯一约束", &pgconn.PgError{Code: PgUniqueViolation}, true},
		{"包装后的排他约束", fmt.Errorf("写入失败: %w", &pgconn.PgError{Code: PgExclusionViolation}), true},
		{"外键约束", &pgconn.PgError{Code: "23503"}, false},
		{"普通错误", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIntegrityViolation(tt.err); got != tt.want {
				t.Errorf("IsIntegrityViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstraintName(t *testing.T) {
	err := fmt.Errorf("tx: %w", &pgconn.PgError{Code: PgExclusionViolation, ConstraintName: "excl_placements_room_overlap"})
	if got := ConstraintName(err); got != "excl_placements_room_overlap" {
		t.Errorf("ConstraintName() = %q", got)
	}
	if got := ConstraintName(errors.New("boom")); got != "" {
		t.Errorf("非数据库错误应返回空串，实际 %q", got)
	}
}

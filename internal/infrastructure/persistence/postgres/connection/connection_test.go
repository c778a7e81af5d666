package connection

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsPoolExhausted(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"too_many_connections code", &pq.Error{Code: "53300"}, true},
		{"configuration_limit_exceeded code", &pq.Error{Code: "53400"}, true},
		{"wrapped pq error", fmt.Errorf("tx failed: %w", &pq.Error{Code: "53300"}), true},
		{"driver message without code", errors.New("pq: sorry, too many clients already"), true},
		{"pool exhausted message", errors.New("connection pool exhausted"), true},
		{"unique violation is not transient", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("relation does not exist"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPoolExhausted(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pq unique violation", &pq.Error{Code: "23505"}, true},
		{"wrapped pq unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"pool exhaustion is not a conflict", &pq.Error{Code: "53300"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

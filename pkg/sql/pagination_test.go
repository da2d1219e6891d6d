package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fguintu/FlySQL/pkg/models"
)

func TestRewriter_PageSizeIsClamped(t *testing.T) {
	r := NewRewriter(1000)

	for _, size := range []int{-50, -1, 0, 1, 2, 100, 999, 1000, 1001, 1 << 30} {
		got := r.PageSize(size)
		assert.GreaterOrEqual(t, got, 1, "page_size %d", size)
		assert.LessOrEqual(t, got, 1000, "page_size %d", size)
	}

	assert.Equal(t, 1, r.PageSize(0))
	assert.Equal(t, 250, r.PageSize(250))
	assert.Equal(t, 1000, r.PageSize(5000))
}

func TestNewRewriter_DefaultMax(t *testing.T) {
	assert.Equal(t, models.MaxPageSize, NewRewriter(0).MaxPageSize())
	assert.Equal(t, 50, NewRewriter(50).MaxPageSize())
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page, pageSize, expected int
	}{
		{1, 100, 0},
		{2, 100, 100},
		{3, 25, 50},
		{0, 100, 0},
		{-4, 100, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Offset(tt.page, tt.pageSize), "page=%d size=%d", tt.page, tt.pageSize)
	}
}

func TestRewrite_WrapsUnlimitedStatement(t *testing.T) {
	r := NewRewriter(1000)

	result := r.Rewrite("SELECT * FROM flight", models.Params{}, 3, 50)

	assert.True(t, result.Wrapped)
	assert.Equal(t, "SELECT * FROM (SELECT * FROM flight) AS sub LIMIT $1 OFFSET $2", result.SQL)
	assert.Equal(t, []any{int64(50), int64(100)}, result.Args)
	assert.Equal(t, 50, result.PageSize)
	assert.Equal(t, 100, result.Offset)
}

func TestRewrite_AppendsAfterPositionalParams(t *testing.T) {
	r := NewRewriter(1000)

	result := r.Rewrite("SELECT * FROM flight WHERE airline_id = $1", models.Positional(int64(7)), 1, 10)

	assert.Equal(t, "SELECT * FROM (SELECT * FROM flight WHERE airline_id = $1) AS sub LIMIT $2 OFFSET $3", result.SQL)
	assert.Equal(t, []any{int64(7), int64(10), int64(0)}, result.Args)
}

func TestRewrite_FlattensNamedParamsInInsertionOrder(t *testing.T) {
	r := NewRewriter(1000)
	params := models.Named(
		models.Param{Name: "origin", Value: "ORD"},
		models.Param{Name: "dest", Value: "JFK"},
	)

	result := r.Rewrite("SELECT * FROM route WHERE a = :dest AND b = :origin", params, 2, 20)

	assert.Equal(t, "SELECT * FROM (SELECT * FROM route WHERE a = $2 AND b = $1) AS sub LIMIT $3 OFFSET $4", result.SQL)
	assert.Equal(t, []any{"ORD", "JFK", int64(20), int64(20)}, result.Args)
}

func TestRewrite_IgnoresUnreferencedNamedParams(t *testing.T) {
	r := NewRewriter(1000)
	params := models.Named(
		models.Param{Name: "note", Value: "x"},
		models.Param{Name: "code", Value: "JFK"},
	)

	result := r.Rewrite("SELECT * FROM airport WHERE iata = :code", params, 1, 10)

	assert.Equal(t, "SELECT * FROM (SELECT * FROM airport WHERE iata = $1) AS sub LIMIT $2 OFFSET $3", result.SQL)
	assert.Equal(t, []any{"JFK", int64(10), int64(0)}, result.Args)
}

func TestRewrite_ClampsPageSize(t *testing.T) {
	r := NewRewriter(1000)

	result := r.Rewrite("SELECT 1", models.Params{}, 2, 100000)
	assert.Equal(t, []any{int64(1000), int64(1000)}, result.Args)

	result = r.Rewrite("SELECT 1", models.Params{}, 1, 0)
	assert.Equal(t, []any{int64(1), int64(0)}, result.Args)
}

func TestRewrite_RespectsCallerLimit(t *testing.T) {
	r := NewRewriter(1000)

	tests := []string{
		"SELECT * FROM flight LIMIT 5",
		"select * from flight limit 5000",
		"SELECT * FROM flight\nLIMIT\t10 OFFSET 20",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			result := r.Rewrite(input, models.Positional("x"), 4, 10)
			assert.False(t, result.Wrapped)
			assert.Equal(t, input, result.SQL)
			assert.Equal(t, []any{"x"}, result.Args)
		})
	}
}

func TestRewrite_LimitMustBeAWholeToken(t *testing.T) {
	r := NewRewriter(1000)

	result := r.Rewrite("SELECT speed_limit FROM airplane_type", models.Params{}, 1, 10)

	assert.True(t, result.Wrapped)
}

func TestRewrite_IsIdempotent(t *testing.T) {
	r := NewRewriter(1000)
	params := models.Named(models.Param{Name: "origin", Value: "ORD"})

	first := r.Rewrite("SELECT * FROM airport WHERE iata = :origin", params, 2, 25)
	require.True(t, first.Wrapped)

	second := r.Rewrite(first.SQL, models.Positional(first.Args...), 2, 25)
	third := r.Rewrite(second.SQL, models.Positional(second.Args...), 2, 25)

	assert.False(t, second.Wrapped)
	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, first.Args, second.Args)
	assert.Equal(t, second.SQL, third.SQL)
	assert.Equal(t, second.Args, third.Args)
}

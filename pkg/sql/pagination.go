package sql

import (
	"fmt"

	"github.com/fguintu/FlySQL/pkg/models"
)

// Rewriter bounds ad-hoc SELECT statements for paginated execution.
type Rewriter struct {
	maxPageSize int
}

// NewRewriter creates a Rewriter that clamps page sizes to maxPageSize.
// A non-positive maxPageSize falls back to models.MaxPageSize.
func NewRewriter(maxPageSize int) *Rewriter {
	if maxPageSize <= 0 {
		maxPageSize = models.MaxPageSize
	}
	return &Rewriter{maxPageSize: maxPageSize}
}

// MaxPageSize returns the configured page size ceiling.
func (r *Rewriter) MaxPageSize() int { return r.maxPageSize }

// RewriteResult is a statement ready for execution.
type RewriteResult struct {
	SQL  string
	Args []any

	// PageSize and Offset are the effective pagination values. They are
	// reported even when the statement carried its own LIMIT and was not
	// wrapped.
	PageSize int
	Offset   int

	// Wrapped is false when the caller's LIMIT was respected as-is.
	Wrapped bool
}

// PageSize clamps pageSize into [1, MaxPageSize].
func (r *Rewriter) PageSize(pageSize int) int {
	switch {
	case pageSize < 1:
		return 1
	case pageSize > r.maxPageSize:
		return r.maxPageSize
	default:
		return pageSize
	}
}

// Offset returns (page-1) × pageSize, never negative. pageSize must already
// be clamped.
func Offset(page, pageSize int) int {
	return max(0, (page-1)*pageSize)
}

// Rewrite binds params and wraps sqlQuery as
//
//	SELECT * FROM (<sqlQuery>) AS sub LIMIT $n+1 OFFSET $n+2
//
// appending the effective page size and offset to the n bind values.
//
// A statement that already contains the token "limit" passes through
// unmodified with its own params. Rewriting the output again is therefore a
// no-op. Known limitation: a caller LIMIT without OFFSET is not clamped to
// the maximum page size.
func (r *Rewriter) Rewrite(sqlQuery string, params models.Params, page, pageSize int) RewriteResult {
	effective := r.PageSize(pageSize)
	offset := Offset(page, effective)

	bound, args := BindNamed(sqlQuery, params)

	if containsToken(bound, "limit") {
		return RewriteResult{
			SQL:      bound,
			Args:     args,
			PageSize: effective,
			Offset:   offset,
		}
	}

	n := len(args)
	return RewriteResult{
		SQL:      fmt.Sprintf("SELECT * FROM (%s) AS sub LIMIT $%d OFFSET $%d", bound, n+1, n+2),
		Args:     append(args, int64(effective), int64(offset)),
		PageSize: effective,
		Offset:   offset,
		Wrapped:  true,
	}
}

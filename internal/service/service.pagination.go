package service

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage      = 1
	DefaultPageLimit = 60
)

// LenientPagination coerces page and limit input instead of rejecting it.
// Missing, non-numeric and non-positive values fall back to the defaults;
// limits above MaxLimit are clamped.
type LenientPagination struct {
	DefaultLimit int
	MaxLimit     int
}

func NewLenientPagination(defaultLimit, maxLimit int) LenientPagination {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if maxLimit > 0 && defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return LenientPagination{DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

// Page parses a raw page number.
func (p LenientPagination) Page(raw string) int {
	return p.NormalizePage(parseInt(raw))
}

// Limit parses a raw page size.
func (p LenientPagination) Limit(raw string) int {
	return p.NormalizeLimit(parseInt(raw))
}

func (p LenientPagination) NormalizePage(page int) int {
	if page <= 0 {
		return DefaultPage
	}
	return page
}

func (p LenientPagination) NormalizeLimit(limit int) int {
	if limit <= 0 {
		return p.DefaultLimit
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		return p.MaxLimit
	}
	return limit
}

// Offset is the number of rows before page. It saturates at math.MaxInt
// instead of wrapping, so a huge page lands past the last row.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// parseInt returns 0 for anything that is not a base-10 integer.
func parseInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

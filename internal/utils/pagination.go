package utils

import (
	"math"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 10

	// MaxPage keeps (Number-1)*Size inside an int on every platform.
	MaxPage = math.MaxInt32 / MaxPageSize
)

type Page struct {
	Number int
	Size   int
}

// ParsePage reads the raw page/pageSize query values. Anything missing,
// non-numeric or out of range falls back to the defaults instead of failing
// the request.
func ParsePage(rawPage, rawSize string) Page {
	p := Page{Number: DefaultPage, Size: DefaultPageSize}

	if n, err := strconv.Atoi(rawPage); err == nil && n >= 1 && n <= MaxPage {
		p.Number = n
	}

	if n, err := strconv.Atoi(rawSize); err == nil && n >= 1 && n <= MaxPageSize {
		p.Size = n
	}

	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}

// LastPage is never below 1 so an empty collection still has a first page.
func (p Page) LastPage(total int64) int {
	if total <= 0 || p.Size <= 0 {
		return 1
	}

	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

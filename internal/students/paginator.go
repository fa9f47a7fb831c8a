package students

import (
	"strconv"
	"strings"

	"github.com/nfrund/student-portal/internal/domain"
)

// PageSize is the number of students shown per page.
const PageSize = 10

// Page is one page of a (possibly filtered) student listing.
type Page struct {
	Students []domain.Student
	Search   string
	Number   int
	NumPages int
	Total    int64
}

// NumPages returns the page count for total items. An empty listing still
// has one page.
func NumPages(total int64, size int) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// NormalizePage turns the raw page parameter into a page in [1, numPages].
// Missing or non-numeric values give the first page; out of range values
// give the last one.
func NormalizePage(raw string, numPages int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

func (p *Page) HasPrevious() bool { return p.Number > 1 }

func (p *Page) HasNext() bool { return p.Number < p.NumPages }

func (p *Page) PreviousNumber() int { return p.Number - 1 }

func (p *Page) NextNumber() int { return p.Number + 1 }

// StartIndex is the 1-based position of the first student on the page, or 0
// for an empty listing.
func (p *Page) StartIndex() int64 {
	if p.Total == 0 {
		return 0
	}
	return int64(p.Number-1)*PageSize + 1
}

// EndIndex is the 1-based position of the last student on the page.
func (p *Page) EndIndex() int64 {
	if p.Number == p.NumPages {
		return p.Total
	}
	return int64(p.Number) * PageSize
}

// Package query describes filter, sort and page requests for stocks and
// applies them to in-memory slices. The gorm adapter builds the equivalent SQL.
package query

import (
	"errors"
	"math"
	"sort"
	"strings"

	"portfolio_backend/internal/feature/stocks/domain/entity"
)

// Paging defaults used when the caller omits pageNumber or pageSize.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
)

// ErrInvalidPage is returned for a page number or page size below 1.
var ErrInvalidPage = errors.New("pageNumber and pageSize must be at least 1")

// SortKey is one of the fixed stock orderings.
type SortKey string

const (
	SortNone        SortKey = ""
	SortSymbol      SortKey = "symbol"
	SortCompanyName SortKey = "companyname"
	SortPurchase    SortKey = "purchase"
	SortLastDiv     SortKey = "lastdiv"
	SortIndustry    SortKey = "industry"
	SortMarketCap   SortKey = "marketcap"
)

var sortKeys = map[string]SortKey{
	string(SortSymbol):      SortSymbol,
	string(SortCompanyName): SortCompanyName,
	string(SortPurchase):    SortPurchase,
	string(SortLastDiv):     SortLastDiv,
	string(SortIndustry):    SortIndustry,
	string(SortMarketCap):   SortMarketCap,
}

// ParseSortKey matches s case-insensitively. Unknown values yield SortNone.
func ParseSortKey(s string) SortKey {
	return sortKeys[strings.ToLower(strings.TrimSpace(s))]
}

// Column returns the store column for the key, or "" for SortNone.
func (k SortKey) Column() string {
	switch k {
	case SortSymbol:
		return "symbol"
	case SortCompanyName:
		return "company_name"
	case SortPurchase:
		return "purchase"
	case SortLastDiv:
		return "last_div"
	case SortIndustry:
		return "industry"
	case SortMarketCap:
		return "market_cap"
	default:
		return ""
	}
}

// StockQuery is a filter/sort/page request for the stock list.
// Symbol and CompanyName are case-sensitive substring filters; empty means no filter.
type StockQuery struct {
	Symbol         string
	CompanyName    string
	SortBy         SortKey
	SortDescending bool
	PageNumber     int
	PageSize       int
}

// Default returns the query with no filters and the default page.
func Default() StockQuery {
	return StockQuery{PageNumber: DefaultPageNumber, PageSize: DefaultPageSize}
}

// Validate rejects page numbers or sizes below 1.
func (q StockQuery) Validate() error {
	if q.PageNumber < 1 || q.PageSize < 1 {
		return ErrInvalidPage
	}
	return nil
}

// Offset is the number of matching rows skipped before the page.
// ok is false when the offset does not fit in an int; such a page lies past
// the end of any result set.
func (q StockQuery) Offset() (offset int, ok bool) {
	if q.PageNumber < 1 || q.PageSize < 1 || q.PageNumber-1 > math.MaxInt/q.PageSize {
		return 0, false
	}
	return (q.PageNumber - 1) * q.PageSize, true
}

// ApplyStockQuery filters, orders and pages stocks in memory.
// The input is treated as storage order once sorted by ID; recognized sort
// keys break ties by ascending ID. A page past the end yields an empty slice.
// q must be valid.
func ApplyStockQuery(stocks []entity.Stock, q StockQuery) []entity.Stock {
	out := make([]entity.Stock, 0, len(stocks))
	for _, s := range stocks {
		if q.Symbol != "" && !strings.Contains(s.Symbol, q.Symbol) {
			continue
		}
		if q.CompanyName != "" && !strings.Contains(s.CompanyName, q.CompanyName) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if less := lessFor(q.SortBy); less != nil {
		sort.SliceStable(out, func(i, j int) bool {
			if q.SortDescending {
				return less(out[j], out[i])
			}
			return less(out[i], out[j])
		})
	}

	start, ok := q.Offset()
	if !ok || start >= len(out) {
		return []entity.Stock{}
	}
	end := len(out)
	if q.PageSize < end-start {
		end = start + q.PageSize
	}
	return out[start:end]
}

func lessFor(k SortKey) func(a, b entity.Stock) bool {
	switch k {
	case SortSymbol:
		return func(a, b entity.Stock) bool { return a.Symbol < b.Symbol }
	case SortCompanyName:
		return func(a, b entity.Stock) bool { return a.CompanyName < b.CompanyName }
	case SortPurchase:
		return func(a, b entity.Stock) bool { return a.Purchase < b.Purchase }
	case SortLastDiv:
		return func(a, b entity.Stock) bool { return a.LastDiv < b.LastDiv }
	case SortIndustry:
		return func(a, b entity.Stock) bool { return a.Industry < b.Industry }
	case SortMarketCap:
		return func(a, b entity.Stock) bool { return a.MarketCap < b.MarketCap }
	default:
		return nil
	}
}

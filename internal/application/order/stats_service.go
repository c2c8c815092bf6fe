package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/order"
	"github.com/floresya/backend/internal/domain/shared"
)

// StatsPeriod represents the reporting window for statistics
type StatsPeriod struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// StatsFilter bounds the statistics to the same conditions the order
// list accepts, so dashboard figures match what the list shows.
type StatsFilter struct {
	From         time.Time
	To           time.Time
	Status       *order.OrderStatus
	Search       string
	DeliveryCity string
}

func (f StatsFilter) toDomain() shared.Filter {
	domainFilter := shared.Filter{
		Search:  f.Search,
		Filters: map[string]interface{}{},
	}
	if !f.From.IsZero() {
		domainFilter.Filters["start_date"] = f.From
	}
	if !f.To.IsZero() {
		domainFilter.Filters["end_date"] = f.To
	}
	if f.Status != nil {
		domainFilter.Filters["status"] = string(*f.Status)
	}
	if f.DeliveryCity != "" {
		domainFilter.Filters["delivery_city"] = f.DeliveryCity
	}
	return domainFilter
}

// RevenueResponse aggregates revenue for the period.
// Cancelled orders are excluded from every figure here.
type RevenueResponse struct {
	OrderCount int64           `json:"order_count"`
	TotalUSD   decimal.Decimal `json:"total_usd"`
	TotalVES   decimal.Decimal `json:"total_ves"`
	AverageUSD decimal.Decimal `json:"average_usd"`
}

// TopProductResponse is a product ranked by units sold
type TopProductResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	RevenueUSD  decimal.Decimal `json:"revenue_usd"`
}

// OrderStatsResponse is the dashboard statistics payload
type OrderStatsResponse struct {
	Period      StatsPeriod          `json:"period"`
	TotalOrders int64                `json:"total_orders"`
	ByStatus    map[string]int64     `json:"by_status"`
	ByBucket    map[string]int64     `json:"by_bucket"`
	Revenue     RevenueResponse      `json:"revenue"`
	TopProducts []TopProductResponse `json:"top_products"`
}

// DefaultTopProductsLimit bounds the top products ranking
const DefaultTopProductsLimit = 5

// StatsService computes order statistics for the admin dashboard
type StatsService struct {
	orderRepo order.Repository
}

// NewStatsService creates a new StatsService
func NewStatsService(orderRepo order.Repository) *StatsService {
	return &StatsService{orderRepo: orderRepo}
}

// GetStats computes statistics for the given filter set.
// All statuses are counted, but revenue and top products exclude
// cancelled orders entirely. The bucket totals always sum to the
// order total, whatever the filter.
func (s *StatsService) GetStats(ctx context.Context, filter StatsFilter) (*OrderStatsResponse, error) {
	if !filter.To.After(filter.From) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "End of period must be after its start")
	}

	domainFilter := filter.toDomain()

	counts, err := s.orderRepo.CountByStatus(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(counts))
	byBucket := map[string]int64{
		string(order.BucketPending):    0,
		string(order.BucketProcessing): 0,
		string(order.BucketCompleted):  0,
		string(order.BucketCancelled):  0,
	}
	var total int64
	for _, c := range counts {
		byStatus[c.Status.String()] = c.Count
		byBucket[string(c.Status.Bucket())] += c.Count
		total += c.Count
	}

	revenue, err := s.orderRepo.Revenue(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if revenue.OrderCount > 0 {
		average = revenue.TotalUSD.Div(decimal.NewFromInt(revenue.OrderCount)).Round(2)
	}

	top, err := s.orderRepo.TopProducts(ctx, domainFilter, DefaultTopProductsLimit)
	if err != nil {
		return nil, err
	}
	topProducts := make([]TopProductResponse, len(top))
	for i, p := range top {
		topProducts[i] = TopProductResponse{
			ProductID:   p.ProductID.String(),
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			RevenueUSD:  p.RevenueUSD,
		}
	}

	return &OrderStatsResponse{
		Period:      StatsPeriod{From: filter.From, To: filter.To},
		TotalOrders: total,
		ByStatus:    byStatus,
		ByBucket:    byBucket,
		Revenue: RevenueResponse{
			OrderCount: revenue.OrderCount,
			TotalUSD:   revenue.TotalUSD,
			TotalVES:   revenue.TotalVES,
			AverageUSD: average,
		},
		TopProducts: topProducts,
	}, nil
}

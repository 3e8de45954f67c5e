package services

import (
	"context"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/shopspring/decimal"
)

const (
	defaultReportWindow = 30 * 24 * time.Hour
	defaultTopProducts  = 10
	maxTopProducts      = 100
)

type ReportService interface {
	// Sales aggregates non-cancelled orders created in [From, To).
	Sales(ctx context.Context, request *SalesReportRequest) (*SalesReport, error)
}

type SalesReportRequest struct {
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Timezone string     `form:"timezone" validate:"omitempty,timezone"`
	Limit    int        `form:"limit" validate:"omitempty,min=1,max=100"`
}

type SalesReport struct {
	From        time.Time            `json:"from"`
	To          time.Time            `json:"to"`
	Timezone    string               `json:"timezone"`
	Summary     *models.SalesSummary `json:"summary"`
	Daily       []*models.DailySales `json:"daily"`
	TopProducts []*models.TopProduct `json:"top_products"`
}

type reportService struct {
	orderRepo interfaces.OrderRepository
	logger    *logger.Logger
	now       func() time.Time
}

func NewReportService(orderRepo interfaces.OrderRepository, logger *logger.Logger) ReportService {
	return &reportService{
		orderRepo: orderRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *reportService) window(request *SalesReportRequest) (interfaces.ReportRange, error) {
	to := s.now().UTC()
	if request.To != nil {
		to = request.To.UTC()
	}
	from := to.Add(-defaultReportWindow)
	if request.From != nil {
		from = request.From.UTC()
	}
	if !from.Before(to) {
		return interfaces.ReportRange{}, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"from": "from must be before to"})
	}
	return interfaces.ReportRange{From: from, To: to}, nil
}

func (s *reportService) Sales(ctx context.Context, request *SalesReportRequest) (*SalesReport, error) {
	window, err := s.window(request)
	if err != nil {
		return nil, err
	}

	timezone := request.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"timezone": "unknown timezone"})
	}

	limit := request.Limit
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}

	summary, err := s.orderRepo.Summary(ctx, window)
	if err != nil {
		return nil, repoError(err, "sales report")
	}
	summary.NetRevenue = utils.Money(utils.Dec(summary.Gross).Sub(utils.Dec(summary.Discounts)))
	if summary.Orders > 0 {
		summary.AverageOrderValue = utils.Money(utils.Dec(summary.Revenue).Div(decimal.NewFromInt(summary.Orders)))
	}

	daily, err := s.orderRepo.Daily(ctx, window, timezone)
	if err != nil {
		return nil, repoError(err, "sales report")
	}

	top, err := s.orderRepo.TopProducts(ctx, window, limit)
	if err != nil {
		return nil, repoError(err, "sales report")
	}

	s.logger.WithFields(map[string]interface{}{
		"from":   window.From,
		"to":     window.To,
		"orders": summary.Orders,
	}).Debug("Sales report computed")

	return &SalesReport{
		From:        window.From,
		To:          window.To,
		Timezone:    timezone,
		Summary:     summary,
		Daily:       daily,
		TopProducts: top,
	}, nil
}

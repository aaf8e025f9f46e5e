package services

import (
	"context"
	"log/slog"
	"time"

	"orderdesk/entity"
	"orderdesk/events"
	"orderdesk/pkg/cache"
	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RevenueService struct {
	DB    *gorm.DB
	Repo  *repository.OrderRepository
	Cache cache.Cache
	TTL   time.Duration
	Log   *logger.Logger
}

func NewRevenueService(db *gorm.DB, repo *repository.OrderRepository, c cache.Cache, ttl time.Duration, log *logger.Logger) *RevenueService {
	if c == nil {
		c = cache.NewMemoryCache("orderdesk")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RevenueService{DB: db, Repo: repo, Cache: c, TTL: ttl, Log: log}
}

type RevenueReport struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	PaidOrders   []entity.Order  `json:"paidOrders"`
}

// SumTotals adds up order totals.
func SumTotals(orders []entity.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.TotalPrice)
	}
	return sum
}

// Report lists every paid order and their lifetime total.
func (s *RevenueService) Report(ctx context.Context) (*RevenueReport, error) {
	paid, err := s.Repo.ListByStatus(s.DB.WithContext(ctx), entity.StatusPaid)
	if err != nil {
		return nil, repoErr("revenue.report", i18n.MsgOrderNotFound, err)
	}
	return &RevenueReport{TotalRevenue: SumTotals(paid), PaidOrders: paid}, nil
}

// Total returns the lifetime revenue, served from cache when possible.
// Cache failures are logged and fall through to the database.
func (s *RevenueService) Total(ctx context.Context) (decimal.Decimal, error) {
	key := s.key()
	if v, ok, err := s.Cache.Get(ctx, key); err != nil {
		s.Log.Warn("revenue_cache", "", "cache read failed", slog.String("error", err.Error()))
	} else if ok {
		if d, err := decimal.NewFromString(v); err == nil {
			return d, nil
		}
	}

	rep, err := s.Report(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.Cache.Set(ctx, key, rep.TotalRevenue.StringFixed(2), s.TTL); err != nil {
		s.Log.Warn("revenue_cache", "", "cache write failed", slog.String("error", err.Error()))
	}
	return rep.TotalRevenue, nil
}

// Publish drops the cached total on any order change.
func (s *RevenueService) Publish(ctx context.Context, _ events.OrderEvent) {
	if err := s.Cache.Delete(ctx, s.key()); err != nil {
		s.Log.Warn("revenue_cache", "", "cache invalidation failed", slog.String("error", err.Error()))
	}
}

func (s *RevenueService) key() string { return s.Cache.GenerateKey("revenue", "total") }

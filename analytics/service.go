package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ifore/cache"
	"ifore/forecast"
	"ifore/models"
	"ifore/store"
)

// Slices of the newest-first daily series fed to the forecaster. actual is
// series[actualFrom:actualTo] and training is series[trainFrom:], both
// reversed to oldest first. They skip today and depend on BucketCount.
const (
	actualFrom = 1
	actualTo   = 9
	trainFrom  = 2
)

// OverallSeriesName labels the income forecast in a PredictionBundle.
const OverallSeriesName = "Overall"

// Config holds the analytics settings.
type Config struct {
	Epoch              time.Time
	Location           *time.Location
	ForecastCategories []string
	Horizon            int
	Forest             forecast.Options
}

// Service answers the dashboard, prediction and history queries. Every call
// refetches the snapshot it needs from the store.
type Service struct {
	store      store.TransactionStore
	calendar   Calendar
	clock      Clock
	forecaster *forecast.Forecaster
	cache      cache.SeriesCache
	categories []string
	horizon    int
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithCache stores computed daily series in c.
func WithCache(c cache.SeriesCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithForecaster replaces the random forest forecaster.
func WithForecaster(f *forecast.Forecaster) Option {
	return func(s *Service) { s.forecaster = f }
}

func NewService(st store.TransactionStore, cfg Config, opts ...Option) *Service {
	horizon := cfg.Horizon
	if horizon < 1 {
		horizon = 3
	}
	s := &Service{
		store:      st,
		calendar:   NewCalendar(cfg.Epoch, cfg.Location),
		clock:      SystemClock{},
		forecaster: forecast.NewForecaster(cfg.Forest),
		cache:      cache.Noop{},
		categories: append([]string(nil), cfg.ForecastCategories...),
		horizon:    horizon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calendar returns the calendar the service buckets with.
func (s *Service) Calendar() Calendar {
	return s.calendar
}

func (s *Service) today() time.Time {
	return s.calendar.Day(s.clock.Now())
}

func (s *Service) completed(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, store.TransactionFilter{
		Status: models.StatusCompleted,
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return txs, nil
}

// CardSummary compares [start, end] with the window of equal length before it.
func (s *Service) CardSummary(ctx context.Context, start, end time.Time) (*models.CardSummary, error) {
	w, err := s.calendar.Window(start, end)
	if err != nil {
		return nil, err
	}
	prior := s.calendar.Prior(w)

	txs, err := s.completed(ctx, prior.Start, w.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	summary, err := Compare(s.calendar, txs, categories, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().
		Time("start", w.Start).
		Time("end", w.End).
		Int("transactions", summary.TransactionTotal).
		Msg("card summary computed")
	return summary, nil
}

// IncomeProfitSeries returns daily income and profit, newest day first. With
// no categories the transaction totals are summed; otherwise the order item
// totals and profits of the named categories.
func (s *Service) IncomeProfitSeries(ctx context.Context, categories []string) (*models.IncomeProfitSeries, error) {
	set := NewCategorySet(categories...)
	today := s.today()

	var load snapshotLoader = func() ([]Bucket, error) {
		txs, err := s.completed(ctx, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		return s.calendar.Buckets(txs, today), nil
	}
	load = load.once()

	var income, profit []models.Point
	var err error
	if len(set) == 0 {
		income, err = s.series(ctx, string(FieldTotal), nil, today, load, func(b []Bucket) ([]models.Point, error) {
			return Series(b, FieldTotal)
		})
		if err != nil {
			return nil, err
		}
		profit, err = s.series(ctx, string(FieldTotalProfit), nil, today, load, func(b []Bucket) ([]models.Point, error) {
			return Series(b, FieldTotalProfit)
		})
	} else {
		names := set.Names()
		income, err = s.series(ctx, "item_"+string(FieldItemTotal), names, today, load, func(b []Bucket) ([]models.Point, error) {
			return CategorySeries(b, FieldItemTotal, set)
		})
		if err != nil {
			return nil, err
		}
		profit, err = s.series(ctx, "item_"+string(FieldItemProfit), names, today, load, func(b []Bucket) ([]models.Point, error) {
			return CategorySeries(b, FieldItemProfit, set)
		})
	}
	if err != nil {
		return nil, err
	}
	return &models.IncomeProfitSeries{DataIncome: income, DataProfit: profit}, nil
}

// CategorySeries returns the qty sold per category in [start, end].
func (s *Service) CategorySeries(ctx context.Context, start, end time.Time) ([]models.CategoryQty, error) {
	w, err := s.calendar.Window(start, end)
	if err != nil {
		return nil, err
	}
	txs, err := s.completed(ctx, w.Start, w.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return CategoryTotals(s.calendar, txs, categories, w.Start, w.End)
}

// PredictionBundle forecasts overall income and the qty of every configured
// category for the next days.
func (s *Service) PredictionBundle(ctx context.Context) (*models.PredictionBundle, error) {
	logger := zerolog.Ctx(ctx)
	today := s.today()

	var load snapshotLoader = func() ([]Bucket, error) {
		txs, err := s.completed(ctx, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		return s.calendar.Buckets(txs, today), nil
	}
	load = load.once()

	bundle := &models.PredictionBundle{
		GeneratedAt: s.clock.Now(),
		Series:      make([]models.PredictionSeries, 0, len(s.categories)+1),
	}

	income, err := s.series(ctx, string(FieldTotal), nil, today, load, func(b []Bucket) ([]models.Point, error) {
		return Series(b, FieldTotal)
	})
	if err != nil {
		return nil, err
	}
	overall, err := s.predict(OverallSeriesName, income)
	if err != nil {
		return nil, err
	}
	bundle.Series = append(bundle.Series, *overall)

	for _, name := range s.categories {
		set := NewCategorySet(name)
		qty, err := s.series(ctx, "item_"+string(FieldQty), []string{name}, today, load, func(b []Bucket) ([]models.Point, error) {
			return CategorySeries(b, FieldQty, set)
		})
		if err != nil {
			return nil, err
		}
		ps, err := s.predict(name, qty)
		if err != nil {
			return nil, err
		}
		bundle.Series = append(bundle.Series, *ps)
	}

	logger.Info().
		Int("series", len(bundle.Series)).
		Int("horizon", s.horizon).
		Msg("prediction bundle computed")
	return bundle, nil
}

// predict turns a newest-first daily series into its recent actual values
// and the forecast that follows the training slice.
func (s *Service) predict(name string, series []models.Point) (*models.PredictionSeries, error) {
	actual := reversed(window(series, actualFrom, actualTo))
	training := reversed(window(series, trainFrom, len(series)))

	points, err := s.forecaster.Forecast(training, s.horizon)
	if err != nil {
		return nil, computation("forecast "+name, err)
	}
	return &models.PredictionSeries{Name: name, Actual: actual, Forecasting: points}, nil
}

// TransactionHistory returns every transaction regardless of status.
func (s *Service) TransactionHistory(ctx context.Context) ([]models.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, store.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return txs, nil
}

// Transaction returns one transaction with its order items.
func (s *Service) Transaction(ctx context.Context, id int64) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	return tx, nil
}

// snapshotLoader buckets the completed transactions of the current request.
type snapshotLoader func() ([]Bucket, error)

// once fetches at most one snapshot no matter how many series miss the cache.
func (l snapshotLoader) once() snapshotLoader {
	var (
		done    bool
		buckets []Bucket
		err     error
	)
	return func() ([]Bucket, error) {
		if !done {
			buckets, err = l()
			done = true
		}
		return buckets, err
	}
}

// series returns a cached daily series or computes and stores it. Cache
// failures are logged and the series is computed from the snapshot.
func (s *Service) series(ctx context.Context, field string, categories []string, today time.Time, load snapshotLoader, compute func([]Bucket) ([]models.Point, error)) ([]models.Point, error) {
	logger := zerolog.Ctx(ctx)
	key := cache.Key(field, categories, today)

	points, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("series cache read failed")
	} else if ok && len(points) == s.calendar.BucketCount(today) {
		return points, nil
	}

	buckets, err := load()
	if err != nil {
		return nil, err
	}
	points, err = compute(buckets)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, points); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("series cache write failed")
	}
	return points, nil
}

// window is values[from:to] with both bounds clamped to the slice.
func window(values []models.Point, from, to int) []models.Point {
	if to > len(values) {
		to = len(values)
	}
	if from > to {
		from = to
	}
	return values[from:to]
}

func reversed(values []models.Point) []models.Point {
	out := make([]models.Point, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

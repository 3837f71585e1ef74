package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Renal37/order-integrity/internal/logger"
	"github.com/Renal37/order-integrity/internal/metrics"
	"go.uber.org/zap"
)

// Определение пользовательских ошибок.
var (
	ErrRunInProgress         = errors.New("очистка уже выполняется")
	ErrSchedulerStarted      = errors.New("планировщик уже запущен")
	ErrSchedulerNotStarted   = errors.New("планировщик не запущен")
	ErrSchedulerIntervalZero = errors.New("интервал планировщика должен быть больше нуля")
	ErrSchedulerStopping     = errors.New("планировщик еще останавливается")
)

// RunFunc один цикл аудита и очистки.
type RunFunc func(ctx context.Context) error

// CleanupScheduler запускает циклы очистки по таймеру.
// Одновременно выполняется не более одного цикла: тик, пришедшийся на выполняющийся цикл, пропускается.
type CleanupScheduler struct {
	run     RunFunc
	metrics *metrics.IntegrityMetrics

	running atomic.Bool // Флаг выполняющегося цикла.
	started atomic.Bool // Флаг запущенного таймера.

	mu      sync.Mutex         // Защищает cancel и drained.
	cancel  context.CancelFunc // Останавливает цикл таймера.
	drained chan struct{}      // Закрывается, когда после Stop завершились все горутины.
	wg      sync.WaitGroup     // Горутина таймера и выполняющиеся циклы.
}

// NewCleanupScheduler создает планировщик. m может быть nil.
func NewCleanupScheduler(run RunFunc, m *metrics.IntegrityMetrics) *CleanupScheduler {
	return &CleanupScheduler{run: run, metrics: m}
}

// Running сообщает, выполняется ли сейчас цикл.
func (s *CleanupScheduler) Running() bool {
	return s.running.Load()
}

// Start запускает таймер: первый цикл через startupDelay, далее каждые interval.
// Повторный запуск возможен только после того, как предыдущий Stop дождался всех горутин.
func (s *CleanupScheduler) Start(ctx context.Context, interval, startupDelay time.Duration) error {
	if interval <= 0 {
		return ErrSchedulerIntervalZero
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drained != nil {
		select {
		case <-s.drained:
			s.drained = nil
		default:
			return ErrSchedulerStopping
		}
	}

	if !s.started.CompareAndSwap(false, true) {
		return ErrSchedulerStarted
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(loopCtx, interval, startupDelay)

	logger.Log.Info("cleanup scheduler started",
		zap.Duration("interval", interval),
		zap.Duration("startup_delay", startupDelay),
	)

	return nil
}

func (s *CleanupScheduler) loop(ctx context.Context, interval, startupDelay time.Duration) {
	defer s.wg.Done()

	if startupDelay > 0 {
		delay := time.NewTimer(startupDelay)
		select {
		case <-delay.C:
		case <-ctx.Done():
			delay.Stop()
			return
		}
	}

	s.tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// tick запускает цикл в отдельной горутине, если предыдущий уже завершился.
func (s *CleanupScheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.RecordSkippedTick()
		logger.Log.Info("cleanup tick skipped, previous run still in progress")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		if err := s.run(ctx); err != nil {
			logger.Log.Error("scheduled cleanup failed", zap.Error(err))
		}
	}()
}

// RunOnce выполняет цикл вне таймера с той же защитой от наложения.
func (s *CleanupScheduler) RunOnce(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	defer s.running.Store(false)

	return s.run(ctx)
}

// Stop останавливает таймер и ждет, пока выполняющийся цикл дойдет до контрольной точки.
// Если ctx завершится раньше, возвращает его ошибку.
func (s *CleanupScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started.CompareAndSwap(true, false) {
		s.mu.Unlock()
		return ErrSchedulerNotStarted
	}

	drained := make(chan struct{})
	cancel := s.cancel
	s.cancel = nil
	s.drained = drained
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		logger.Log.Info("cleanup scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

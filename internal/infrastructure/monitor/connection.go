package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/internal/infrastructure/buffer"
)

// Pinger is anything with a cheap reachability probe, such as the incidents client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor polls the optional backends in the background. A nil dependency
// is reported as disabled.
type Monitor struct {
	pg    *pgxpool.Pool
	redis *redislib.Client
	spool *buffer.Store
	feed  Pinger

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(pg *pgxpool.Pool, redis *redislib.Client, spool *buffer.Store, feed Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		spool:    spool,
		feed:     feed,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	m.Refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether the primary audit store can take writes.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL != StateDown
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every probe once and stores the result.
func (m *Monitor) Refresh() {
	spoolState, spoolSize := m.checkSpool()
	status := Status{
		PostgreSQL: m.checkPostgres(),
		Redis:      m.checkRedis(),
		Spool:      spoolState,
		SpoolSize:  spoolSize,
		Incidents:  m.checkFeed(),
		LastCheck:  time.Now(),
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if prev.Degraded() != status.Degraded() || prev.Incidents != status.Incidents {
		m.logger.Info("dependency status changed",
			zap.String("postgresql", string(status.PostgreSQL)),
			zap.String("redis", string(status.Redis)),
			zap.String("spool", string(status.Spool)),
			zap.String("incidents_feed", string(status.Incidents)))
	}
}

func (m *Monitor) checkPostgres() State {
	if m.pg == nil {
		return StateDisabled
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return stateOf(m.pg.Ping(ctx))
}

func (m *Monitor) checkRedis() State {
	if m.redis == nil {
		return StateDisabled
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return stateOf(m.redis.Ping(ctx).Err())
}

func (m *Monitor) checkSpool() (State, int) {
	if m.spool == nil {
		return StateDisabled, 0
	}
	size, err := m.spool.Size()
	if err != nil {
		m.logger.Warn("spool size check failed", zap.Error(err))
		return StateDown, size
	}
	return StateUp, size
}

func (m *Monitor) checkFeed() State {
	if m.feed == nil {
		return StateDisabled
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return stateOf(m.feed.Ping(ctx))
}

func stateOf(err error) State {
	if err != nil {
		return StateDown
	}
	return StateUp
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/internal/infrastructure/buffer"
	"github.com/fastygo/aiops/repository"
)

// ConnectionHealth abstracts the connection monitor.
type ConnectionHealth interface {
	IsOnline() bool
}

type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// BufferProcessor writes audit entries to the primary repository and spools
// them in bbolt when it is unreachable. A cron job drains the spool.
type BufferProcessor struct {
	store   *buffer.Store
	monitor ConnectionHealth
	audit   repository.AuditRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	audit repository.AuditRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:   store,
		monitor: monitor,
		audit:   audit,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(1, int(cfg.Interval.Seconds())))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("audit spool drain failed", zap.Error(err))
		}
	})
	_, _ = bp.cron.AddFunc("@hourly", func() {
		removed, err := bp.store.Purge(time.Now().UTC().Add(-cfg.Retention))
		if err != nil {
			bp.logger.Warn("audit spool purge failed", zap.Error(err))
			return
		}
		if removed > 0 {
			bp.logger.Warn("purged stale audit entries", zap.Int("count", removed))
		}
	})

	return bp
}

func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("audit spool processor started", zap.Duration("interval", bp.cfg.Interval))
}

func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("audit spool processor stopped")
}

// Drain replays one batch of spooled entries. Entries that keep failing are
// dropped after MaxRetries attempts.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping audit spool drain (offline)")
		return nil
	}

	items, err := bp.store.Peek(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := bp.replay(ctx, item); err != nil {
			bp.logger.Error("failed to replay audit entry",
				zap.String("item_id", item.ID),
				zap.Int("attempts", item.Attempts+1),
				zap.Error(err))

			if item.Attempts+1 >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping audit entry (max retries reached)", zap.String("item_id", item.ID))
				_ = bp.store.Remove(item)
				continue
			}
			if err := bp.store.Retry(item); err != nil {
				bp.logger.Error("failed to requeue audit entry", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge replayed audit entry", zap.Error(err))
		}
	}
	return nil
}

// Submit tries the repository first and spools the entry if that fails.
func (bp *BufferProcessor) Submit(ctx context.Context, entry *domain.AuditEntry) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("audit spool not configured")
	}
	if entry == nil || entry.Action == "" {
		return domain.ErrInvalidPayload
	}

	if bp.monitor == nil || bp.monitor.IsOnline() {
		err := bp.audit.Append(ctx, entry)
		if err == nil {
			return nil
		}
		bp.logger.Warn("audit write failed, spooling", zap.String("action", entry.Action), zap.Error(err))
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return bp.store.Enqueue(buffer.Item{Kind: buffer.KindAudit, Payload: payload})
}

// Size returns the number of spooled entries.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) replay(ctx context.Context, item buffer.Item) error {
	if item.Kind != buffer.KindAudit {
		return fmt.Errorf("unsupported spool item kind %s", item.Kind)
	}
	var entry domain.AuditEntry
	if err := json.Unmarshal(item.Payload, &entry); err != nil {
		return err
	}
	return bp.audit.Append(ctx, &entry)
}

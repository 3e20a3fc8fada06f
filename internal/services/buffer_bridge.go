package services

import (
	"context"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/usecase"
)

// BufferBridge exposes the processor as an audit writer for the use cases.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if b.processor == nil {
		return domain.ErrInvalidPayload
	}
	return b.processor.Submit(ctx, entry)
}

var _ usecase.AuditWriter = (*BufferBridge)(nil)

package document

import (
	"context"
	"errors"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

// Document types used in spans, metrics and audit entries
const (
	TypeQuotation    = "quotation"
	TypeCampaignPlan = "campaign_plan"
	TypeContract     = "contract"
)

// DocumentMetrics records document outcomes
type DocumentMetrics interface {
	RecordDocumentCreated(ctx context.Context, docType string, total decimal.Decimal)
	RecordDocumentRejected(ctx context.Context, docType, code string)
}

// instrumentation is embedded by the services; both collaborators are optional
type instrumentation struct {
	metrics DocumentMetrics
	audit   audit.Sink
}

// SetMetrics sets the document metrics recorder
func (i *instrumentation) SetMetrics(m DocumentMetrics) {
	i.metrics = m
}

// SetAuditSink sets the audit sink
func (i *instrumentation) SetAuditSink(sink audit.Sink) {
	i.audit = sink
}

func (i *instrumentation) fail(ctx context.Context, span trace.Span, docType string, err error) error {
	telemetry.RecordError(span, err)
	if i.metrics != nil {
		i.metrics.RecordDocumentRejected(ctx, docType, errorCode(err))
	}
	return err
}

func (i *instrumentation) created(ctx context.Context, docType string, total decimal.Decimal) {
	if i.metrics != nil {
		i.metrics.RecordDocumentCreated(ctx, docType, total)
	}
}

func (i *instrumentation) record(ctx context.Context, actor audit.Actor, action audit.Action, docType string, id uuid.UUID, changes any) {
	if i.audit == nil {
		return
	}
	i.audit.Record(ctx, audit.NewEntry(actor, action, docType, id, changes))
}

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL_ERROR"
}

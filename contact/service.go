package contact

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"

	"github.com/letmevibethatforyou/sitesearch/internal/ddb"
)

// Meta carries request details stored alongside a submission.
type Meta struct {
	RemoteAddr string
	UserAgent  string
}

// Receipt identifies an accepted submission.
type Receipt struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
}

// Sink delivers accepted submissions somewhere durable or visible.
type Sink interface {
	Deliver(ctx context.Context, sub Submission, meta Meta, receipt Receipt) error
}

// SinkFunc is a function that implements the Sink interface.
type SinkFunc func(ctx context.Context, sub Submission, meta Meta, receipt Receipt) error

// Deliver implements the Sink interface for SinkFunc.
func (f SinkFunc) Deliver(ctx context.Context, sub Submission, meta Meta, receipt Receipt) error {
	return f(ctx, sub, meta, receipt)
}

// Service validates submissions and passes them to a Sink.
type Service struct {
	validator *Validator
	sink      Sink
	now       func() time.Time
	newID     func() string
}

// NewService returns a Service delivering to sink.
func NewService(validator *Validator, sink Sink) *Service {
	return &Service{
		validator: validator,
		sink:      sink,
		now:       time.Now,
		newID:     func() string { return ksuid.New().String() },
	}
}

// Submit validates raw and delivers it. Invalid input yields a
// *ValidationError; anything else is a delivery failure.
func (s *Service) Submit(ctx context.Context, raw []byte, meta Meta) (Receipt, error) {
	sub, err := s.validator.Validate(raw)
	if err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{ID: s.newID(), ReceivedAt: s.now().UTC()}
	if err := s.sink.Deliver(ctx, sub, meta, receipt); err != nil {
		return Receipt{}, errors.Wrapf(err, "deliver submission %s", receipt.ID)
	}
	return receipt, nil
}

// LogSink writes submissions to a structured log.
type LogSink struct {
	Logger *slog.Logger
}

// Deliver implements Sink.
func (l LogSink) Deliver(ctx context.Context, sub Submission, meta Meta, receipt Receipt) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "contact form submission",
		"id", receipt.ID,
		"name", sub.Name,
		"email", sub.Email,
		"subject", sub.Subject,
		"message_length", len(sub.Message),
		"remote_addr", meta.RemoteAddr,
	)
	return nil
}

// DynamoSink stores submissions in a DynamoDB table.
type DynamoSink struct {
	table *ddb.Table
}

// NewDynamoSink returns a sink writing to the table named table.
func NewDynamoSink(api ddb.API, table string) *DynamoSink {
	return &DynamoSink{table: ddb.NewTable(api, table)}
}

// Deliver implements Sink.
func (d *DynamoSink) Deliver(ctx context.Context, sub Submission, meta Meta, receipt Receipt) error {
	return d.table.Put(ctx, ddb.ContactRecord{
		ID:         ddb.ContactPK(receipt.ID),
		Kind:       ddb.ContactSK,
		Name:       sub.Name,
		Email:      sub.Email,
		Subject:    sub.Subject,
		Message:    sub.Message,
		ReceivedAt: receipt.ReceivedAt.Format(time.RFC3339),
		RemoteAddr: meta.RemoteAddr,
		UserAgent:  meta.UserAgent,
	})
}

// MultiSink delivers to every sink in order, stopping at the first error.
type MultiSink []Sink

// Deliver implements Sink.
func (m MultiSink) Deliver(ctx context.Context, sub Submission, meta Meta, receipt Receipt) error {
	for _, sink := range m {
		if err := sink.Deliver(ctx, sub, meta, receipt); err != nil {
			return err
		}
	}
	return nil
}

// Package validate checks JSON or YAML documents against the named contract
// shapes. The CLI and the MCP server both delegate to this service, so a
// payload gets the same verdict whichever way it arrives.
package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/limerclaw/shared-types/contracts"
	"github.com/limerclaw/shared-types/internal/telemetry"
)

var (
	ErrUnknownShape     = errors.New("validate: unknown shape")
	ErrDocumentTooLarge = errors.New("validate: document too large")
)

// Options tunes a Service.
type Options struct {
	MaxPayloadBytes int64
	Concurrency     int
}

// Service validates documents against registered shapes.
type Service struct {
	logger      *slog.Logger
	maxBytes    int64
	concurrency int

	tracer    trace.Tracer
	documents metric.Int64Counter
	duration  metric.Float64Histogram
}

// New creates a Service. Non-positive options fall back to 1 MB and 8 workers.
func New(logger *slog.Logger, opts Options) *Service {
	if opts.MaxPayloadBytes <= 0 {
		opts.MaxPayloadBytes = 1 << 20
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	meter := telemetry.Meter("limerclaw/validate")
	documents, _ := meter.Int64Counter("limerclaw.validate.documents",
		metric.WithDescription("Documents validated, by shape and verdict"),
	)
	duration, _ := meter.Float64Histogram("limerclaw.validate.duration",
		metric.WithDescription("Time to decode and check one document (ms)"),
		metric.WithUnit("ms"),
	)
	return &Service{
		logger:      logger,
		maxBytes:    opts.MaxPayloadBytes,
		concurrency: opts.Concurrency,
		tracer:      telemetry.Tracer("limerclaw/validate"),
		documents:   documents,
		duration:    duration,
	}
}

// Input is one document to validate. Source names it in reports: a file
// path, "-" for stdin, or a tool call id.
type Input struct {
	Source string
	Data   []byte
}

// Result is the verdict for one document. Path and Reason are set for a
// contract violation; Error for anything that stopped the check, such as
// malformed input.
type Result struct {
	Source string  `json:"source"`
	Shape  string  `json:"shape"`
	Valid  bool    `json:"valid"`
	Path   *string `json:"path,omitempty"`
	Reason string  `json:"reason,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Validate checks one document against shape. An unknown shape is an error;
// an invalid document is reported in the Result.
func (s *Service) Validate(ctx context.Context, shape string, in Input) (Result, error) {
	sh, ok := Lookup(shape)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}

	ctx, span := s.tracer.Start(ctx, "validate "+shape, trace.WithAttributes(
		attribute.String("limerclaw.shape", shape),
		attribute.String("limerclaw.source", in.Source),
		attribute.Int("limerclaw.bytes", len(in.Data)),
	))
	defer span.End()

	start := time.Now()
	res := s.check(sh, in)
	elapsed := time.Since(start)

	verdict := "valid"
	switch {
	case res.Error != "":
		verdict = "error"
		span.SetStatus(codes.Error, res.Error)
	case !res.Valid:
		verdict = "invalid"
	}
	span.SetAttributes(attribute.String("limerclaw.verdict", verdict))
	attrs := metric.WithAttributes(
		attribute.String("shape", shape),
		attribute.String("verdict", verdict),
	)
	s.documents.Add(ctx, 1, attrs)
	s.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)

	s.logger.Debug("validated document",
		"shape", shape, "source", in.Source, "verdict", verdict, "duration", elapsed)
	return res, nil
}

// ValidateAll checks every input concurrently. Results keep input order.
func (s *Service) ValidateAll(ctx context.Context, shape string, inputs []Input) ([]Result, error) {
	if _, ok := Lookup(shape); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}

	results := make([]Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.Validate(ctx, shape, in)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return results, nil
}

func (s *Service) check(sh Shape, in Input) Result {
	res := Result{Source: in.Source, Shape: sh.Name}
	if int64(len(in.Data)) > s.maxBytes {
		res.Error = fmt.Sprintf("%v: %d bytes exceeds %d", ErrDocumentTooLarge, len(in.Data), s.maxBytes)
		return res
	}
	doc, err := DecodeDocument(in.Data)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	err = sh.Check(doc)
	if err == nil {
		res.Valid = true
		return res
	}
	if ve, ok := contracts.AsValidationError(err); ok {
		path := ve.Path
		res.Path = &path
		res.Reason = ve.Reason
		return res
	}
	res.Error = err.Error()
	return res
}

// DecodeDocument parses JSON, or YAML when the input is not JSON, into the
// generic form the contract guards inspect. JSON numbers stay json.Number so
// large integers keep their precision.
func DecodeDocument(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("validate: empty document")
	}
	if json.Valid(trimmed) {
		return decodeJSON(trimmed)
	}

	var doc any
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("validate: document is neither JSON nor YAML: %w", err)
	}
	// YAML maps may carry non-string keys; a JSON round trip rejects those
	// and leaves only the JSON data model.
	converted, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("validate: convert YAML: %w", err)
	}
	return decodeJSON(converted)
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("validate: decode JSON: %w", err)
	}
	return doc, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

const tracerName = "github.com/jsamuelsen/artistly/internal/app"

// ExecutionStep names one stage of an Operation. Nothing is persisted before
// the performed result has been verified, so a failure never leaves a
// partial record in storage.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an operation failed at.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
	}

	return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// IsExecutionError reports whether err came out of a failed step.
func IsExecutionError(err error) bool {
	_, ok := GetExecutionStep(err)
	return ok
}

// GetExecutionStep returns the step recorded in err.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		return "", false
	}

	return execErr.Step, true
}

// Operation is a unit of work split into steps. Nil steps are skipped; a
// skipped Perform or Verify yields the zero value.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)

	// Verify checks the performed result independently of Perform.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified result.
	Archive func(ctx context.Context, input I, verified V) error

	Respond func(ctx context.Context, input I, verified V) (O, error)
}

// Executor runs operations, tracing and logging each step and counting
// failures by step.
type Executor struct {
	metrics *Metrics
	tracer  trace.Tracer
}

// NewExecutor creates an executor. metrics may be nil.
func NewExecutor(metrics *Metrics) *Executor {
	return &Executor{metrics: metrics, tracer: otel.Tracer(tracerName)}
}

// runStep invokes fn when it is set. Failures other than in the respond
// step are wrapped in an ExecutionError.
func runStep[T any](ctx context.Context, logger *slog.Logger, step ExecutionStep, msg string, fn func() (T, error)) (T, error) {
	var zero T
	if fn == nil {
		return zero, nil
	}

	out, err := fn()
	if err == nil {
		logger.DebugContext(ctx, "step done", slog.String("step", string(step)))
		return out, nil
	}

	level := slog.LevelError
	if step == StepValidate || step == StepRespond {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "step failed", slog.String("step", string(step)), slog.Any("error", err))

	if step == StepRespond {
		return zero, err
	}

	return zero, &ExecutionError{Step: step, Message: msg, Cause: err}
}

// bind adapts an optional step to runStep's signature.
func bind[T any](set bool, fn func() (T, error)) func() (T, error) {
	if !set {
		return nil
	}

	return fn
}

// Execute runs op on input: validate, perform, verify, archive, respond.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (result O, err error) {
	ctx, span := exec.tracer.Start(ctx, "app."+op.Name)
	defer span.End()

	logger := logging.FromContext(ctx).With(slog.String("operation", op.Name))
	start := time.Now()

	defer func() {
		if err == nil {
			logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))
			return
		}

		step, ok := GetExecutionStep(err)
		if !ok {
			step = StepRespond
		}

		exec.metrics.operationFailed(op.Name, step)
		span.SetAttributes(attribute.String("app.failed_step", string(step)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}()

	if _, err = runStep(ctx, logger, StepValidate, "input validation failed", bind(op.Validate != nil, func() (struct{}, error) {
		return struct{}{}, op.Validate(ctx, input)
	})); err != nil {
		return result, err
	}

	performed, err := runStep(ctx, logger, StepPerform, "operation failed", bind(op.Perform != nil, func() (P, error) {
		return op.Perform(ctx, input)
	}))
	if err != nil {
		return result, err
	}

	verified, err := runStep(ctx, logger, StepVerify, "verification failed", bind(op.Verify != nil, func() (V, error) {
		return op.Verify(ctx, input, performed)
	}))
	if err != nil {
		return result, err
	}

	if _, err = runStep(ctx, logger, StepArchive, "state persistence failed", bind(op.Archive != nil, func() (struct{}, error) {
		return struct{}{}, op.Archive(ctx, input, verified)
	})); err != nil {
		return result, err
	}

	return runStep(ctx, logger, StepRespond, "", bind(op.Respond != nil, func() (O, error) {
		return op.Respond(ctx, input, verified)
	}))
}

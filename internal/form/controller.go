package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/iwvelando/flip-calculator/internal/calculator"
	"github.com/iwvelando/flip-calculator/pkg/constants"
)

var (
	// ErrUnknownField is returned by Edit for a name outside Fields.
	ErrUnknownField = errors.New("unknown form field")

	// ErrInvalidForm is returned by Submit when whole-form validation fails.
	ErrInvalidForm = errors.New(constants.MsgFormInvalid)

	// ErrSubmissionInFlight is returned by Submit while an earlier submission
	// has not finished. State is left untouched.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// Calculator performs the remote calculation.
type Calculator interface {
	Calculate(ctx context.Context, req calculator.Request) (*calculator.Result, error)
}

// State is a snapshot of everything a front-end renders.
type State struct {
	Data            FormData
	Errors          ValidationErrors
	Result          *calculator.Result
	SubmissionError string
	Submitting      bool
}

// Controller owns the form state. It is safe for concurrent use so a
// front-end can run Submit in the background while rendering State.
type Controller struct {
	mu     sync.Mutex
	calc   Calculator
	logger *zap.Logger

	data            FormData
	errors          ValidationErrors
	result          *calculator.Result
	submissionError string
	submitting      bool
}

// NewController returns a controller with every field empty.
func NewController(calc Calculator, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		calc:   calc,
		logger: logger,
		data:   NewFormData(),
		errors: make(ValidationErrors),
	}
}

// Edit stores raw verbatim, validates that field alone and returns its message.
func (c *Controller) Edit(field Field, raw string) (string, error) {
	if _, ok := ParseField(string(field)); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[field] = raw
	msg := ValidateField(field, raw)
	c.errors[field] = msg
	return msg, nil
}

// ValidateForm validates every field and replaces the validation state with
// the result. It reports whether the form is valid.
func (c *Controller) ValidateForm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateFormLocked()
}

func (c *Controller) validateFormLocked() bool {
	errs := make(ValidationErrors)
	for _, f := range Fields {
		if msg := ValidateField(f, c.data[f]); msg != "" {
			errs[f] = msg
		}
	}
	c.errors = errs
	return errs.Valid()
}

// Payload returns the numeric request the current values would produce.
func (c *Controller) Payload() calculator.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Coerce(c.data)
}

// Submit validates the form and, when valid, sends it to the calculator.
// The outcome is recorded in State; the returned error mirrors it.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}

	c.submissionError = ""
	c.result = nil

	if !c.validateFormLocked() {
		c.submissionError = constants.MsgFormInvalid
		invalid := len(c.errors)
		c.mu.Unlock()
		c.logger.Debug("submission blocked by validation",
			zap.String("op", "form.Submit"),
			zap.Int("invalidFields", invalid),
		)
		return ErrInvalidForm
	}

	payload := Coerce(c.data)
	c.submitting = true
	c.mu.Unlock()

	result, err := c.calc.Calculate(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		c.submissionError = err.Error()
		c.logger.Warn("calculation failed",
			zap.String("op", "form.Submit"),
			zap.Bool("remote", calculator.IsRemote(err)),
			zap.Error(err),
		)
		return err
	}
	if result == nil {
		c.submissionError = constants.MsgServerFailure
		return errors.New(constants.MsgServerFailure)
	}

	res := *result
	c.result = &res
	c.logger.Info("calculation completed",
		zap.String("op", "form.Submit"),
		zap.Float64("grossProfit", res.GrossProfit),
		zap.Float64("profitMargin", res.ProfitMargin),
	)
	return nil
}

// Reset restores the initial all-empty state. It is a no-op while a
// submission is in flight.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return
	}
	c.data = NewFormData()
	c.errors = make(ValidationErrors)
	c.result = nil
	c.submissionError = ""
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := make(FormData, len(c.data))
	for k, v := range c.data {
		data[k] = v
	}
	errs := make(ValidationErrors, len(c.errors))
	for k, v := range c.errors {
		if v != "" {
			errs[k] = v
		}
	}
	var result *calculator.Result
	if c.result != nil {
		res := *c.result
		result = &res
	}
	return State{
		Data:            data,
		Errors:          errs,
		Result:          result,
		SubmissionError: c.submissionError,
		Submitting:      c.submitting,
	}
}

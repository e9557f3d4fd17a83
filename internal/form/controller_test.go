package form

import (
	"context"
	"errors"
	"testing"

	"github.com/iwvelando/flip-calculator/internal/calculator"
	"github.com/iwvelando/flip-calculator/pkg/constants"
	"github.com/iwvelando/flip-calculator/pkg/testutil"
)

func fillSample(t *testing.T, c *Controller) {
	t.Helper()
	for name, v := range testutil.SampleValues() {
		if _, err := c.Edit(Field(name), v); err != nil {
			t.Fatalf("Edit(%s) error = %v", name, err)
		}
	}
}

func TestNewControllerInitialState(t *testing.T) {
	c := NewController(&testutil.StubCalculator{}, nil)
	state := c.State()

	if len(state.Data) != len(Fields) {
		t.Fatalf("expected %d fields, got %d", len(Fields), len(state.Data))
	}
	for _, f := range Fields {
		if v, ok := state.Data[f]; !ok || v != "" {
			t.Fatalf("expected %s present and empty, got %q (present=%v)", f, v, ok)
		}
	}
	if len(state.Errors) != 0 || state.Result != nil || state.SubmissionError != "" || state.Submitting {
		t.Fatalf("unexpected initial state %+v", state)
	}
}

func TestEditStoresRawValueAndValidatesField(t *testing.T) {
	c := NewController(&testutil.StubCalculator{}, nil)

	msg, err := c.Edit(StampDuty, " -5 ")
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if msg != constants.MsgFieldNegative {
		t.Fatalf("expected negative message, got %q", msg)
	}

	state := c.State()
	if state.Data[StampDuty] != " -5 " {
		t.Fatalf("expected raw value stored verbatim, got %q", state.Data[StampDuty])
	}
	if state.Errors[StampDuty] != constants.MsgFieldNegative {
		t.Fatalf("expected error recorded, got %q", state.Errors[StampDuty])
	}
	if _, ok := state.Errors[PurchasePrice]; ok {
		t.Fatal("editing one field must not validate the others")
	}

	if msg, _ := c.Edit(StampDuty, "5"); msg != "" {
		t.Fatalf("expected no message, got %q", msg)
	}
	if _, ok := c.State().Errors[StampDuty]; ok {
		t.Fatal("expected error cleared after valid edit")
	}
}

func TestEditUnknownField(t *testing.T) {
	c := NewController(&testutil.StubCalculator{}, nil)
	_, err := c.Edit(Field("mortgage"), "1")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, ok := c.State().Data[Field("mortgage")]; ok {
		t.Fatal("unknown field must not be stored")
	}
}

func TestValidateFormReplacesErrors(t *testing.T) {
	c := NewController(&testutil.StubCalculator{}, nil)
	fillSample(t, c)
	if _, err := c.Edit(LegalFees, "abc"); err != nil {
		t.Fatal(err)
	}

	if c.ValidateForm() {
		t.Fatal("expected invalid form")
	}
	state := c.State()
	if len(state.Errors) != 1 || state.Errors[LegalFees] != constants.MsgFieldNotNumber {
		t.Fatalf("unexpected errors %v", state.Errors)
	}

	if _, err := c.Edit(LegalFees, "1000"); err != nil {
		t.Fatal(err)
	}
	if !c.ValidateForm() {
		t.Fatal("expected valid form")
	}
	if len(c.State().Errors) != 0 {
		t.Fatalf("expected errors replaced, got %v", c.State().Errors)
	}
}

func TestSubmitAllEmpty(t *testing.T) {
	calc := &testutil.StubCalculator{}
	c := NewController(calc, nil)

	err := c.Submit(context.Background())
	if !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm, got %v", err)
	}

	state := c.State()
	if state.SubmissionError != constants.MsgFormInvalid {
		t.Fatalf("expected %q, got %q", constants.MsgFormInvalid, state.SubmissionError)
	}
	if len(state.Errors) != len(Fields) {
		t.Fatalf("expected every field flagged, got %v", state.Errors)
	}
	for _, f := range Fields {
		if state.Errors[f] != constants.MsgFieldEmpty {
			t.Fatalf("expected empty message for %s, got %q", f, state.Errors[f])
		}
	}
	if calc.Calls() != 0 {
		t.Fatal("expected no remote call")
	}
}

func TestSubmitSuccess(t *testing.T) {
	want := *testutil.SampleResult()
	calc := &testutil.StubCalculator{Result: &want}
	c := NewController(calc, nil)
	fillSample(t, c)

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	state := c.State()
	if state.Result == nil || *state.Result != want {
		t.Fatalf("expected result %+v, got %+v", want, state.Result)
	}
	if state.SubmissionError != "" {
		t.Fatalf("expected submission error cleared, got %q", state.SubmissionError)
	}
	if state.Submitting {
		t.Fatal("expected submitting flag cleared")
	}

	if calc.Calls() != 1 {
		t.Fatalf("expected one call, got %d", calc.Calls())
	}
	sent := calc.Requests()[0]
	wantReq := testutil.SampleRequest()
	if sent != wantReq {
		t.Fatalf("expected payload %+v, got %+v", wantReq, sent)
	}
}

func TestSubmitRemoteError(t *testing.T) {
	calc := &testutil.StubCalculator{Err: &calculator.RemoteError{StatusCode: 400, Message: "invalid input"}}
	c := NewController(calc, nil)
	fillSample(t, c)

	err := c.Submit(context.Background())
	if !calculator.IsRemote(err) {
		t.Fatalf("expected remote error, got %v", err)
	}

	state := c.State()
	if state.SubmissionError != "invalid input" {
		t.Fatalf("expected %q, got %q", "invalid input", state.SubmissionError)
	}
	if state.Result != nil {
		t.Fatalf("expected result cleared, got %+v", state.Result)
	}
}

func TestSubmitTransportError(t *testing.T) {
	calc := &testutil.StubCalculator{Err: errors.New("Failed to fetch")}
	c := NewController(calc, nil)
	fillSample(t, c)

	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	state := c.State()
	if state.SubmissionError != "Failed to fetch" {
		t.Fatalf("expected caught message, got %q", state.SubmissionError)
	}
	if state.Result != nil {
		t.Fatal("expected result cleared")
	}
}

func TestSubmitClearsPreviousResult(t *testing.T) {
	calc := &testutil.StubCalculator{Result: &calculator.Result{GrossProfit: 1}}
	c := NewController(calc, nil)
	fillSample(t, c)

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if c.State().Result == nil {
		t.Fatal("expected first result")
	}

	if _, err := c.Edit(ResalePrice, ""); err != nil {
		t.Fatal(err)
	}
	if err := c.Submit(context.Background()); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm, got %v", err)
	}
	state := c.State()
	if state.Result != nil {
		t.Fatal("expected result cleared by new submission")
	}
	if state.SubmissionError != constants.MsgFormInvalid {
		t.Fatalf("unexpected submission error %q", state.SubmissionError)
	}
}

func TestSubmitSuccessClearsPreviousError(t *testing.T) {
	calc := &testutil.StubCalculator{Err: &calculator.RemoteError{StatusCode: 500, Message: constants.MsgServerFailure}}
	c := NewController(calc, nil)
	fillSample(t, c)

	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected first submission to fail")
	}
	if got := c.State().SubmissionError; got != constants.MsgServerFailure {
		t.Fatalf("expected %q, got %q", constants.MsgServerFailure, got)
	}

	calc.Err = nil
	calc.Result = testutil.SampleResult()
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	state := c.State()
	if state.SubmissionError != "" {
		t.Fatalf("expected submission error cleared, got %q", state.SubmissionError)
	}
	if state.Result == nil || *state.Result != *testutil.SampleResult() {
		t.Fatalf("expected result %+v, got %+v", testutil.SampleResult(), state.Result)
	}
	if calc.Calls() != 2 {
		t.Fatalf("expected two calls, got %d", calc.Calls())
	}
}

func TestSubmitWhileInFlight(t *testing.T) {
	calc := &testutil.StubCalculator{
		Result:  &calculator.Result{TotalCost: 10},
		Started: make(chan struct{}),
		Release: make(chan struct{}),
	}
	c := NewController(calc, nil)
	fillSample(t, c)

	done := make(chan error, 1)
	go func() {
		done <- c.Submit(context.Background())
	}()
	<-calc.Started

	if !c.State().Submitting {
		t.Fatal("expected submitting flag while request is outstanding")
	}
	if err := c.Submit(context.Background()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	c.Reset()
	if c.State().Data[PurchasePrice] != "100000" {
		t.Fatal("reset must be ignored while submitting")
	}

	close(calc.Release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if calc.Calls() != 1 {
		t.Fatalf("expected exactly one call, got %d", calc.Calls())
	}
	if c.State().Result == nil {
		t.Fatal("expected result from the first submission")
	}
}

func TestReset(t *testing.T) {
	c := NewController(&testutil.StubCalculator{}, nil)
	fillSample(t, c)
	_ = c.Submit(context.Background())

	c.Reset()
	state := c.State()
	for _, f := range Fields {
		if state.Data[f] != "" {
			t.Fatalf("expected %s empty after reset", f)
		}
	}
	if len(state.Errors) != 0 || state.Result != nil || state.SubmissionError != "" {
		t.Fatalf("unexpected state after reset %+v", state)
	}
}

func TestStateIsACopy(t *testing.T) {
	c := NewController(&testutil.StubCalculator{}, nil)
	state := c.State()
	state.Data[PurchasePrice] = "mutated"
	state.Errors[PurchasePrice] = "mutated"

	fresh := c.State()
	if fresh.Data[PurchasePrice] != "" || fresh.Errors[PurchasePrice] != "" {
		t.Fatal("mutating a snapshot must not change the controller")
	}
}

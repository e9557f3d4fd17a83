// Package testutil provides common utility functions for testing.
package testutil

import (
	"context"
	"sync"

	"github.com/iwvelando/flip-calculator/internal/calculator"
)

// StubCalculator records every request and answers with Result and Err.
// When Started is set it is closed on the first call; when Release is set
// the call blocks until it is closed.
type StubCalculator struct {
	Result  *calculator.Result
	Err     error
	Started chan struct{}
	Release chan struct{}

	mu       sync.Mutex
	requests []calculator.Request
	once     sync.Once
}

// Calculate implements form.Calculator.
func (s *StubCalculator) Calculate(ctx context.Context, req calculator.Request) (*calculator.Result, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.Started != nil {
		s.once.Do(func() { close(s.Started) })
	}
	if s.Release != nil {
		select {
		case <-s.Release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.Result, s.Err
}

// Calls returns the number of requests received.
func (s *StubCalculator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of the requests received.
func (s *StubCalculator) Requests() []calculator.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]calculator.Request(nil), s.requests...)
}

// SampleValues returns the raw form values of the reference flip: bought for
// 100000, sold for 150000.
func SampleValues() map[string]string {
	return map[string]string{
		"purchase_price":   "100000",
		"stamp_duty":       "3000",
		"legal_fees":       "1000",
		"agent_fees_buy":   "1500",
		"renovation_costs": "5000",
		"resale_price":     "150000",
		"selling_costs":    "4000",
	}
}

// SampleRequest is SampleValues coerced to numbers.
func SampleRequest() calculator.Request {
	return calculator.Request{
		PurchasePrice:   100000,
		StampDuty:       3000,
		LegalFees:       1000,
		AgentFeesBuy:    1500,
		RenovationCosts: 5000,
		ResalePrice:     150000,
		SellingCosts:    4000,
	}
}

// SampleResult is the summary the reference flip is expected to produce.
func SampleResult() *calculator.Result {
	return &calculator.Result{
		AcquisitionCost: 105500,
		TotalCost:       115000,
		GrossProfit:     35000,
		ProfitMargin:    23.3,
	}
}

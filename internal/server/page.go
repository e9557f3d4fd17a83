package server

import (
	"bytes"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/iwvelando/flip-calculator/internal/form"
	"github.com/iwvelando/flip-calculator/pkg/constants"
	"github.com/iwvelando/flip-calculator/pkg/format"
)

var templateFuncs = template.FuncMap{
	"currency": format.Currency,
	"percent":  format.Percent,
}

type pageField struct {
	Name  string
	Label string
	Value string
	Error string
}

type pageResult struct {
	AcquisitionCost float64
	TotalCost       float64
	GrossProfit     float64
	ProfitMargin    float64
}

type pageData struct {
	Title           string
	Currency        string
	Fields          []pageField
	Result          *pageResult
	SubmissionError string
	Version         string
}

func newPageData(state form.State, version string) pageData {
	data := pageData{
		Title:           "BRS Property Flipping Calculator",
		Currency:        constants.CurrencySymbol,
		SubmissionError: state.SubmissionError,
		Version:         version,
	}
	for _, f := range form.Fields {
		data.Fields = append(data.Fields, pageField{
			Name:  string(f),
			Label: f.Label(),
			Value: state.Data[f],
			Error: state.Errors[f],
		})
	}
	if res := state.Result; res != nil {
		data.Result = &pageResult{
			AcquisitionCost: res.AcquisitionCost,
			TotalCost:       res.TotalCost,
			GrossProfit:     res.GrossProfit,
			ProfitMargin:    res.ProfitMargin,
		}
	}
	return data
}

func (h *handler) renderPage(w http.ResponseWriter, status int, state form.State, op string) {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, newPageData(state, h.version)); err != nil {
		h.logger.Error("failed to render page",
			zap.String("op", op),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write page",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

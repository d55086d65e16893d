// Package chart renders the current price series of a session.
package chart

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/avelasco/cryptochat/backend/internal/model/market"
	chatservice "github.com/avelasco/cryptochat/backend/internal/service/chat"
	"github.com/avelasco/cryptochat/backend/pkg/utils"
)

// Handler serves the chart produced by the most recent chart query.
type Handler struct {
	chatSvc *chatservice.Service
}

// New creates the chart handler.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the chart routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session/{sessionID}/chart", h.handleChart)
	r.Get("/session/{sessionID}/chart/data", h.handleChartData)
}

func (h *Handler) currentSeries(w http.ResponseWriter, r *http.Request) *market.PriceSeries {
	conv, err := h.chatSvc.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return nil
	}

	series := conv.Series()
	if series == nil {
		utils.RespondError(w, http.StatusNotFound, "no chart requested yet")
		return nil
	}
	return series
}

// handleChart renders the series as a standalone HTML line chart.
func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	series := h.currentSeries(w, r)
	if series == nil {
		return
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s / USD (7 days)", strings.ToUpper(series.CoinID)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	xAxis := make([]string, 0, len(series.Points))
	values := make([]opts.LineData, 0, len(series.Points))
	for _, point := range series.Points {
		xAxis = append(xAxis, point.Timestamp.Format("Jan 02 15:04"))
		values = append(values, opts.LineData{Value: point.PriceUSD})
	}

	line.SetXAxis(xAxis).AddSeries("USD", values,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		log.Printf("[chart] render failed: %v", err)
	}
}

// handleChartData returns the raw series for clients that draw their own chart.
func (h *Handler) handleChartData(w http.ResponseWriter, r *http.Request) {
	series := h.currentSeries(w, r)
	if series == nil {
		return
	}
	utils.RespondJSON(w, http.StatusOK, series)
}

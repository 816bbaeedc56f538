package handlers

import (
	"net/http"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/view"
	"github.com/xavierca1/plouf-crm/internal/usecase"
)

type DashboardHandler struct {
	*Base
	dashboard *usecase.Dashboard
}

func NewDashboardHandler(base *Base, dashboard *usecase.Dashboard) *DashboardHandler {
	return &DashboardHandler{Base: base, dashboard: dashboard}
}

type dashboardPage struct {
	Metrics      *entity.HomeMetrics
	MetricsError string
	Stats        *usecase.StatsView
	StatsError   string
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	rq, ok := h.resolve(w, r)
	if !ok {
		return
	}

	v := h.dashboard.Load(r.Context(), rq.Token)
	if h.sessionLost(w, r, rq, v.MetricsErr) || h.sessionLost(w, r, rq, v.StatsErr) {
		return
	}

	page := dashboardPage{Metrics: v.Metrics, Stats: v.Stats}
	if v.MetricsErr != nil {
		page.MetricsError = errorMessage(r, v.MetricsErr)
	}
	if v.StatsErr != nil {
		page.StatsError = errorMessage(r, v.StatsErr)
	}

	h.render(w, r, http.StatusOK, "dashboard", view.Page{
		Title: "dashboard_title",
		Nav:   "dashboard",
		User:  rq.User,
		Data:  page,
	})
}

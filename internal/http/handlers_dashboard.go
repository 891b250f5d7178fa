package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fleetboard/internal/chart"
	"fleetboard/internal/core"
	"fleetboard/internal/export"
	"fleetboard/internal/services"
	"fleetboard/internal/sheets"
)

type sheetInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (s *Server) handleSheets(w http.ResponseWriter, _ *http.Request) {
	infos := make([]sheetInfo, 0, len(sheets.Names()))
	for _, name := range sheets.Names() {
		infos = append(infos, sheetInfo{Name: name, Title: chart.Title(name)})
	}
	writeJSON(w, http.StatusOK, infos)
}

type dashboardResponse struct {
	Sheet     string          `json:"sheet"`
	Chart     chart.ChartData `json:"chart"`
	Records   int             `json:"records"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// dashboardQuery reads the filter parameters the UI sends.
type dashboardQuery struct {
	sheet      string
	filter     core.UIFilter
	valueField string
	labelField string
}

func parseDashboardQuery(r *http.Request) (dashboardQuery, error) {
	q := r.URL.Query()

	sheet := q.Get("sheet")
	if sheet == "" {
		sheet = sheets.OnRouteVehicles
	}
	if !sheets.Known(sheet) {
		return dashboardQuery{}, fmt.Errorf("unknown sheet: %s", sheet)
	}

	return dashboardQuery{
		sheet: sheet,
		filter: core.UIFilter{
			DateRange: core.DateRange{
				From: q.Get("from"),
				To:   q.Get("to"),
			},
			QuickDate:       q.Get("quickDate"),
			SelectedZone:    q.Get("zone"),
			TripCountFilter: q.Get("trips"),
			SheetName:       sheet,
		},
		valueField: q.Get("valueField"),
		labelField: q.Get("labelField"),
	}, nil
}

func (s *Server) buildChart(q dashboardQuery) (chart.ChartData, int) {
	records := s.datasets.Sheet(q.sheet)
	filtered := core.ApplyFilter(records, q.filter.ToFilter())
	data := chart.Build(filtered, q.valueField, q.labelField, q.sheet, q.filter.TripCountFilter)
	return data, len(filtered)
}

func cacheKey(q dashboardQuery) string {
	return strings.Join([]string{
		q.sheet,
		q.filter.QuickDate,
		q.filter.DateRange.From,
		q.filter.DateRange.To,
		q.filter.SelectedZone,
		q.filter.TripCountFilter,
		q.valueField,
		q.labelField,
	}, "|")
}

// cachedChart pairs a built chart with the number of records that matched
// the filter, so cached responses carry the same payload as cold ones.
type cachedChart struct {
	Data    chart.ChartData
	Matched int
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := parseDashboardQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, updatedAt := s.datasets.Snapshot()
	key := cacheKey(q)

	entry, ok := s.chartCache.Get(key)
	if !ok {
		data, matched := s.buildChart(q)
		entry = cachedChart{Data: data, Matched: matched}
		s.chartCache.Set(key, entry)
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Sheet:     q.sheet,
		Chart:     entry.Data,
		Records:   entry.Matched,
		UpdatedAt: updatedAt,
	})
}

func (s *Server) handleZones(w http.ResponseWriter, _ *http.Request) {
	ds, _ := s.datasets.Snapshot()
	writeJSON(w, http.StatusOK, services.UniqueZones(ds))
}

func (s *Server) handleDates(w http.ResponseWriter, _ *http.Request) {
	ds, _ := s.datasets.Snapshot()
	writeJSON(w, http.StatusOK, services.UniqueDates(ds))
}

type refreshResponse struct {
	Counts    map[string]int `json:"counts"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ds := s.aggregator.FetchAll(r.Context())
	s.datasets.Replace(ds)
	s.chartCache.Purge()

	counts := make(map[string]int, len(ds))
	for name, records := range ds {
		counts[name] = len(records)
	}

	if s.events != nil {
		if err := s.events.PublishDatasetRefresh(r.Context(), "manual", counts); err != nil {
			slog.WarnContext(r.Context(), "Failed to publish refresh event", "error", err)
		}
	}

	_, updatedAt := s.datasets.Snapshot()
	writeJSON(w, http.StatusOK, refreshResponse{Counts: counts, UpdatedAt: updatedAt})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q, err := parseDashboardQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, _ := s.buildChart(q)
	title := chart.Title(q.sheet)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, q.sheet))

	if err := export.WriteXLSX(w, title, data); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write export", "sheet", q.sheet, "error", err)
	}
}

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/cache"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/logger"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/report"
)

// location es la zona horaria del consultorio; los meses se cuentan en ella.
func (h *Handler) location() *time.Location {
	if h.Cfg != nil && h.Cfg.ReminderTZ != "" {
		if loc, err := time.LoadLocation(h.Cfg.ReminderTZ); err == nil {
			return loc
		}
	}
	return time.UTC
}

func (h *Handler) reportYear(r *http.Request) (int, bool) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return h.clock().In(h.location()).Year(), true
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 9999 {
		return 0, false
	}
	return y, true
}

func (h *Handler) monthly(ctx context.Context, src repo.ReportSource, year int) ([]report.MonthCount, error) {
	loc := h.location()
	from, to := report.YearRange(year, loc)
	ts, err := repo.CreatedAtBetween(ctx, h.DB, src, from, to)
	if err != nil {
		return nil, err
	}
	return report.MonthlyBuckets(ts, year, loc), nil
}

func (h *Handler) demographics(ctx context.Context) ([]string, []report.Person, error) {
	rows, err := repo.PatientDemographics(ctx, h.DB)
	if err != nil {
		return nil, nil, err
	}
	sexes := make([]string, len(rows))
	people := make([]report.Person, len(rows))
	for i, row := range rows {
		sexes[i] = row.Sex
		people[i] = report.Person{DOB: row.DOB, Age: row.Age}
	}
	return sexes, people, nil
}

// MonthlyReport responde 12 meses de la fuente {source} para ?year=.
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	src := repo.ReportSource(mux.Vars(r)["source"])
	if !src.Valid() {
		writeError(w, http.StatusNotFound, "unknown report")
		return
	}
	year, ok := h.reportYear(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	key := fmt.Sprintf("%s%s:%d", cache.PrefixReports, src, year)
	h.cached(w, r, key, func() (any, error) {
		data, err := h.monthly(r.Context(), src, year)
		if err != nil {
			return nil, err
		}
		return map[string]any{"data": data}, nil
	})
}

func (h *Handler) SexReport(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, cache.PrefixReports+"sexo", func() (any, error) {
		sexes, _, err := h.demographics(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]any{"data": report.CountBySex(sexes)}, nil
	})
}

func (h *Handler) AgeRangeReport(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, cache.PrefixReports+"rango-edad", func() (any, error) {
		_, people, err := h.demographics(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]any{"data": report.CountByAgeRange(people, h.clock())}, nil
	})
}

// ExportReports descarga un .xlsx con todas las series del año.
func (h *Handler) ExportReports(w http.ResponseWriter, r *http.Request) {
	year, ok := h.reportYear(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	wb := report.Workbook{Year: year}
	for _, src := range repo.ReportSources {
		data, err := h.monthly(r.Context(), src, year)
		if err != nil {
			h.handleDBError(w, r, "export-reports", err)
			return
		}
		wb.Monthly = append(wb.Monthly, report.Series{Name: string(src), Data: data})
	}
	sexes, people, err := h.demographics(r.Context())
	if err != nil {
		h.handleDBError(w, r, "export-reports", err)
		return
	}
	wb.Sex = report.CountBySex(sexes)
	wb.Ages = report.CountByAgeRange(people, h.clock())

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, wb); err != nil {
		h.logger().Error("[reportes] xlsx", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="reportes_%d.xlsx"`, year))
	_, _ = w.Write(buf.Bytes())
}

package http

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trashday/internal/charts"
	"trashday/internal/core"
	applog "trashday/internal/log"
)

const mapExportName = "trashday_addresses"

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	}).Write(w)
}

// handleReady reports ready once the dataset can be loaded, the
// templates parsed and the store, when there is one, read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	ds, err := s.source.Dataset(ctx)
	if err != nil {
		checks["dataset"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["dataset"] = map[string]any{
			"status": "ok",
			"source": ds.Source(),
			"rows":   ds.Len(),
		}
	}

	if s.store != nil {
		check, err := s.storeCheck(ctx)
		if err != nil {
			checks["store"] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["store"] = check
		}
	}

	NewJSONResponse().Status(httpStatus).Body(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// storeCheck reports the stored row count and the latest import.
func (s *Server) storeCheck(ctx context.Context) (map[string]any, error) {
	rows, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	check := map[string]any{
		"status":  "ok",
		"rows":    rows,
		"version": 0,
	}
	versions, err := s.store.Versions(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(versions) > 0 {
		check["version"] = versions[0].Version
		check["imported_at"] = versions[0].ImportedAt.Format(time.RFC3339)
	}
	return check, nil
}

// handleOptions lists the distinct values of one categorical column.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	col, err := core.ParseColumn(chi.URLParam(r, "column"))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	options, err := s.explorer.Options(r.Context(), col)
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	NewJSONResponse().Body(map[string]any{
		"column":  col,
		"options": options,
	}).Write(w)
}

// handleAddresses returns the address page model.
func (s *Server) handleAddresses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.explorer.AddressPage(r.Context(), QueryValues(q, ParamNeighborhood), QueryValues(q, ParamDay))
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	NewJSONResponse().Body(page).Write(w)
}

// handleZipcodes returns the zip code page model.
func (s *Server) handleZipcodes(w http.ResponseWriter, r *http.Request) {
	page, err := s.explorer.ZipPage(r.Context(), QueryValue(r.URL.Query(), ParamZip))
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	NewJSONResponse().Body(page).Write(w)
}

// handleDistricts returns the district page model.
func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	page, err := s.explorer.DistrictPage(r.Context(), QueryValues(r.URL.Query(), ParamDistrict))
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	NewJSONResponse().Body(page).Write(w)
}

// handleCounts counts one dimension over a selection taken from the query.
func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	col, err := core.ParseColumn(chi.URLParam(r, "column"))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	q := r.URL.Query()
	summary, err := s.explorer.Summary(r.Context(), ParseSelection(q), col, ParseCandidates(q))
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	NewJSONResponse().Body(summary).Write(w)
}

// handleAddressMapExport writes the address page's point layer as a zipped
// shapefile.
func (s *Server) handleAddressMapExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.explorer.AddressPage(r.Context(), QueryValues(q, ParamNeighborhood), QueryValues(q, ParamDay))
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.WriteShapefileZip(&buf, mapExportName, page.Map); err != nil {
		s.logger.ErrorContext(r.Context(), "Map export failed",
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err)
		InternalServerError("map export failed").Write(w)
		return
	}

	s.logger.InfoContext(r.Context(), "Map exported",
		applog.FieldOperation, applog.OpExport,
		"points", len(page.Map.Points),
		"skipped", page.Map.Skipped)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+mapExportName+`.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	errType := applog.ErrorTypeInternal
	if core.IsLoadError(err) {
		errType = applog.ErrorTypeLoad
	}
	s.logger.ErrorContext(r.Context(), "Request failed",
		applog.FieldPath, r.URL.Path,
		"error_type", errType,
		applog.FieldError, err)
	FromError(err).Write(w)
}

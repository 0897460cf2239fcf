package http

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"

	"trashday/internal/core"
	applog "trashday/internal/log"
	"trashday/internal/services"
)

type addressPageData struct {
	Nav       string
	Page      *services.AddressPage
	Map       mapView
	Pie       pieChartView
	Bar       barChartView
	ExportURL template.URL
}

type zipPageData struct {
	Nav          string
	Page         *services.ZipPage
	RecollectBar barChartView
	TrashDayBar  barChartView
}

type districtPageData struct {
	Nav              string
	Page             *services.DistrictPage
	TrashScatter     scatterView
	RecollectScatter scatterView
}

type errorPageData struct {
	Nav     string
	Title   string
	Message string
}

func (s *Server) handleAddressPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.explorer.AddressPage(r.Context(), QueryValues(q, ParamNeighborhood), QueryValues(q, ParamDay))
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.render(w, r, "address.html", addressPageData{
		Nav:       services.PageAddress,
		Page:      page,
		Map:       newMapView(page.Map),
		Pie:       newPieChartView(page.Pie),
		Bar:       newBarChartView(page.Bar),
		ExportURL: exportURL(q),
	})
}

func (s *Server) handleZipPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.explorer.ZipPage(r.Context(), QueryValue(r.URL.Query(), ParamZip))
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.render(w, r, "zipcode.html", zipPageData{
		Nav:          services.PageZip,
		Page:         page,
		RecollectBar: newBarChartView(page.RecollectBar),
		TrashDayBar:  newBarChartView(page.TrashDayBar),
	})
}

func (s *Server) handleDistrictPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.explorer.DistrictPage(r.Context(), QueryValues(r.URL.Query(), ParamDistrict))
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.render(w, r, "district.html", districtPageData{
		Nav:              services.PageDistrict,
		Page:             page,
		TrashScatter:     newScatterView(page.TrashScatter),
		RecollectScatter: newScatterView(page.RecollectScatter),
	})
}

// render executes name into a buffer so a failing template never leaves a
// half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	s.renderStatus(w, r, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			"template", name,
			applog.FieldError, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// pageError renders the error page. A dataset that cannot be loaded is
// reported as 503 so the failure is visible instead of an empty explorer.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	data := errorPageData{Title: "Something went wrong", Message: "The page could not be built."}
	if core.IsLoadError(err) {
		status = http.StatusServiceUnavailable
		data = errorPageData{Title: "Dataset unavailable", Message: err.Error()}
	}
	s.logger.ErrorContext(r.Context(), "Page failed",
		applog.FieldPath, r.URL.Path,
		applog.FieldError, err)
	s.renderStatus(w, r, status, "error.html", data)
}

// exportURL links the map download to the same selection as the page.
func exportURL(q url.Values) template.URL {
	export := url.Values{}
	for _, key := range []string{ParamNeighborhood, ParamDay} {
		for _, v := range QueryValues(q, key) {
			export.Add(key, v)
		}
	}
	u := "/api/v1/addresses/map.zip"
	if len(export) > 0 {
		u += "?" + export.Encode()
	}
	return template.URL(u)
}

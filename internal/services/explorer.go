package services

import (
	"context"
	"strings"

	"trashday/internal/charts"
	"trashday/internal/core"
	"trashday/internal/engine"
	"trashday/internal/metrics"
)

// Page titles and chart labels.
const (
	AddressPageTitle  = "Trash Schedule By Address"
	ZipPageTitle      = "Enter Zipcode to Find Collection Days"
	DistrictPageTitle = "District vs Collection Days"

	NeighborhoodPieTitlePrefix = "Relative Comparison of Amount of Houses in Each Neighborhood: "
	DayBarTitle                = "# of Houses Collected for Selected Neighborhoods"
	DayBarXLabel               = "Day of the Week"
	DayBarYLabel               = "# of Houses Collected that Day"

	ZipHeader           = "Collection Days by Zipcode"
	RecycleBarTitle     = "Recycles Collection Days"
	TrashBarTitle       = "Trash Collection Days"
	CountOfRecords      = "Count of Records"
	TrashScatterTitle   = "Scatter Plot: Trash Collection Day"
	RecycleScatterTitle = "Scatter Plot: Recycles Collection Day"
)

// Page names used in metrics and logs.
const (
	PageAddress  = "address"
	PageZip      = "zipcode"
	PageDistrict = "district"
	PageSummary  = "summary"
)

// Explorer composes the models behind the three explorer pages. Each call
// builds a fresh view over the shared dataset.
type Explorer struct {
	source   DatasetSource
	mapStyle string
}

func NewExplorer(source DatasetSource, mapStyle string) *Explorer {
	if mapStyle == "" {
		mapStyle = charts.DefaultMapStyle
	}
	return &Explorer{source: source, mapStyle: mapStyle}
}

type AddressPage struct {
	Title                 string                `json:"title"`
	NeighborhoodOptions   []string              `json:"neighborhood_options"`
	DayOptions            []string              `json:"day_options"`
	SelectedNeighborhoods []string              `json:"selected_neighborhoods"`
	SelectedDays          []string              `json:"selected_days"`
	Total                 int                   `json:"total"`
	Rows                  []charts.TableRow     `json:"rows"`
	Map                   charts.MapLayer       `json:"map"`
	NeighborhoodCounts    engine.CategoryCounts `json:"neighborhood_counts"`
	DayCounts             engine.CategoryCounts `json:"day_counts"`
	Pie                   *charts.ChartConfig   `json:"pie"`
	Bar                   *charts.ChartConfig   `json:"bar"`
}

// AddressPage filters by neighborhoods and trash days. Both predicates are
// always applied, so an empty choice on either shows no addresses.
func (e *Explorer) AddressPage(ctx context.Context, neighborhoods, days []string) (*AddressPage, error) {
	ds, err := e.source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	all := engine.All(ds)
	filtered := engine.FilterByNeighborhoodsAndDays(all, neighborhoods, days)
	metrics.RecordFilter(PageAddress, filtered.Len())

	neighborhoodCounts := engine.Count(filtered, core.ColumnNeighborhood, neighborhoods)
	dayCounts := engine.Count(filtered, core.ColumnTrashDay, days)

	return &AddressPage{
		Title:                 AddressPageTitle,
		NeighborhoodOptions:   engine.Distinct(all, core.ColumnNeighborhood),
		DayOptions:            engine.Distinct(all, core.ColumnTrashDay),
		SelectedNeighborhoods: nonNil(neighborhoods),
		SelectedDays:          nonNil(days),
		Total:                 filtered.Len(),
		Rows:                  charts.RowTable(filtered),
		Map:                   charts.PointMap(filtered, e.mapStyle),
		NeighborhoodCounts:    neighborhoodCounts,
		DayCounts:             dayCounts,
		Pie:                   charts.PieChart(neighborhoodCounts, NeighborhoodPieTitlePrefix+strings.Join(neighborhoods, ", ")),
		Bar:                   charts.BarChart(dayCounts, DayBarTitle, DayBarXLabel, DayBarYLabel),
	}, nil
}

type ZipPage struct {
	Title         string                `json:"title"`
	Header        string                `json:"header"`
	ZipOptions    []string              `json:"zip_options"`
	SelectedZip   string                `json:"selected_zip"`
	Total         int                   `json:"total"`
	Rows          []charts.TableRow     `json:"rows"`
	RecollectBar  *charts.ChartConfig   `json:"recollect_bar"`
	TrashDayBar   *charts.ChartConfig   `json:"trashday_bar"`
	RecollectDays engine.CategoryCounts `json:"recollect_counts"`
	TrashDays     engine.CategoryCounts `json:"trashday_counts"`
}

// ZipPage filters on a single zip code. With no zip given the first zip in
// the dataset is selected, the way a select box always has a value.
func (e *Explorer) ZipPage(ctx context.Context, zip string) (*ZipPage, error) {
	ds, err := e.source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	all := engine.All(ds)
	options := engine.Distinct(all, core.ColumnZipCode)

	zip = strings.TrimSpace(zip)
	if zip == "" && len(options) > 0 {
		zip = options[0]
	}

	var filtered engine.View
	if zip == "" {
		filtered = engine.Filter(all, engine.In(core.ColumnZipCode))
	} else {
		filtered = engine.FilterByZip(all, zip)
	}
	metrics.RecordFilter(PageZip, filtered.Len())

	recollect := engine.CountAll(filtered, core.ColumnRecollect)
	trash := engine.CountAll(filtered, core.ColumnTrashDay)

	return &ZipPage{
		Title:         ZipPageTitle,
		Header:        ZipHeader,
		ZipOptions:    options,
		SelectedZip:   zip,
		Total:         filtered.Len(),
		Rows:          charts.RowTable(filtered),
		RecollectBar:  charts.BarChart(recollect, RecycleBarTitle, core.ColumnRecollect.String(), CountOfRecords),
		TrashDayBar:   charts.BarChart(trash, TrashBarTitle, core.ColumnTrashDay.String(), CountOfRecords),
		RecollectDays: recollect,
		TrashDays:     trash,
	}, nil
}

type DistrictPage struct {
	Title             string              `json:"title"`
	DistrictOptions   []string            `json:"district_options"`
	SelectedDistricts []string            `json:"selected_districts"`
	Total             int                 `json:"total"`
	TrashScatter      charts.ScatterTable `json:"trash_scatter"`
	RecollectScatter  charts.ScatterTable `json:"recollect_scatter"`
}

// DistrictPage filters by a set of districts and pairs each remaining row's
// collection days with its district.
func (e *Explorer) DistrictPage(ctx context.Context, districts []string) (*DistrictPage, error) {
	ds, err := e.source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	all := engine.All(ds)
	filtered := engine.FilterByDistricts(all, districts)
	metrics.RecordFilter(PageDistrict, filtered.Len())

	return &DistrictPage{
		Title:             DistrictPageTitle,
		DistrictOptions:   engine.Distinct(all, core.ColumnDistrict),
		SelectedDistricts: nonNil(districts),
		Total:             filtered.Len(),
		TrashScatter:      charts.DualCategory(filtered, core.ColumnTrashDay, core.ColumnDistrict, TrashScatterTitle),
		RecollectScatter:  charts.DualCategory(filtered, core.ColumnRecollect, core.ColumnDistrict, RecycleScatterTitle),
	}, nil
}

// Summary is a generic count of one dimension over a selection.
type Summary struct {
	Column    core.Column           `json:"column"`
	Selection map[string][]string   `json:"selection"`
	Total     int                   `json:"total"`
	Counts    engine.CategoryCounts `json:"counts"`
}

// Summary applies sel and counts dimension over the result. Without
// candidates, every value of dimension in the full dataset is reported,
// including those with a zero count.
func (e *Explorer) Summary(ctx context.Context, sel engine.Selection, dimension core.Column, candidates []string) (*Summary, error) {
	ds, err := e.source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	all := engine.All(ds)
	filtered := sel.Apply(all)
	metrics.RecordFilter(PageSummary, filtered.Len())

	if candidates == nil {
		candidates = engine.Distinct(all, dimension)
	}

	applied := make(map[string][]string, len(sel.Columns()))
	for _, col := range sel.Columns() {
		applied[col.String()] = nonNil(sel.Values(col))
	}

	return &Summary{
		Column:    dimension,
		Selection: applied,
		Total:     filtered.Len(),
		Counts:    engine.Count(filtered, dimension, candidates),
	}, nil
}

// Options lists the distinct values of col in first-seen order.
func (e *Explorer) Options(ctx context.Context, col core.Column) ([]string, error) {
	ds, err := e.source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Distinct(engine.All(ds), col), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

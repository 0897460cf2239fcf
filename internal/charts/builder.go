// Package charts reshapes filtered views and category counts into the
// structures chart and map renderers consume. It makes no filtering or
// counting decisions of its own.
package charts

import (
	"fmt"
	"math"

	"trashday/internal/core"
	"trashday/internal/engine"
)

const (
	DefaultMapStyle = "mapbox://styles/mapbox/outdoors-v11"
	DefaultZoom     = 11
	PointRadius     = 20
	PointTooltip    = "Address:<br/> <b>{full_address}</b><br/>Trash Day: <b>{trashday}</b>"
)

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// PieChart gives one slice per count with a two-decimal percentage label.
// Percentages are empty when every count is zero.
func PieChart(counts engine.CategoryCounts, title string) *ChartConfig {
	total := counts.Total()
	points := make([]ChartPoint, 0, len(counts))
	for _, c := range counts {
		p := ChartPoint{Label: c.Value, Value: float64(c.Count)}
		if total > 0 {
			p.Percent = fmt.Sprintf("%.2f", float64(c.Count)*100/float64(total))
		}
		points = append(points, p)
	}
	return &ChartConfig{
		ChartType:  "pie",
		Title:      title,
		Series:     []ChartSeries{{Name: title, Data: points}},
		Colors:     assignColors(len(points)),
		ShowLegend: true,
	}
}

// BarChart gives one bar per count.
func BarChart(counts engine.CategoryCounts, title, xLabel, yLabel string) *ChartConfig {
	points := make([]ChartPoint, 0, len(counts))
	for _, c := range counts {
		points = append(points, ChartPoint{Label: c.Value, Value: float64(c.Count)})
	}
	name := yLabel
	if name == "" {
		name = "Count"
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     title,
		XAxis:     xLabel,
		YAxis:     yLabel,
		Series:    []ChartSeries{{Name: name, Data: points}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

// PointMap places every address with finite coordinates and centers the
// camera on their mean position.
func PointMap(v engine.View, style string) MapLayer {
	if style == "" {
		style = DefaultMapStyle
	}
	layer := MapLayer{
		Style:   style,
		Radius:  PointRadius,
		Tooltip: PointTooltip,
		View:    ViewState{Zoom: DefaultZoom},
		Points:  make([]MapPoint, 0, v.Len()),
	}

	var sumLat, sumLon float64
	v.Each(func(r core.Record) bool {
		if !finite(r.Lat) || !finite(r.Lon) {
			layer.Skipped++
			return true
		}
		layer.Points = append(layer.Points, MapPoint{
			AddressID:   r.AddressID,
			Lon:         r.Lon,
			Lat:         r.Lat,
			FullAddress: r.FullAddress,
			TrashDay:    r.TrashDay,
		})
		sumLat += r.Lat
		sumLon += r.Lon
		return true
	})

	if n := len(layer.Points); n > 0 {
		layer.View.Latitude = sumLat / float64(n)
		layer.View.Longitude = sumLon / float64(n)
		layer.View.Valid = true
	}
	return layer
}

// DualCategory keeps two categorical columns per row, in view order.
func DualCategory(v engine.View, x, y core.Column, title string) ScatterTable {
	t := ScatterTable{
		Title:   title,
		XColumn: x.String(),
		YColumn: y.String(),
		Rows:    make([]ScatterRow, 0, v.Len()),
	}
	v.Each(func(r core.Record) bool {
		t.Rows = append(t.Rows, ScatterRow{AddressID: r.AddressID, X: r.Value(x), Y: r.Value(y)})
		return true
	})
	return t
}

// RowTable lists the view's rows for tabular display.
func RowTable(v engine.View) []TableRow {
	rows := make([]TableRow, 0, v.Len())
	v.Each(func(r core.Record) bool {
		rows = append(rows, TableRow{
			AddressID:           r.AddressID,
			FullAddress:         r.FullAddress,
			MailingNeighborhood: r.MailingNeighborhood,
			ZipCode:             r.ZipCode,
			District:            r.District,
			TrashDay:            r.TrashDay,
			Recollect:           r.Recollect,
			Lon:                 coordinate(r.Lon),
			Lat:                 coordinate(r.Lat),
		})
		return true
	})
	return rows
}

func coordinate(f float64) *float64 {
	if !finite(f) {
		return nil
	}
	return &f
}

func assignColors(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

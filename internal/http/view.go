package http

import (
	"fmt"
	"math"

	"trashday/internal/charts"
)

// SVG canvas sizes used by the page templates.
const (
	mapWidth     = 640
	mapHeight    = 400
	mapPadding   = 16
	pointRadius  = 4
	pieRadius    = 110
	pieCenter    = 120
	scatterCellW = 110
	scatterCellH = 36
	scatterLeft  = 90
	scatterTop   = 40
	barScale     = 4
	barRowHeight = 28
)

type barRow struct {
	Label string
	Count int
	Width int
	Y     int
}

type barChartView struct {
	Title  string
	XLabel string
	YLabel string
	Color  string
	Rows   []barRow
	Height int
}

// newBarChartView turns a bar chart config into horizontal bars scaled to
// the largest count.
func newBarChartView(c *charts.ChartConfig) barChartView {
	v := barChartView{Title: c.Title, XLabel: c.XAxis, YLabel: c.YAxis}
	if len(c.Colors) > 0 {
		v.Color = c.Colors[0]
	}
	if len(c.Series) == 0 {
		return v
	}

	var max float64
	for _, p := range c.Series[0].Data {
		if p.Value > max {
			max = p.Value
		}
	}
	for _, p := range c.Series[0].Data {
		width := 0
		if max > 0 && p.Value > 0 {
			width = int(math.Round(p.Value * 100 / max))
			if width < 2 {
				width = 2
			}
		}
		v.Rows = append(v.Rows, barRow{
			Label: displayValue(p.Label),
			Count: int(p.Value),
			Width: width * barScale,
			Y:     len(v.Rows) * barRowHeight,
		})
	}
	v.Height = len(v.Rows)*barRowHeight + barRowHeight
	return v
}

type pieSlice struct {
	Label   string
	Count   int
	Percent string
	Color   string
	Path    string
	Full    bool
}

type pieChartView struct {
	Title  string
	Size   int
	Center int
	Radius int
	Slices []pieSlice
	Empty  bool
}

// newPieChartView computes one SVG arc per non-empty slice. A slice holding
// everything is drawn as a full circle.
func newPieChartView(c *charts.ChartConfig) pieChartView {
	v := pieChartView{Title: c.Title, Size: pieCenter * 2, Center: pieCenter, Radius: pieRadius, Empty: true}
	if len(c.Series) == 0 {
		return v
	}

	var total float64
	for _, p := range c.Series[0].Data {
		total += p.Value
	}

	angle := -math.Pi / 2
	for i, p := range c.Series[0].Data {
		s := pieSlice{Label: displayValue(p.Label), Count: int(p.Value), Percent: p.Percent}
		if i < len(c.Colors) {
			s.Color = c.Colors[i]
		}
		if total > 0 && p.Value > 0 {
			v.Empty = false
			sweep := 2 * math.Pi * p.Value / total
			if p.Value == total {
				s.Full = true
			} else {
				s.Path = arcPath(angle, angle+sweep)
			}
			angle += sweep
		}
		v.Slices = append(v.Slices, s)
	}
	return v
}

func arcPath(from, to float64) string {
	x1 := pieCenter + pieRadius*math.Cos(from)
	y1 := pieCenter + pieRadius*math.Sin(from)
	x2 := pieCenter + pieRadius*math.Cos(to)
	y2 := pieCenter + pieRadius*math.Sin(to)
	large := 0
	if to-from > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M %d %d L %.2f %.2f A %d %d 0 %d 1 %.2f %.2f Z",
		pieCenter, pieCenter, x1, y1, pieRadius, pieRadius, large, x2, y2)
}

type mapPoint struct {
	X     float64
	Y     float64
	Label string
}

type mapView struct {
	Width   int
	Height  int
	Radius  int
	Points  []mapPoint
	Skipped int
	Valid   bool
	Center  string
	Zoom    float64
	Style   string
}

// newMapView projects the layer's points onto an SVG canvas with a simple
// equirectangular fit of their bounding box.
func newMapView(layer charts.MapLayer) mapView {
	v := mapView{
		Width:   mapWidth,
		Height:  mapHeight,
		Radius:  pointRadius,
		Skipped: layer.Skipped,
		Valid:   layer.View.Valid,
		Zoom:    layer.View.Zoom,
		Style:   layer.Style,
	}
	if !layer.View.Valid || len(layer.Points) == 0 {
		return v
	}
	v.Center = fmt.Sprintf("%.5f, %.5f", layer.View.Latitude, layer.View.Longitude)

	minLon, maxLon := layer.Points[0].Lon, layer.Points[0].Lon
	minLat, maxLat := layer.Points[0].Lat, layer.Points[0].Lat
	for _, p := range layer.Points[1:] {
		minLon = math.Min(minLon, p.Lon)
		maxLon = math.Max(maxLon, p.Lon)
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
	}

	innerW := float64(mapWidth - 2*mapPadding)
	innerH := float64(mapHeight - 2*mapPadding)
	spanLon := maxLon - minLon
	spanLat := maxLat - minLat
	scale := math.Inf(1)
	if spanLon > 0 {
		scale = innerW / spanLon
	}
	if spanLat > 0 {
		scale = math.Min(scale, innerH/spanLat)
	}
	if math.IsInf(scale, 1) {
		scale = 0
	}

	for _, p := range layer.Points {
		x := float64(mapWidth) / 2
		y := float64(mapHeight) / 2
		if scale > 0 {
			x = mapPadding + (p.Lon-minLon)*scale + (innerW-spanLon*scale)/2
			y = mapPadding + (maxLat-p.Lat)*scale + (innerH-spanLat*scale)/2
		}
		v.Points = append(v.Points, mapPoint{
			X:     math.Round(x*100) / 100,
			Y:     math.Round(y*100) / 100,
			Label: fmt.Sprintf("Address: %s, Trash Day: %s", p.FullAddress, p.TrashDay),
		})
	}
	return v
}

type scatterMark struct {
	X     int
	Y     int
	Count int
	Label string
}

type scatterAxisLabel struct {
	Pos   int
	Label string
}

type scatterView struct {
	Title   string
	XColumn string
	YColumn string
	Width   int
	Height  int
	XLabels []scatterAxisLabel
	YLabels []scatterAxisLabel
	Marks   []scatterMark
}

// newScatterView lays out a categorical scatter table: one column per
// distinct x value, one row per distinct y value, both in first-seen order.
// Rows sharing a pair collapse into one mark carrying their count.
func newScatterView(t charts.ScatterTable) scatterView {
	v := scatterView{Title: t.Title, XColumn: t.XColumn, YColumn: t.YColumn}

	xIndex := map[string]int{}
	yIndex := map[string]int{}
	type pair struct{ x, y string }
	counts := map[pair]int{}
	var order []pair

	for _, r := range t.Rows {
		if _, ok := xIndex[r.X]; !ok {
			xIndex[r.X] = len(xIndex)
			v.XLabels = append(v.XLabels, scatterAxisLabel{Label: displayValue(r.X)})
		}
		if _, ok := yIndex[r.Y]; !ok {
			yIndex[r.Y] = len(yIndex)
			v.YLabels = append(v.YLabels, scatterAxisLabel{Label: displayValue(r.Y)})
		}
		p := pair{r.X, r.Y}
		if counts[p] == 0 {
			order = append(order, p)
		}
		counts[p]++
	}

	for i := range v.XLabels {
		v.XLabels[i].Pos = scatterLeft + i*scatterCellW + scatterCellW/2
	}
	for i := range v.YLabels {
		v.YLabels[i].Pos = scatterTop + i*scatterCellH + scatterCellH/2
	}
	for _, p := range order {
		v.Marks = append(v.Marks, scatterMark{
			X:     scatterLeft + xIndex[p.x]*scatterCellW + scatterCellW/2,
			Y:     scatterTop + yIndex[p.y]*scatterCellH + scatterCellH/2,
			Count: counts[p],
			Label: fmt.Sprintf("%s: %s, %s: %s (%d)", t.XColumn, displayValue(p.x), t.YColumn, displayValue(p.y), counts[p]),
		})
	}

	v.Width = scatterLeft + len(v.XLabels)*scatterCellW + mapPadding
	v.Height = scatterTop + len(v.YLabels)*scatterCellH + mapPadding
	return v
}

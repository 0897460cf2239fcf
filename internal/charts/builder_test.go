package charts

import (
	"archive/zip"
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	shp "github.com/jonas-p/go-shp"

	"trashday/internal/core"
	"trashday/internal/engine"
)

func testView(t *testing.T) engine.View {
	t.Helper()
	ds, err := core.NewDataset("test", []core.Record{
		{AddressID: "1", FullAddress: "1 Elm St", TrashDay: "Mon", Recollect: "Tue", District: "2", Lon: -75.10, Lat: 39.90},
		{AddressID: "2", FullAddress: "2 Elm St", TrashDay: "Tue", Recollect: "none", District: "3", Lon: -75.20, Lat: 40.00},
		{AddressID: "3", FullAddress: "3 Oak St", TrashDay: "Mon", Recollect: "Mon", District: "3", Lon: math.NaN(), Lat: math.NaN()},
	})
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return engine.All(ds)
}

func TestPieChartPercentages(t *testing.T) {
	counts := engine.CategoryCounts{{Value: "Elm", Count: 1}, {Value: "Oak", Count: 2}}
	cfg := PieChart(counts, "Relative")
	if cfg.ChartType != "pie" || len(cfg.Series) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	data := cfg.Series[0].Data
	if data[0].Percent != "33.33" || data[1].Percent != "66.67" {
		t.Fatalf("unexpected percentages: %+v", data)
	}
	if len(cfg.Colors) != 2 {
		t.Fatalf("expected one color per slice, got %v", cfg.Colors)
	}

	zero := PieChart(engine.CategoryCounts{{Value: "Elm"}}, "")
	if zero.Series[0].Data[0].Percent != "" {
		t.Fatalf("zero total must not produce a percentage")
	}
}

func TestBarChartKeepsCountOrder(t *testing.T) {
	counts := engine.CategoryCounts{{Value: "Tue", Count: 4}, {Value: "Mon", Count: 0}}
	cfg := BarChart(counts, "Trash", "Day of the Week", "# of Houses Collected that Day")
	pts := cfg.Series[0].Data
	if len(pts) != 2 || pts[0].Label != "Tue" || pts[0].Value != 4 || pts[1].Value != 0 {
		t.Fatalf("unexpected points: %+v", pts)
	}
	if cfg.XAxis != "Day of the Week" || !cfg.ShowGrid {
		t.Fatalf("unexpected axes: %+v", cfg)
	}
}

func TestPointMapCentersOnFinitePoints(t *testing.T) {
	layer := PointMap(testView(t), "")
	if len(layer.Points) != 2 || layer.Skipped != 1 {
		t.Fatalf("expected 2 points and 1 skipped, got %d/%d", len(layer.Points), layer.Skipped)
	}
	if !layer.View.Valid || math.Abs(layer.View.Latitude-39.95) > 1e-9 || math.Abs(layer.View.Longitude+75.15) > 1e-9 {
		t.Fatalf("unexpected view: %+v", layer.View)
	}
	if layer.Style != DefaultMapStyle || layer.View.Zoom != DefaultZoom || layer.Radius != PointRadius {
		t.Fatalf("unexpected defaults: %+v", layer)
	}
}

func TestPointMapEmptyView(t *testing.T) {
	v := engine.Filter(testView(t), engine.In(core.ColumnTrashDay))
	layer := PointMap(v, "custom")
	if len(layer.Points) != 0 || layer.View.Valid {
		t.Fatalf("empty view must give no points and an invalid view: %+v", layer)
	}
	if layer.Points == nil {
		t.Fatalf("points must be an empty slice, not nil")
	}
}

func TestDualCategoryPreservesColumns(t *testing.T) {
	table := DualCategory(testView(t), core.ColumnTrashDay, core.ColumnDistrict, "Scatter")
	if table.XColumn != "trashday" || table.YColumn != "pwd_district" || len(table.Rows) != 3 {
		t.Fatalf("unexpected table: %+v", table)
	}
	if table.Rows[1] != (ScatterRow{AddressID: "2", X: "Tue", Y: "3"}) {
		t.Fatalf("unexpected row: %+v", table.Rows[1])
	}
}

func TestRowTable(t *testing.T) {
	rows := RowTable(testView(t))
	if len(rows) != 3 || rows[0].FullAddress != "1 Elm St" || rows[1].Recollect != "none" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows[0].Lon == nil || *rows[0].Lon != -75.10 {
		t.Fatalf("unexpected coordinates: %+v", rows[0])
	}
	if rows[2].Lon != nil || rows[2].Lat != nil {
		t.Fatalf("NaN coordinates should be nil: %+v", rows[2])
	}
}

func TestWritePointShapefile(t *testing.T) {
	dir := t.TempDir()
	layer := PointMap(testView(t), "")
	if err := WritePointShapefile(dir, "addresses", layer); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, ext := range shapefileExtensions {
		if _, err := os.Stat(filepath.Join(dir, "addresses"+ext)); err != nil {
			t.Fatalf("missing %s: %v", ext, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "addressesdbf")); !os.IsNotExist(err) {
		t.Fatalf("attribute table left without extension: %v", err)
	}

	r, err := shp.Open(filepath.Join(dir, "addresses.shp"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	n := 0
	for r.Next() {
		row, shape := r.Shape()
		if _, ok := shape.(*shp.Point); !ok {
			t.Fatalf("expected point shape, got %T", shape)
		}
		if row == 0 {
			if got := strings.TrimRight(r.ReadAttribute(row, 1), "\x00 "); got != "1 Elm St" {
				t.Errorf("ADDRESS of first row = %q, want %q", got, "1 Elm St")
			}
		}
		n++
	}
	if n != 2 {
		t.Fatalf("expected 2 shapes, got %d", n)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Elm St", 16, "Elm St"},
		{"Elm St", 3, "Elm"},
		{"Peñasco", 3, "Pe"},
		{"Peñasco", 4, "Peñ"},
		{"ñ", 1, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}

func TestWriteShapefileZip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteShapefileZip(&buf, "addresses", PointMap(testView(t), "")); err != nil {
		t.Fatalf("zip: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	if len(zr.File) != len(shapefileExtensions) {
		t.Fatalf("expected %d entries, got %d", len(shapefileExtensions), len(zr.File))
	}
	for i, f := range zr.File {
		if want := "addresses" + shapefileExtensions[i]; f.Name != want {
			t.Errorf("entry %d = %q, want %q", i, f.Name, want)
		}
	}
}

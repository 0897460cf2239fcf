package charts

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	shp "github.com/jonas-p/go-shp"
)

// wgs84PRJ is the ESRI WKT for EPSG:4326, written next to the shapefile.
const wgs84PRJ = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

var shapefileExtensions = []string{".shp", ".shx", ".dbf", ".prj"}

// WritePointShapefile writes the layer's points as a POINT shapefile
// <dir>/<name>.shp with its .shx, .dbf and .prj siblings.
func WritePointShapefile(dir, name string, layer MapLayer) error {
	base := filepath.Join(dir, name)

	w, err := shp.Create(base+".shp", shp.POINT)
	if err != nil {
		return fmt.Errorf("create shapefile: %w", err)
	}
	fields := []shp.Field{
		shp.StringField("ADDR_ID", 32),
		shp.StringField("ADDRESS", 128),
		shp.StringField("TRASHDAY", 16),
	}
	if err := w.SetFields(fields); err != nil {
		w.Close()
		return fmt.Errorf("set shapefile fields: %w", err)
	}

	for _, p := range layer.Points {
		row := int(w.Write(&shp.Point{X: p.Lon, Y: p.Lat}))
		for i, v := range []string{p.AddressID, p.FullAddress, p.TrashDay} {
			if err := w.WriteAttribute(row, i, truncate(v, int(fields[i].Size))); err != nil {
				w.Close()
				return fmt.Errorf("write attribute row=%d field=%d: %w", row, i, err)
			}
		}
	}
	w.Close()

	// go-shp drops the dot when naming the attribute table: <base>dbf.
	if err := os.Rename(base+"dbf", base+".dbf"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("rename attribute table: %w", err)
	}

	if err := os.WriteFile(base+".prj", []byte(wgs84PRJ), 0o644); err != nil {
		return fmt.Errorf("write projection: %w", err)
	}
	return nil
}

// WriteShapefileZip writes the layer as a zipped shapefile to out.
func WriteShapefileZip(out io.Writer, name string, layer MapLayer) error {
	dir, err := os.MkdirTemp("", "trashday-shp-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := WritePointShapefile(dir, name, layer); err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	for _, ext := range shapefileExtensions {
		if err := addFileToZip(zw, filepath.Join(dir, name+ext), name+ext); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	return nil
}

func addFileToZip(zw *zip.Writer, path, entry string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", entry, err)
	}
	defer f.Close()

	dst, err := zw.Create(entry)
	if err != nil {
		return fmt.Errorf("add %s to zip: %w", entry, err)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("copy %s: %w", entry, err)
	}
	return nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

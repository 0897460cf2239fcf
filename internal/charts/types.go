package charts

// ChartConfig describes a bar or pie chart for the frontend renderer.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries is one data series.
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

// ChartPoint is one category and its value. Percent is set for pie slices.
type ChartPoint struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent string  `json:"percent,omitempty"`
}

// MapPoint is one address plotted on the point map.
type MapPoint struct {
	AddressID   string  `json:"address_id"`
	Lon         float64 `json:"lon"`
	Lat         float64 `json:"lat"`
	FullAddress string  `json:"full_address"`
	TrashDay    string  `json:"trashday"`
}

// ViewState is the initial camera of the map. Valid is false when there
// were no points to center on.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
	Valid     bool    `json:"valid"`
}

// MapLayer is a scatterplot layer over the filtered addresses.
type MapLayer struct {
	Style   string     `json:"style"`
	Radius  int        `json:"radius"`
	Tooltip string     `json:"tooltip"`
	View    ViewState  `json:"view"`
	Points  []MapPoint `json:"points"`
	Skipped int        `json:"skipped"`
}

// ScatterRow is one row of a dual-category table.
type ScatterRow struct {
	AddressID string `json:"address_id"`
	X         string `json:"x"`
	Y         string `json:"y"`
}

// ScatterTable carries two categorical columns per row for scatter rendering.
type ScatterTable struct {
	Title   string       `json:"title"`
	XColumn string       `json:"xColumn"`
	YColumn string       `json:"yColumn"`
	Rows    []ScatterRow `json:"rows"`
}

// TableRow is one row of the "filtered data" table. Missing coordinates
// are nil so the row stays JSON encodable.
type TableRow struct {
	AddressID           string   `json:"address_id"`
	FullAddress         string   `json:"full_address"`
	MailingNeighborhood string   `json:"mailing_neighborhood"`
	ZipCode             string   `json:"zip_code"`
	District            string   `json:"pwd_district"`
	TrashDay            string   `json:"trashday"`
	Recollect           string   `json:"recollect"`
	Lon                 *float64 `json:"lon"`
	Lat                 *float64 `json:"lat"`
}

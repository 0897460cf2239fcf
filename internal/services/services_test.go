package services

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trashday/internal/amqp"
	"trashday/internal/core"
	"trashday/internal/dataset/memory"
	"trashday/internal/engine"
)

type countingLoader struct {
	calls   atomic.Int32
	records []core.Record
	err     error
	delay   time.Duration
}

func (l *countingLoader) Load(ctx context.Context) (*core.Dataset, error) {
	l.calls.Add(1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if l.err != nil {
		return nil, l.err
	}
	return core.NewDataset("test", l.records)
}

func testRecords() []core.Record {
	return []core.Record{
		{AddressID: "1", MailingNeighborhood: "Elm", ZipCode: "19103", District: "1", TrashDay: "Mon", Recollect: "Mon", Lon: -75.1, Lat: 39.9, FullAddress: "1 Elm"},
		{AddressID: "2", MailingNeighborhood: "Elm", ZipCode: "19104", District: "2", TrashDay: "Tue", Recollect: "none", Lon: -75.2, Lat: 40.0, FullAddress: "2 Elm"},
		{AddressID: "3", MailingNeighborhood: "Oak", ZipCode: "19103", District: "3", TrashDay: "Mon", Recollect: "Thu", Lon: math.NaN(), Lat: math.NaN(), FullAddress: "3 Oak"},
		{AddressID: "4", MailingNeighborhood: "Oak", ZipCode: "19104", District: "2", TrashDay: "Tue", Recollect: "Tue", Lon: -75.3, Lat: 40.1, FullAddress: "4 Oak"},
		{AddressID: "5", MailingNeighborhood: "Oak", ZipCode: "19103", District: "3", TrashDay: "Wed", Recollect: "none", Lon: -75.4, Lat: 40.2, FullAddress: "5 Oak"},
	}
}

func TestDatasetProvider_CachesAndInvalidates(t *testing.T) {
	loader := &countingLoader{records: testRecords()}
	p := NewDatasetProvider(loader, "test", time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ds, err := p.Dataset(ctx)
		if err != nil {
			t.Fatalf("Dataset() error = %v", err)
		}
		if ds.Len() != 5 {
			t.Fatalf("Len() = %d", ds.Len())
		}
	}
	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}

	p.Invalidate()
	if _, err := p.Dataset(ctx); err != nil {
		t.Fatalf("Dataset() after Invalidate error = %v", err)
	}
	if got := loader.calls.Load(); got != 2 {
		t.Fatalf("loader called %d times after invalidate, want 2", got)
	}
}

func TestDatasetProvider_ConcurrentLoadsShared(t *testing.T) {
	loader := &countingLoader{records: testRecords(), delay: 50 * time.Millisecond}
	p := NewDatasetProvider(loader, "test", time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Dataset(context.Background()); err != nil {
				t.Errorf("Dataset() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestDatasetProvider_LoadErrorNotCached(t *testing.T) {
	loader := &countingLoader{err: core.ErrSourceMissing}
	p := NewDatasetProvider(loader, "test", time.Minute)

	_, err := p.Dataset(context.Background())
	if !core.IsLoadError(err) || !errors.Is(err, core.ErrSourceMissing) {
		t.Fatalf("Dataset() error = %v, want LoadError wrapping ErrSourceMissing", err)
	}

	loader.err = nil
	loader.records = testRecords()
	ds, err := p.Dataset(context.Background())
	if err != nil || ds.Len() != 5 {
		t.Fatalf("Dataset() after recovery = %v, %v", ds, err)
	}
}

func newTestExplorer(t *testing.T) *Explorer {
	t.Helper()
	return NewExplorer(NewDatasetProvider(memory.New(testRecords()), "memory", time.Minute), "")
}

func TestExplorer_AddressPage(t *testing.T) {
	e := newTestExplorer(t)
	page, err := e.AddressPage(context.Background(), []string{"Elm", "Oak"}, []string{"Mon"})
	if err != nil {
		t.Fatalf("AddressPage() error = %v", err)
	}

	if page.Total != 2 || len(page.Rows) != 2 {
		t.Fatalf("Total = %d, want 2", page.Total)
	}
	if got := page.NeighborhoodCounts.Map(); got["Elm"] != 1 || got["Oak"] != 1 {
		t.Errorf("NeighborhoodCounts = %v", page.NeighborhoodCounts)
	}
	if page.Pie.Title != NeighborhoodPieTitlePrefix+"Elm, Oak" {
		t.Errorf("Pie.Title = %q", page.Pie.Title)
	}
	if page.Bar.XAxis != DayBarXLabel || page.Bar.YAxis != DayBarYLabel {
		t.Errorf("Bar axes = %q / %q", page.Bar.XAxis, page.Bar.YAxis)
	}
	if len(page.Map.Points) != 1 || page.Map.Skipped != 1 {
		t.Errorf("Map points = %d skipped = %d", len(page.Map.Points), page.Map.Skipped)
	}
	want := []string{"Elm", "Oak"}
	if len(page.NeighborhoodOptions) != 2 || page.NeighborhoodOptions[0] != want[0] || page.NeighborhoodOptions[1] != want[1] {
		t.Errorf("NeighborhoodOptions = %v", page.NeighborhoodOptions)
	}
}

func TestExplorer_AddressPageEmptySelection(t *testing.T) {
	e := newTestExplorer(t)
	page, err := e.AddressPage(context.Background(), []string{"Elm"}, nil)
	if err != nil {
		t.Fatalf("AddressPage() error = %v", err)
	}
	if page.Total != 0 || len(page.Rows) != 0 {
		t.Fatalf("empty day selection should show no rows, got %d", page.Total)
	}
	if page.Map.View.Valid {
		t.Error("map view should be invalid without points")
	}
	if c, ok := page.NeighborhoodCounts.Get("Elm"); !ok || c != 0 {
		t.Errorf("Elm count = %d, %v; want explicit zero", c, ok)
	}
}

func TestExplorer_ZipPage(t *testing.T) {
	e := newTestExplorer(t)
	ctx := context.Background()

	page, err := e.ZipPage(ctx, "")
	if err != nil {
		t.Fatalf("ZipPage() error = %v", err)
	}
	if page.SelectedZip != "19103" || page.Total != 3 {
		t.Fatalf("default zip = %q total = %d", page.SelectedZip, page.Total)
	}
	if got := page.TrashDays.Map(); got["Mon"] != 2 || got["Wed"] != 1 {
		t.Errorf("TrashDays = %v", page.TrashDays)
	}
	if page.RecollectBar.Title != RecycleBarTitle || page.TrashDayBar.Title != TrashBarTitle {
		t.Errorf("bar titles = %q, %q", page.RecollectBar.Title, page.TrashDayBar.Title)
	}

	page, err = e.ZipPage(ctx, "00000")
	if err != nil {
		t.Fatalf("ZipPage(00000) error = %v", err)
	}
	if page.Total != 0 || len(page.TrashDays) != 0 {
		t.Fatalf("unknown zip should match nothing, got %d", page.Total)
	}
}

func TestExplorer_DistrictPage(t *testing.T) {
	e := newTestExplorer(t)
	page, err := e.DistrictPage(context.Background(), []string{"2", "3"})
	if err != nil {
		t.Fatalf("DistrictPage() error = %v", err)
	}
	if page.Total != 4 || len(page.TrashScatter.Rows) != 4 || len(page.RecollectScatter.Rows) != 4 {
		t.Fatalf("Total = %d", page.Total)
	}
	for _, row := range page.TrashScatter.Rows {
		if row.Y != "2" && row.Y != "3" {
			t.Errorf("unexpected district %q", row.Y)
		}
	}
	if page.TrashScatter.XColumn != "trashday" || page.TrashScatter.YColumn != "pwd_district" {
		t.Errorf("scatter columns = %s x %s", page.TrashScatter.XColumn, page.TrashScatter.YColumn)
	}

	page, _ = e.DistrictPage(context.Background(), nil)
	if page.Total != 0 {
		t.Errorf("no districts chosen should show no rows, got %d", page.Total)
	}
}

func TestExplorer_Summary(t *testing.T) {
	e := newTestExplorer(t)
	sel := engine.NewSelection().With(core.ColumnNeighborhood, "Oak")

	s, err := e.Summary(context.Background(), sel, core.ColumnTrashDay, nil)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if s.Total != 3 || s.Counts.Total() != 3 {
		t.Fatalf("Total = %d, counts total = %d", s.Total, s.Counts.Total())
	}
	if len(s.Counts) != 3 {
		t.Errorf("Counts should cover every day in the dataset: %v", s.Counts)
	}

	s, _ = e.Summary(context.Background(), engine.NewSelection(), core.ColumnTrashDay, []string{"Sun"})
	if c, ok := s.Counts.Get("Sun"); !ok || c != 0 || s.Total != 5 {
		t.Errorf("Summary with candidates = %+v", s)
	}
}

func TestExplorer_PropagatesLoadError(t *testing.T) {
	e := NewExplorer(NewDatasetProvider(&countingLoader{err: core.ErrMalformedSource}, "test", time.Minute), "")
	if _, err := e.ZipPage(context.Background(), ""); !core.IsLoadError(err) {
		t.Fatalf("ZipPage() error = %v, want LoadError", err)
	}
}

type fakePublisher struct {
	msgs []*amqp.DatasetUpdatedMessage
	err  error
}

func (f *fakePublisher) PublishDatasetUpdated(_ context.Context, msg *amqp.DatasetUpdatedMessage) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestImportService_ImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.csv")
	csv := "sam_address_id,mailing_neighborhood,zip_code,pwd_district,trashday,recollect,x_coord,y_coord,full_address\n" +
		"1,Elm,19103,1,Mon,none,-75.1,39.9,1 Elm\n" +
		"2,Oak,19104,2,Tue,Tue,-75.2,40.0,2 Oak\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	store := memory.New(nil)
	pub := &fakePublisher{}
	svc := NewImportService(store, pub)

	res, err := svc.ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if res.Version != 2 || res.Records != 2 || !res.Published {
		t.Fatalf("ImportFile() = %+v", res)
	}
	if len(pub.msgs) != 1 || pub.msgs[0].Version != 2 || pub.msgs[0].Records != 2 {
		t.Fatalf("published %+v", pub.msgs)
	}

	ds, _ := store.Load(context.Background())
	if ds.Len() != 2 {
		t.Fatalf("store holds %d rows, want 2", ds.Len())
	}
}

func TestImportService_PublishFailureNotFatal(t *testing.T) {
	store := memory.New(nil)
	svc := NewImportService(store, &fakePublisher{err: errors.New("broker down")})

	res, err := svc.Import(context.Background(), "test", testRecords())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Published {
		t.Error("Published should be false when publishing fails")
	}
	if store.Version() != 2 {
		t.Errorf("store version = %d, want 2", store.Version())
	}
}

func TestImportService_RejectsDuplicates(t *testing.T) {
	store := memory.New(nil)
	svc := NewImportService(store, nil)

	_, err := svc.Import(context.Background(), "dup", []core.Record{{AddressID: "1"}, {AddressID: "1"}})
	if !errors.Is(err, core.ErrDuplicateAddress) {
		t.Fatalf("Import() error = %v, want ErrDuplicateAddress", err)
	}
	if store.Version() != 1 {
		t.Errorf("store version changed to %d", store.Version())
	}

	_, err = svc.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, core.ErrSourceMissing) {
		t.Fatalf("ImportFile() error = %v, want ErrSourceMissing", err)
	}
}

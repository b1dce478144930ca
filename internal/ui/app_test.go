package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/config"
	"github.com/five82/stockroom/internal/mutation"
	"github.com/five82/stockroom/internal/prefs"
	"github.com/five82/stockroom/internal/query"
	"github.com/five82/stockroom/internal/state"
)

// memService is an in-memory catalog.Service.
type memService struct {
	mu       sync.Mutex
	products []catalog.Product
	nextID   int64
	listErr  error
	writeErr error
	creates  int
}

func (s *memService) List(context.Context) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return catalog.CloneAll(s.products), nil
}

func (s *memService) Get(_ context.Context, id int64) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			dup := p.Clone()
			return &dup, nil
		}
	}
	return nil, &catalog.APIError{Status: http.StatusNotFound}
}

func (s *memService) Create(_ context.Context, in catalog.ProductInput) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	s.nextID++
	p := catalog.Product{
		ID:       s.nextID,
		Title:    in.Title,
		Price:    in.Price,
		Category: &catalog.Category{ID: in.CategoryID, Name: "New"},
		Images:   in.Images,
	}
	s.products = append(s.products, p)
	dup := p.Clone()
	return &dup, nil
}

func (s *memService) Update(_ context.Context, id int64, in catalog.ProductInput) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	for i, p := range s.products {
		if p.ID == id {
			s.products[i].Title = in.Title
			s.products[i].Price = in.Price
			dup := s.products[i].Clone()
			return &dup, nil
		}
	}
	return nil, &catalog.APIError{Status: http.StatusNotFound}
}

func (s *memService) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return &catalog.APIError{Status: http.StatusNotFound}
}

func sampleProducts(n int) []catalog.Product {
	out := make([]catalog.Product, n)
	for i := range out {
		id := int64(i + 1)
		cat := &catalog.Category{ID: 1, Name: "Shoes"}
		if id%2 == 0 {
			cat = &catalog.Category{ID: 2, Name: "Hats"}
		}
		out[i] = catalog.Product{
			ID:       id,
			Title:    fmt.Sprintf("Product %d", id),
			Price:    decimal.NewFromInt(id * 10),
			Category: cat,
			Images:   []string{fmt.Sprintf("https://img.example/%d.png", id)},
		}
	}
	return out
}

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

func plain(s string) string { return ansiPattern.ReplaceAllString(s, "") }

func press(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return drain(t, model), cmd
}

// drain delivers pending store wakeups the way the program's forwarder does.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case <-m.changes:
			next, _ := m.Update(storeChangedMsg{})
			m = next.(Model)
		default:
			return m
		}
	}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = send(t, m, press(string(r)))
	}
	return m
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = send(t, m, cmd())
	return m
}

func newTestModel(t *testing.T, svc *memService) Model {
	t.Helper()
	store := state.NewStore(5)
	cfg := config.Default()
	cfg.ExportDir = t.TempDir()
	cfg.LogFile = ""

	m := New(Options{
		Store:       store,
		Coordinator: mutation.New(svc, store, nil),
		Config:      &cfg,
	})
	t.Cleanup(m.unsubscribe)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 30})
	return run(t, m, m.Init())
}

func TestInitLoadsProducts(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(12), nextID: 12})

	if !m.snapshot.Loaded || len(m.snapshot.Products) != 12 {
		t.Fatalf("snapshot loaded=%v products=%d, want loaded with 12", m.snapshot.Loaded, len(m.snapshot.Products))
	}
	if m.loading {
		t.Fatal("loading still set after load finished")
	}
	out := plain(m.View())
	for _, want := range []string{"Product 1", "Product 5", "Showing 1-5 of 12", "$10"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Product 6") {
		t.Fatalf("view shows a row from page 2:\n%s", out)
	}
}

func TestInitialLoadFailureShowsRetryScreen(t *testing.T) {
	svc := &memService{products: sampleProducts(3), listErr: fmt.Errorf("%w: connection refused", catalog.ErrUnreachable)}
	m := newTestModel(t, svc)

	out := plain(m.View())
	if !strings.Contains(out, "Could not load products") || !strings.Contains(out, "catalog API unreachable") {
		t.Fatalf("expected load error screen, got:\n%s", out)
	}

	svc.mu.Lock()
	svc.listErr = nil
	svc.mu.Unlock()

	m, cmd := send(t, m, press("r"))
	if !m.loading {
		t.Fatal("reload did not set loading")
	}
	m = run(t, m, cmd)
	if !m.snapshot.Loaded || len(m.snapshot.Products) != 3 {
		t.Fatalf("retry did not load products: %+v", m.snapshot)
	}
}

func TestReloadIgnoredWhileLoading(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(2)})
	m.loading = true
	if _, cmd := send(t, m, press("r")); cmd != nil {
		t.Fatal("reload issued a second load while one is in flight")
	}
}

func TestSearchFiltersLiveAndEscRestores(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(12)})

	m, _ = send(t, m, press("/"))
	if m.mode != modeSearch {
		t.Fatalf("mode = %v, want search", m.mode)
	}
	m = typeText(t, m, "HAT")
	if m.snapshot.SearchTerm != "hat" {
		t.Fatalf("SearchTerm = %q, want hat", m.snapshot.SearchTerm)
	}
	if len(m.snapshot.Filtered) != 6 {
		t.Fatalf("Filtered = %d, want 6", len(m.snapshot.Filtered))
	}

	m, _ = send(t, m, press("esc"))
	if m.mode != modeBrowse || m.snapshot.SearchTerm != "" || len(m.snapshot.Filtered) != 12 {
		t.Fatalf("esc did not restore search: mode=%v term=%q filtered=%d", m.mode, m.snapshot.SearchTerm, len(m.snapshot.Filtered))
	}

	m, _ = send(t, m, press("/"))
	m = typeText(t, m, "product 1")
	m, _ = send(t, m, press("enter"))
	if m.mode != modeBrowse || m.snapshot.SearchTerm != "product 1" {
		t.Fatalf("enter did not keep search: mode=%v term=%q", m.mode, m.snapshot.SearchTerm)
	}
	// Product 1, 10, 11, 12
	if len(m.snapshot.Filtered) != 4 {
		t.Fatalf("Filtered = %d, want 4", len(m.snapshot.Filtered))
	}
}

func TestSearchResetsPage(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(12)})
	m, _ = send(t, m, press("]"))
	if m.snapshot.Page != 2 {
		t.Fatalf("Page = %d, want 2", m.snapshot.Page)
	}
	m, _ = send(t, m, press("/"))
	m = typeText(t, m, "s")
	if m.snapshot.Page != 1 {
		t.Fatalf("Page after typing = %d, want 1", m.snapshot.Page)
	}
}

func TestSortKeysFlipDirection(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(12)})

	m, _ = send(t, m, press("3"))
	if m.snapshot.SortKey != query.KeyPrice || m.snapshot.SortDirection != query.Ascending {
		t.Fatalf("sort = %s %s, want price asc", m.snapshot.SortKey, m.snapshot.SortDirection)
	}
	m, _ = send(t, m, press("3"))
	if m.snapshot.SortDirection != query.Descending {
		t.Fatalf("second press did not flip direction")
	}
	if first := m.snapshot.View().Rows[0].ID; first != 12 {
		t.Fatalf("first row = %d, want 12", first)
	}

	m, _ = send(t, m, press("2"))
	if m.snapshot.SortKey != query.KeyTitle || m.snapshot.SortDirection != query.Ascending {
		t.Fatalf("new key did not start ascending: %s %s", m.snapshot.SortKey, m.snapshot.SortDirection)
	}
}

func TestPagingKeys(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(12)})

	m, _ = send(t, m, press("j"))
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want 1", m.selectedRow)
	}
	m, _ = send(t, m, press("]"))
	if m.snapshot.Page != 2 || m.selectedRow != 0 {
		t.Fatalf("page=%d row=%d, want page 2 row 0", m.snapshot.Page, m.selectedRow)
	}
	m, _ = send(t, m, press("G"))
	if m.snapshot.Page != 3 {
		t.Fatalf("Page = %d, want 3", m.snapshot.Page)
	}
	if rows := len(m.snapshot.View().Rows); rows != 2 {
		t.Fatalf("last page rows = %d, want 2", rows)
	}
	m, _ = send(t, m, press("]"))
	if m.snapshot.Page != 3 {
		t.Fatalf("next past the end moved to %d", m.snapshot.Page)
	}
	m, _ = send(t, m, press("g"))
	if m.snapshot.Page != 1 {
		t.Fatalf("Page = %d, want 1", m.snapshot.Page)
	}
	m, _ = send(t, m, press("["))
	if m.snapshot.Page != 1 {
		t.Fatalf("prev before the start moved to %d", m.snapshot.Page)
	}
}

func TestCursorClampedOnShortPage(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(12)})
	for i := 0; i < 4; i++ {
		m, _ = send(t, m, press("j"))
	}
	if m.selectedRow != 4 {
		t.Fatalf("selectedRow = %d, want 4", m.selectedRow)
	}
	m, _ = send(t, m, press("j"))
	if m.selectedRow != 4 {
		t.Fatalf("cursor moved past the last row: %d", m.selectedRow)
	}
}

func TestPageSizeKeysPersistPreference(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(30)})
	m.prefsPath = filepath.Join(t.TempDir(), "prefs.toml")

	m, _ = send(t, m, press("+"))
	if m.snapshot.PageSize != 10 {
		t.Fatalf("PageSize = %d, want 10", m.snapshot.PageSize)
	}
	m, _ = send(t, m, press("+"))
	if m.snapshot.PageSize != 20 {
		t.Fatalf("PageSize = %d, want 20", m.snapshot.PageSize)
	}
	m, _ = send(t, m, press("-"))
	if m.snapshot.PageSize != 10 {
		t.Fatalf("PageSize = %d, want 10", m.snapshot.PageSize)
	}

	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.PageSize != 10 || p.Theme != m.theme.Name {
		t.Fatalf("saved prefs = %+v, want page size 10 theme %s", p, m.theme.Name)
	}
}

func TestCycleThemeKey(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(1)})
	before := m.theme.Name
	m, _ = send(t, m, press("T"))
	if m.theme.Name != NextTheme(before) {
		t.Fatalf("theme = %s, want %s", m.theme.Name, NextTheme(before))
	}
}

func TestCreateFlow(t *testing.T) {
	svc := &memService{products: sampleProducts(12), nextID: 12}
	m := newTestModel(t, svc)

	m, _ = send(t, m, press("n"))
	if m.mode != modeForm || m.form.editing != nil {
		t.Fatalf("mode = %v editing=%v, want create form", m.mode, m.form.editing)
	}
	m = typeText(t, m, "Desk lamp")
	m, _ = send(t, m, press("tab"))
	m = typeText(t, m, "25.50")
	m, _ = send(t, m, press("tab"))
	m, _ = send(t, m, press("tab"))
	m = typeText(t, m, "3")
	m, _ = send(t, m, press("tab"))
	m = typeText(t, m, "https://img.example/lamp.png")

	m, cmd := send(t, m, press("ctrl+s"))
	if !m.pending {
		t.Fatal("submit did not mark a write pending")
	}
	if _, again := send(t, m, press("ctrl+s")); again != nil {
		t.Fatal("second submit while pending issued a command")
	}

	m = run(t, m, cmd)
	if m.pending || m.mode != modeBrowse {
		t.Fatalf("pending=%v mode=%v after create", m.pending, m.mode)
	}
	if len(m.snapshot.Products) != 13 {
		t.Fatalf("Products = %d, want 13", len(m.snapshot.Products))
	}
	if m.banner.level != bannerSuccess || m.banner.text != "Created product #13" {
		t.Fatalf("banner = %+v", m.banner)
	}
	created, err := m.store.Lookup(13)
	if err != nil {
		t.Fatalf("Lookup(13): %v", err)
	}
	if created.Title != "Desk lamp" || !created.Price.Equal(decimal.RequireFromString("25.5")) {
		t.Fatalf("created = %+v", created)
	}
}

func TestFormValidationKeepsFormOpen(t *testing.T) {
	svc := &memService{products: sampleProducts(2)}
	m := newTestModel(t, svc)

	m, _ = send(t, m, press("n"))
	m, cmd := send(t, m, press("ctrl+s"))
	if cmd != nil {
		t.Fatal("invalid form issued a command")
	}
	if m.mode != modeForm {
		t.Fatalf("mode = %v, want form", m.mode)
	}
	if got := m.form.errs.Field("title"); got != "required" {
		t.Fatalf("title error = %q, want required", got)
	}
	if got := m.form.errs.Field("price"); got != "not a number" {
		t.Fatalf("price error = %q, want not a number", got)
	}
	if svc.creates != 0 {
		t.Fatalf("service saw %d creates, want 0", svc.creates)
	}
	if out := plain(m.View()); !strings.Contains(out, "required") {
		t.Fatalf("form view does not show errors:\n%s", out)
	}

	m, _ = send(t, m, press("esc"))
	if m.mode != modeBrowse {
		t.Fatalf("esc did not close the form")
	}
}

func TestEditPrefillsAndUpdates(t *testing.T) {
	svc := &memService{products: sampleProducts(3)}
	m := newTestModel(t, svc)

	m, _ = send(t, m, press("e"))
	if m.mode != modeForm || m.form.editing == nil || m.form.editing.ID != 1 {
		t.Fatalf("edit form not opened for product 1")
	}
	if got := m.form.fields[0].input.Value(); got != "Product 1" {
		t.Fatalf("title prefill = %q", got)
	}
	m, _ = send(t, m, press("backspace"))
	m = typeText(t, m, "X")
	m, cmd := send(t, m, press("ctrl+s"))
	m = run(t, m, cmd)

	p, err := m.store.Lookup(1)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if p.Title != "Product X" {
		t.Fatalf("title = %q, want Product X", p.Title)
	}
	if m.banner.text != "Updated product #1" {
		t.Fatalf("banner = %+v", m.banner)
	}
}

func TestServerErrorKeepsFormOpen(t *testing.T) {
	svc := &memService{products: sampleProducts(1)}
	m := newTestModel(t, svc)
	svc.writeErr = &catalog.APIError{Method: "PUT", Status: http.StatusInternalServerError}

	m, _ = send(t, m, press("e"))
	m, cmd := send(t, m, press("ctrl+s"))
	m = run(t, m, cmd)
	if m.mode != modeForm {
		t.Fatalf("mode = %v, want form kept open", m.mode)
	}
	if m.form.err != "server returned 500 Internal Server Error" {
		t.Fatalf("form.err = %q", m.form.err)
	}
}

func TestDeleteFlow(t *testing.T) {
	svc := &memService{products: sampleProducts(6)}
	m := newTestModel(t, svc)

	m, _ = send(t, m, press("j"))
	m, _ = send(t, m, press("d"))
	if m.mode != modeConfirmDelete || m.deleteTarget.ID != 2 {
		t.Fatalf("mode=%v target=%d, want confirm for 2", m.mode, m.deleteTarget.ID)
	}
	if out := plain(m.View()); !strings.Contains(out, "Delete product?") || !strings.Contains(out, "Product 2") {
		t.Fatalf("confirm view:\n%s", out)
	}

	m, cmd := send(t, m, press("y"))
	if !m.pending {
		t.Fatal("confirm did not mark a write pending")
	}
	if _, again := send(t, m, press("y")); again != nil {
		t.Fatal("second confirm while pending issued a command")
	}
	m = run(t, m, cmd)

	if m.mode != modeBrowse || len(m.snapshot.Products) != 5 {
		t.Fatalf("mode=%v products=%d after delete", m.mode, len(m.snapshot.Products))
	}
	if _, err := m.store.Lookup(2); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("product 2 still present: %v", err)
	}
	if m.banner.text != "Deleted product #2" {
		t.Fatalf("banner = %+v", m.banner)
	}
}

func TestDeleteCancel(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(2)})
	m, _ = send(t, m, press("d"))
	m, cmd := send(t, m, press("n"))
	if cmd != nil || m.mode != modeBrowse {
		t.Fatalf("cancel: mode=%v cmd=%v", m.mode, cmd != nil)
	}
	if len(m.snapshot.Products) != 2 {
		t.Fatalf("products changed on cancel")
	}
}

func TestDeleteFailureShowsBanner(t *testing.T) {
	svc := &memService{products: sampleProducts(2)}
	m := newTestModel(t, svc)
	svc.writeErr = &catalog.APIError{Method: "DELETE", Status: http.StatusInternalServerError}

	m, _ = send(t, m, press("d"))
	m, cmd := send(t, m, press("y"))
	m = run(t, m, cmd)

	if m.mode != modeBrowse {
		t.Fatalf("mode = %v, want browse", m.mode)
	}
	if m.banner.level != bannerError || m.banner.text != "Delete failed: server returned 500 Internal Server Error" {
		t.Fatalf("banner = %+v", m.banner)
	}
	if len(m.snapshot.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(m.snapshot.Products))
	}
}

func TestDetailOverlay(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(2)})
	m, _ = send(t, m, press("enter"))
	if m.mode != modeDetail || m.detail.ID != 1 {
		t.Fatalf("mode=%v detail=%d", m.mode, m.detail.ID)
	}
	out := plain(m.View())
	for _, want := range []string{"Product 1", "Shoes (#1)", "Images (1)", "https://img.example/1.png"} {
		if !strings.Contains(out, want) {
			t.Fatalf("detail missing %q:\n%s", want, out)
		}
	}
	m, _ = send(t, m, press("esc"))
	if m.mode != modeBrowse {
		t.Fatal("esc did not close detail")
	}
}

func TestExportAllAndPage(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(12)})
	m.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) }

	m, cmd := send(t, m, press("x"))
	m = run(t, m, cmd)
	if m.banner.level != bannerSuccess {
		t.Fatalf("banner = %+v", m.banner)
	}
	data, err := os.ReadFile(filepath.Join(m.config.ExportDir, "products-export-all-20240501-103000.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if lines := strings.Split(string(data), "\n"); len(lines) != 13 {
		t.Fatalf("export has %d lines, want 13", len(lines))
	}

	m, _ = send(t, m, press("]"))
	m, cmd = send(t, m, press("X"))
	m = run(t, m, cmd)
	data, err = os.ReadFile(filepath.Join(m.config.ExportDir, "products-export-page-2-20240501-103000.csv"))
	if err != nil {
		t.Fatalf("read page export: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 6 || !strings.HasPrefix(lines[1], "6,Product 6,") {
		t.Fatalf("page export = %q", lines)
	}
}

func TestExportNothing(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(3)})
	m, _ = send(t, m, press("/"))
	m = typeText(t, m, "zzz")
	m, _ = send(t, m, press("enter"))

	m, cmd := send(t, m, press("x"))
	if cmd != nil {
		t.Fatal("empty export issued a command")
	}
	if m.banner.level != bannerWarning || m.banner.text != "Nothing to export" {
		t.Fatalf("banner = %+v", m.banner)
	}
	if out := plain(m.View()); !strings.Contains(out, `No products match "zzz"`) {
		t.Fatalf("empty state missing:\n%s", out)
	}
}

func TestHelpOverlayListsBindings(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(1)})
	m, _ = send(t, m, press("?"))
	out := plain(m.View())
	for _, want := range []string{"Keyboard Shortcuts", "Export this page", "Activity log"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help missing %q", want)
		}
	}
	m, _ = send(t, m, press("x"))
	if m.mode != modeBrowse {
		t.Fatal("any key should close help")
	}
}

func TestActivityOverlayWithoutLogFile(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(1)})
	m, cmd := send(t, m, press("L"))
	if m.mode != modeActivity {
		t.Fatalf("mode = %v, want activity", m.mode)
	}
	m = run(t, m, cmd)
	if out := plain(m.View()); !strings.Contains(out, "Logging is disabled") {
		t.Fatalf("activity view:\n%s", out)
	}
}

func TestDescribeError(t *testing.T) {
	verrs := mutation.ValidationErrors{{Field: "title", Message: "required"}}
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"reconcile", &mutation.ReconcileError{Op: "create", Err: fmt.Errorf("%w: dial", catalog.ErrUnreachable)},
			"saved, but refreshing the list failed: catalog API unreachable"},
		{"validation", verrs, verrs.Error()},
		{"busy", mutation.ErrBusy, "another change is still being saved"},
		{"not found", &state.NotFoundError{ID: 4}, "product no longer exists"},
		{"api", &catalog.APIError{Status: http.StatusBadRequest, Message: "bad price"}, "server returned 400 Bad Request: bad price"},
		{"other", errors.New("boom"), "boom"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeError(tt.err); got != tt.want {
				t.Fatalf("describeError = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetailRefreshRereadsProduct(t *testing.T) {
	svc := &memService{products: sampleProducts(2)}
	m := newTestModel(t, svc)
	m, _ = send(t, m, press("enter"))

	svc.mu.Lock()
	svc.products[0].Title = "Renamed elsewhere"
	svc.mu.Unlock()

	m, cmd := send(t, m, press("r"))
	m = run(t, m, cmd)
	if m.detail.Title != "Renamed elsewhere" {
		t.Fatalf("detail title = %q", m.detail.Title)
	}
	if m.detailNote.text != "Up to date" {
		t.Fatalf("detailNote = %+v", m.detailNote)
	}
	if p, _ := m.store.Lookup(1); p.Title != "Product 1" {
		t.Fatalf("store changed by a detail refresh: %q", p.Title)
	}
}

func TestStoreChangeOutsideUpdateRefreshesView(t *testing.T) {
	m := newTestModel(t, &memService{products: sampleProducts(12)})
	for i := 0; i < 4; i++ {
		m, _ = send(t, m, press("j"))
	}

	// A write's reconcile lands from a command goroutine.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.store.SetProducts(sampleProducts(2))
	}()
	wg.Wait()

	if len(m.snapshot.Products) != 12 {
		t.Fatalf("model changed before the wakeup was delivered: %d products", len(m.snapshot.Products))
	}

	m = drain(t, m)
	if len(m.snapshot.Products) != 2 {
		t.Fatalf("Products = %d, want 2", len(m.snapshot.Products))
	}
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want clamped to 1", m.selectedRow)
	}
	out := plain(m.View())
	if !strings.Contains(out, "Showing 1-2 of 2") || strings.Contains(out, "Product 3") {
		t.Fatalf("view not re-rendered from the new snapshot:\n%s", out)
	}
}

func TestForwardChangesSendsUntilDone(t *testing.T) {
	store := state.NewStore(5)
	m := New(Options{Store: store})
	defer m.unsubscribe()

	got := make(chan tea.Msg, 4)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		forwardChanges(m.changes, done, func(msg tea.Msg) { got <- msg })
		close(finished)
	}()

	store.SetProducts(sampleProducts(3))
	select {
	case msg := <-got:
		if _, ok := msg.(storeChangedMsg); !ok {
			t.Fatalf("forwarded %T, want storeChangedMsg", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("store change was not forwarded")
	}

	close(done)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("forwarder did not stop")
	}
}

func TestUnsubscribeStopsWakeups(t *testing.T) {
	store := state.NewStore(5)
	m := New(Options{Store: store})
	m.unsubscribe()

	store.SetProducts(sampleProducts(1))
	select {
	case <-m.changes:
		t.Fatal("wakeup after unsubscribe")
	default:
	}
}

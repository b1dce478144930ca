package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/export"
	"github.com/five82/stockroom/internal/logging"
)

// Messages

// storeChangedMsg reports that the store changed; the model reads the latest
// snapshot itself.
type storeChangedMsg struct{}

type loadDoneMsg struct {
	err    error
	manual bool // triggered by the reload key
	count  int  // products held after the load
}

type writeOp int

const (
	opCreate writeOp = iota
	opUpdate
	opDelete
)

func (o writeOp) String() string {
	switch o {
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	default:
		return "delete"
	}
}

type writeDoneMsg struct {
	op      writeOp
	id      int64
	product *catalog.Product
	err     error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

type detailMsg struct {
	id      int64
	product *catalog.Product
	err     error
}

type activityMsg struct {
	entries []logging.Entry
	err     error
}

// Commands

func (m Model) loadCmd(manual bool) tea.Cmd {
	coord, store, ctx := m.coord, m.store, m.ctx
	return func() tea.Msg {
		var err error
		if manual {
			err = coord.Refresh(ctx)
		} else {
			err = coord.Load(ctx)
		}
		return loadDoneMsg{err: err, manual: manual, count: len(store.Snapshot().Products)}
	}
}

func (m Model) createCmd(in catalog.ProductInput) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		p, err := coord.Create(ctx, in)
		msg := writeDoneMsg{op: opCreate, product: p, err: err}
		if p != nil {
			msg.id = p.ID
		}
		return msg
	}
}

func (m Model) updateCmd(id int64, in catalog.ProductInput) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		p, err := coord.Update(ctx, id, in)
		return writeDoneMsg{op: opUpdate, id: id, product: p, err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return writeDoneMsg{op: opDelete, id: id, err: coord.Delete(ctx, id)}
	}
}

func (m Model) exportCmd(scope export.Scope, products []catalog.Product) tea.Cmd {
	dir := m.config.ExportDir
	now := m.now()
	logger := m.logger
	return func() tea.Msg {
		path, err := export.WriteFile(dir, scope, products, now)
		if err != nil {
			logger.Warn("export failed", zap.String("scope", scope.String()), zap.Error(err))
			return exportDoneMsg{err: err}
		}
		logger.Info("export written",
			zap.String("scope", scope.String()),
			zap.String("path", path),
			zap.Int("rows", len(products)),
		)
		return exportDoneMsg{path: path, count: len(products)}
	}
}

func (m Model) fetchCmd(id int64) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		p, err := coord.Fetch(ctx, id)
		return detailMsg{id: id, product: p, err: err}
	}
}

func (m Model) activityCmd() tea.Cmd {
	path := m.config.LogFile
	return func() tea.Msg {
		entries, err := logging.Tail(path, activityLines)
		return activityMsg{entries: entries, err: err}
	}
}

// startExport writes either the whole filtered view or the visible page.
func (m Model) startExport(pageOnly bool) (tea.Model, tea.Cmd) {
	scope := export.All()
	products := m.snapshot.Filtered
	if pageOnly {
		page := m.snapshot.View()
		scope = export.PageScope(page.Page)
		products = page.Rows
	}
	if len(products) == 0 {
		m.banner = warnBanner("Nothing to export")
		return m, nil
	}
	m.banner = infoBanner("Exporting " + pluralize(len(products), "product") + "...")
	return m, m.exportCmd(scope, catalog.CloneAll(products))
}

func (m Model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.banner = errorBanner("Export failed: " + msg.err.Error())
		return m, nil
	}
	m.banner = successBanner("Exported " + pluralize(msg.count, "product") + " to " + truncateMiddle(msg.path, 70))
	return m, nil
}


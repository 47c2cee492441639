package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/hilite/internal/annotate"
	"github.com/dshills/hilite/internal/codec"
	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
	"github.com/dshills/hilite/internal/listview"
	"github.com/dshills/hilite/internal/style"
)

// listWidth is the column width of the span index pane.
const listWidth = 40

// App is the viewer application for one decorated document.
type App struct {
	screen  tcell.Screen
	doc     *document.Document
	store   *span.Store
	pal     style.Palette
	session *annotate.Session

	lines    []int // start offset of each document line
	top      int   // first visible line
	showList bool
	listSel  int
	entries  []listview.Entry
	status   string
}

// New creates a viewer over the given document and its spans.
func New(doc *document.Document, store *span.Store, pal style.Palette, session *annotate.Session) *App {
	return &App{
		doc:     doc,
		store:   store,
		pal:     pal,
		session: session,
	}
}

// Run takes over the terminal until the user quits. The viewport is
// restored from the session's saved view state and saved back on exit.
func (a *App) Run() error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	a.screen = s

	a.lines = visibleLines(a.doc)
	a.entries = listview.Entries(a.doc, a.store)
	if v, ok := a.session.RestoreView(); ok {
		a.top = a.lineAt(v.Top)
	}

	a.draw()
	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventResize:
			s.Sync()
			a.draw()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				a.saveView()
				return nil
			}
			a.draw()
		case *tcell.EventInterrupt:
			if pal, ok := ev.Data().(style.Palette); ok {
				a.pal = pal
			}
			a.draw()
		}
	}
}

// Reload swaps in a new palette and wakes the event loop for a
// redraw. Safe to call from another goroutine.
func (a *App) Reload(pal style.Palette) {
	if a.screen != nil {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(pal))
	}
}

// handleKey processes one key event. Returns true on quit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		a.moveBy(-1)
	case tcell.KeyDown:
		a.moveBy(1)
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		a.moveBy(-a.viewRows())
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		a.moveBy(a.viewRows())
	case tcell.KeyTab:
		a.toggleList()
	case tcell.KeyEnter:
		a.jumpToSelection()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			a.moveBy(-1)
		case 'j':
			a.moveBy(1)
		case 'g':
			a.moveTo(0)
		case 'G':
			a.moveTo(len(a.lines))
		case 'l':
			a.toggleList()
		case 'n':
			a.showNote()
		}
	}
	return false
}

// moveBy scrolls the document or moves the list selection, depending
// on which pane has focus.
func (a *App) moveBy(delta int) {
	if a.showList {
		a.listSel = clamp(a.listSel+delta, 0, len(a.entries)-1)
		return
	}
	a.moveTo(a.top + delta)
}

func (a *App) moveTo(line int) {
	a.top = clamp(line, 0, a.maxTop())
	a.status = ""
}

func (a *App) toggleList() {
	if len(a.entries) == 0 && !a.showList {
		a.status = "no decorations"
		return
	}
	a.showList = !a.showList
	a.status = ""
}

// jumpToSelection scrolls the document to the selected index entry and
// returns focus to the document pane.
func (a *App) jumpToSelection() {
	if !a.showList || a.listSel >= len(a.entries) {
		return
	}
	e := a.entries[a.listSel]
	a.showList = false
	a.moveTo(e.Line - 1)
	a.status = fmt.Sprintf("span %d (%s)", e.SpanID, e.Kind)
}

// showNote puts the relevant span's note on the status line: the
// selected entry's note when the index pane has focus, otherwise the
// first noted span in the viewport.
func (a *App) showNote() {
	if a.showList {
		if a.listSel < len(a.entries) {
			a.setNoteStatus(a.entries[a.listSel].Note)
		}
		return
	}
	start := a.offsetOf(a.top)
	end := a.offsetOf(a.top + a.viewRows())
	for _, s := range a.store.InRange(start, end) {
		if s.Note != "" {
			a.setNoteStatus(s.Note)
			return
		}
	}
	a.setNoteStatus("")
}

func (a *App) setNoteStatus(note string) {
	if note == "" {
		a.status = "(no note)"
		return
	}
	a.status = note
}

func (a *App) saveView() {
	off := a.offsetOf(a.top)
	a.session.SaveView(annotate.ViewState{Top: off, Cursor: off})
}

// ---- geometry ----

func (a *App) viewRows() int {
	_, h := a.screen.Size()
	if h <= 1 {
		return 1
	}
	return h - 1 // status bar
}

func (a *App) maxTop() int {
	m := len(a.lines) - a.viewRows()
	if m < 0 {
		return 0
	}
	return m
}

// offsetOf returns the document offset of the given line index.
func (a *App) offsetOf(line int) int {
	if line >= len(a.lines) {
		return a.doc.Len()
	}
	return a.lines[line]
}

// lineAt returns the visible line index containing the given offset.
func (a *App) lineAt(offset int) int {
	idx := 0
	for i, s := range a.lines {
		if s > offset {
			break
		}
		idx = i
	}
	return clamp(idx, 0, a.maxTop())
}

// ---- drawing ----

func (a *App) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()

	docWidth := w
	if a.showList {
		docWidth = w - listWidth - 1
		if docWidth < 0 {
			docWidth = 0
		}
	}

	rows := a.viewRows()
	for row := 0; row < rows; row++ {
		line := a.top + row
		if line >= len(a.lines) {
			break
		}
		a.drawLine(row, line, docWidth)
	}

	if a.showList {
		a.drawList(docWidth, w, rows)
	}
	a.drawStatus(w, h)
	a.screen.Show()
}

// drawLine renders one document line with its decorations.
func (a *App) drawLine(row, line, width int) {
	start := a.lines[line]
	end := a.doc.LineEnd(start)
	text := a.doc.TextRange(start, end)
	spans := a.store.InRange(start, end)

	x := 0
	for i, r := range text {
		if x >= width {
			break
		}
		ts := tcell.StyleDefault
		if st := mergedStyleAt(spans, start+i); st != nil {
			ts = cellStyle(st, a.pal)
		}
		a.screen.SetContent(x, row, r, nil, ts)
		x += runewidth.RuneWidth(r)
	}
}

// drawList renders the span index pane on the right.
func (a *App) drawList(x0, w, rows int) {
	sep := tcell.StyleDefault.Dim(true)
	for row := 0; row < rows; row++ {
		a.screen.SetContent(x0, row, '│', nil, sep)
	}

	listTop := 0
	if a.listSel >= rows {
		listTop = a.listSel - rows + 1
	}
	for row := 0; row < rows; row++ {
		i := listTop + row
		if i >= len(a.entries) {
			break
		}
		e := a.entries[i]
		label := fmt.Sprintf("%4d %-10s %s", e.Line, e.Kind, e.DisplayText)
		ts := tcell.StyleDefault
		if i == a.listSel {
			ts = ts.Reverse(true)
		}
		drawText(a.screen, x0+1, row, w, label, ts)
	}
}

func (a *App) drawStatus(w, h int) {
	ts := tcell.StyleDefault.Reverse(true)
	msg := fmt.Sprintf(" line %d/%d  spans %d", a.top+1, len(a.lines), a.store.Len())
	if a.status != "" {
		msg += "  " + a.status
	}
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, h-1, ' ', nil, ts)
	}
	drawText(a.screen, 0, h-1, w, msg, ts)
}

func drawText(s tcell.Screen, x, y, maxX int, text string, ts tcell.Style) {
	for _, r := range text {
		if x >= maxX {
			return
		}
		s.SetContent(x, y, r, nil, ts)
		x += runewidth.RuneWidth(r)
	}
}

// visibleLines returns the start offsets of the document's lines with
// the persisted metadata lines filtered out; the token and its
// directive stay hidden from the viewer.
func visibleLines(doc *document.Document) []int {
	text := doc.Text()
	var starts []int
	for _, s := range lineStarts(text) {
		rest := text[s:]
		if strings.HasPrefix(rest, codec.TokenMarker) || strings.HasPrefix(rest, codec.Directive) {
			continue
		}
		starts = append(starts, s)
	}
	if len(starts) == 0 {
		starts = []int{0}
	}
	return starts
}

// lineStarts returns the start offset of every line in text. An empty
// document still has one line.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' && i+1 <= len(text)-1 {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

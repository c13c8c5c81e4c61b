package ui

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/five82/listkeeper/internal/entity"
	"github.com/five82/listkeeper/internal/liststate"
	"github.com/five82/listkeeper/internal/prefs"
	"github.com/five82/listkeeper/internal/remote"
	"github.com/five82/listkeeper/internal/remote/remotetest"
)

var quiet = log.New(io.Discard, "", 0)

func contactsManager() *liststate.Manager[entity.Contact, entity.ContactDraft] {
	return liststate.New[entity.Contact, entity.ContactDraft](liststate.Options[entity.Contact]{
		Name:   "contacts",
		Seed:   entity.SeedContacts(),
		Logger: quiet,
	})
}

func productsManager() *liststate.Manager[entity.Product, entity.ProductDraft] {
	return liststate.New[entity.Product, entity.ProductDraft](liststate.Options[entity.Product]{
		Name:   "products",
		Seed:   entity.SeedProducts(),
		Logger: quiet,
	})
}

func newTestModel(t *testing.T, screens ...Screen) Model {
	t.Helper()
	m := New(Options{
		Screens:   screens,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// settle runs cmd and feeds operation and log results back into the model.
// Follow-up commands from results are notice timers and are not run.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := execCmd(c).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case opResultMsg, activityMsg:
			next, _ := m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func execCmd(c tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- c() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		return nil
	}
}

func rowNames(s Screen) []string {
	var out []string
	for _, r := range s.Rows() {
		out = append(out, r.Label())
	}
	return out
}

func TestTabSwitchingWraps(t *testing.T) {
	m := newTestModel(t,
		NewContactsScreen(contactsManager(), ""),
		NewProductsScreen(productsManager(), ""))

	m, _ = press(t, m, "tab")
	if got := m.current().screen.Key(); got != "products" {
		t.Fatalf("after tab active = %q, want products", got)
	}
	m, _ = press(t, m, "tab")
	if got := m.current().screen.Key(); got != "contacts" {
		t.Fatalf("after second tab active = %q, want contacts", got)
	}
	m, _ = press(t, m, "shift+tab")
	if got := m.current().screen.Key(); got != "products" {
		t.Fatalf("after shift+tab active = %q, want products", got)
	}
}

func TestNew_SelectsInitialTab(t *testing.T) {
	m := New(Options{
		Screens: []Screen{
			NewContactsScreen(contactsManager(), ""),
			NewProductsScreen(productsManager(), ""),
		},
		Tab: "products",
	})
	if m.active != 1 {
		t.Fatalf("active = %d, want 1", m.active)
	}
}

func TestNavigationClampsToList(t *testing.T) {
	m := newTestModel(t, NewProductsScreen(productsManager(), ""))

	m, _ = press(t, m, "k")
	if m.current().selected != 0 {
		t.Fatalf("selected after k at top = %d, want 0", m.current().selected)
	}
	m, _ = press(t, m, "j", "j", "j", "j")
	if m.current().selected != 2 {
		t.Fatalf("selected after j past end = %d, want 2", m.current().selected)
	}
	m, _ = press(t, m, "g")
	if m.current().selected != 0 {
		t.Fatalf("selected after g = %d, want 0", m.current().selected)
	}
	m, _ = press(t, m, "G")
	if m.current().selected != 2 {
		t.Fatalf("selected after G = %d, want 2", m.current().selected)
	}
}

func TestAddThroughForm(t *testing.T) {
	s := NewContactsScreen(contactsManager(), "")
	m := newTestModel(t, s)

	m, _ = press(t, m, "a")
	if m.form == nil || m.form.edit {
		t.Fatalf("form = %+v, want open add form", m.form)
	}
	m, _ = press(t, m, "Ana Lima", "tab", "(21) 7777-7777")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	if m.form != nil {
		t.Fatal("form still open after successful add")
	}
	want := []string{"João Silva", "Maria Souza", "Ana Lima"}
	if diff := cmp.Diff(want, rowNames(s)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if m.current().selected != 2 {
		t.Fatalf("selected = %d, want new row 2", m.current().selected)
	}
	if m.notice.isErr || m.notice.text != "Added Ana Lima" {
		t.Fatalf("notice = %+v, want success toast", m.notice)
	}
}

func TestAddInvalidKeepsFormOpen(t *testing.T) {
	s := NewContactsScreen(contactsManager(), "")
	m := newTestModel(t, s)

	m, _ = press(t, m, "a", "   ")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	if m.form == nil {
		t.Fatal("form closed after validation error")
	}
	if m.form.submitting {
		t.Fatal("form still submitting after result")
	}
	if !m.notice.isErr || m.notice.text != "Check name: is required" {
		t.Fatalf("notice = %+v, want validation error", m.notice)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if !strings.Contains(m.View(), "Check name: is required") {
		t.Fatal("form view does not show the validation error")
	}
}

func TestEditEscapeCancelsStaging(t *testing.T) {
	s := NewContactsScreen(contactsManager(), "")
	m := newTestModel(t, s)

	m, _ = press(t, m, "e")
	if m.form == nil || !m.form.edit || m.form.id != 1 {
		t.Fatalf("form = %+v, want edit form for #1", m.form)
	}
	if diff := cmp.Diff([]string{"João Silva", "(11) 9999-9999"}, m.form.values()); diff != "" {
		t.Fatalf("prefilled values mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Editing(); !ok {
		t.Fatal("Editing() = false after e, want staged edit")
	}

	m, _ = press(t, m, "esc")
	if m.form != nil {
		t.Fatal("form still open after esc")
	}
	if _, ok := s.Editing(); ok {
		t.Fatal("Editing() = true after esc, want cleared")
	}
}

func TestEditCommitReplacesInPlace(t *testing.T) {
	s := NewContactsScreen(contactsManager(), "")
	m := newTestModel(t, s)

	m, _ = press(t, m, "j", "enter")
	m.form.inputs[1].SetValue("(11) 1111-1111")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	if m.form != nil {
		t.Fatal("form still open after commit")
	}
	rows := s.Rows()
	want := Row{ID: 2, Cells: []string{"Maria Souza", "(11) 1111-1111"}}
	if diff := cmp.Diff(want, rows[1]); diff != "" {
		t.Fatalf("edited row mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Editing(); ok {
		t.Fatal("staging slot not cleared after commit")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	s := NewContactsScreen(contactsManager(), "")
	m := newTestModel(t, s)

	m, _ = press(t, m, "G", "d")
	if m.confirm == nil {
		t.Fatal("confirm dialog not shown")
	}
	m, _ = press(t, m, "n")
	if m.confirm != nil || s.Len() != 2 {
		t.Fatalf("after n: confirm=%v len=%d, want closed and 2", m.confirm, s.Len())
	}

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "y")
	m = settle(t, m, cmd)

	if diff := cmp.Diff([]string{"João Silva"}, rowNames(s)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if m.current().selected != 0 {
		t.Fatalf("selected = %d, want clamped to 0", m.current().selected)
	}
	if m.notice.text != "Deleted Maria Souza" {
		t.Fatalf("notice = %q, want delete toast", m.notice.text)
	}
}

func TestRepeatedDeleteOnLocalTab(t *testing.T) {
	s := NewContactsScreen(contactsManager(), "")
	m := newTestModel(t, s)

	m, first := press(t, m, "G", "d", "y")
	if s.Len() != 1 {
		t.Fatalf("len = %d before the result arrives, want 1", s.Len())
	}
	m, second := press(t, m, "d", "y")
	m = settle(t, m, first)
	m = settle(t, m, second)

	if s.Len() != 0 {
		t.Fatalf("rows = %v, want both deleted", rowNames(s))
	}
	if m.notice.isErr || m.notice.text != "Deleted João Silva" {
		t.Fatalf("notice = %+v, want delete toast for the second row", m.notice)
	}
}

func TestCartCountsProducts(t *testing.T) {
	s := NewProductsScreen(productsManager(), "")
	m := newTestModel(t, s)

	m, _ = press(t, m, "c", "j", "c", "c")

	if got := s.(cartScreen).CartCount(); got != 3 {
		t.Fatalf("CartCount = %d, want 3", got)
	}
	if m.notice.text != "Added Smartphone to cart" {
		t.Fatalf("notice = %q, want cart toast", m.notice.text)
	}
	if !strings.Contains(m.renderHeader(), "CART 3") {
		t.Fatal("header does not show cart count")
	}
}

func TestCartIgnoredOnOtherTabs(t *testing.T) {
	m := newTestModel(t, NewContactsScreen(contactsManager(), ""))
	m, cmd := press(t, m, "c")
	if cmd != nil || m.notice.text != "" {
		t.Fatalf("c on contacts produced cmd=%v notice=%q", cmd, m.notice.text)
	}
}

func TestWriteKeysBlockedWhileBusy(t *testing.T) {
	s := NewContactsScreen(contactsManager(), "")
	m := newTestModel(t, s)
	m.pending[0] = true

	for _, k := range []string{"a", "e", "d"} {
		m, _ = press(t, m, k)
		if m.form != nil || m.confirm != nil {
			t.Fatalf("%q opened a dialog while busy", k)
		}
		if m.notice.text != "Still syncing, try again in a moment" {
			t.Fatalf("%q notice = %q, want busy message", k, m.notice.text)
		}
	}

	// Navigation still works.
	m, _ = press(t, m, "j")
	if m.current().selected != 1 {
		t.Fatalf("selected = %d, want 1", m.current().selected)
	}
}

func TestRefreshOnLocalTab(t *testing.T) {
	m := newTestModel(t, NewContactsScreen(contactsManager(), ""))
	m, _ = press(t, m, "r")
	if m.notice.text != "Contacts are kept in memory" {
		t.Fatalf("notice = %q, want in-memory hint", m.notice.text)
	}
}

func newRemoteShopping(t *testing.T, srv *remotetest.Server) Screen {
	t.Helper()
	client, err := remote.NewClient[entity.PurchaseItem](remote.Options{
		BaseURL:    srv.URL(),
		Collection: "compras",
		Logger:     quiet,
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	mgr := liststate.New[entity.PurchaseItem, entity.PurchaseItemDraft](liststate.Options[entity.PurchaseItem]{
		Name:   "shopping",
		Remote: client,
		Logger: quiet,
	})
	return NewShoppingScreen(mgr, srv.URL()+"/compras")
}

func TestRemoteTabLoadsOnInitAndAdds(t *testing.T) {
	srv := remotetest.NewServer(t, "compras")
	if err := srv.Seed("compras",
		entity.PurchaseItem{Name: "Arroz", Quantity: 2},
		entity.PurchaseItem{Name: "Feijão", Quantity: 1},
	); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	s := newRemoteShopping(t, srv)
	m := newTestModel(t, s)

	cmd := m.Init()
	if !m.busy(0) {
		t.Fatal("busy = false after Init, want pending fetch")
	}
	m = settle(t, m, cmd)
	if m.busy(0) {
		t.Fatal("busy = true after fetch completed")
	}
	if diff := cmp.Diff([]string{"Arroz", "Feijão"}, rowNames(s)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	m, _ = press(t, m, "a", "Leite", "tab", "3")
	m, cmd = press(t, m, "enter")
	if !m.busy(0) {
		t.Fatal("busy = false while create is in flight")
	}
	m = settle(t, m, cmd)

	if m.form != nil {
		t.Fatal("form still open after remote add")
	}
	if diff := cmp.Diff([]string{"Arroz", "Feijão", "Leite"}, rowNames(s)); diff != "" {
		t.Fatalf("rows after add mismatch (-want +got):\n%s", diff)
	}
	if got := srv.Requests(http.MethodPost, "/compras"); got != 1 {
		t.Fatalf("POST count = %d, want 1", got)
	}
}

func TestRemoteFailureKeepsFormAndReports(t *testing.T) {
	srv := remotetest.NewServer(t, "compras")
	s := newRemoteShopping(t, srv)
	m := newTestModel(t, s)
	m = settle(t, m, m.Init())

	srv.FailNext(http.StatusInternalServerError)
	m, _ = press(t, m, "a", "Leite", "tab", "3")
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	if m.form == nil {
		t.Fatal("form closed after remote failure")
	}
	if !m.notice.isErr || m.notice.text != "Server rejected create (status 500)" {
		t.Fatalf("notice = %+v, want remote error", m.notice)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestDescribeError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &entity.ValidationError{Field: "price", Reason: "must be a number"}, "Check price: must be a number"},
		{"not found", &liststate.NotFoundError{ID: 7}, "Record #7 no longer exists"},
		{"busy", liststate.ErrBusy, "Still syncing, try again in a moment"},
		{"status", &remote.Error{Op: "delete", Status: 404}, "Server rejected delete (status 404)"},
		{"offline", &remote.Error{Op: "list", Err: io.EOF}, "Could not list: network error"},
		{"deadline", &remote.Error{Op: "update", Err: context.DeadlineExceeded}, "Could not update: timed out"},
		{"other", io.ErrUnexpectedEOF, "unexpected EOF"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := describeError(tc.err); got != tc.want {
				t.Fatalf("describeError = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestViewRendersEachMode(t *testing.T) {
	m := newTestModel(t, NewContactsScreen(contactsManager(), ""))

	if v := m.View(); !strings.Contains(v, "Contacts (2)") || !strings.Contains(v, "MEMORY") {
		t.Fatalf("list view missing title or badge:\n%s", v)
	}

	m, _ = press(t, m, "?")
	if v := m.View(); !strings.Contains(v, "Keyboard Shortcuts") {
		t.Fatal("help view missing title")
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatal("help still open after key")
	}

	m, _ = press(t, m, "d")
	if v := m.View(); !strings.Contains(v, "Delete contact?") {
		t.Fatal("confirm view missing prompt")
	}
	m, _ = press(t, m, "esc", "a")
	if v := m.View(); !strings.Contains(v, "New contact") {
		t.Fatal("form view missing title")
	}
}

func TestViewEmptyList(t *testing.T) {
	mgr := liststate.New[entity.Contact, entity.ContactDraft](liststate.Options[entity.Contact]{Logger: quiet})
	m := newTestModel(t, NewContactsScreen(mgr, ""))
	if v := m.View(); !strings.Contains(v, "No contacts yet.") {
		t.Fatalf("empty view missing hint:\n%s", v)
	}
}

func TestThemeCyclePersists(t *testing.T) {
	m := newTestModel(t, NewContactsScreen(contactsManager(), ""))
	m, _ = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if got := prefs.Load(m.prefsPath); got.Theme != "Kanagawa" || got.Tab != "contacts" {
		t.Fatalf("saved prefs = %+v, want Kanagawa/contacts", got)
	}
}

func TestActivityViewShowsLogTail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "listkeeper.log")
	content := "GET /compras request=a status=200\nPOST /compras request=b status=500\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	m := New(Options{
		Screens:   []Screen{NewContactsScreen(contactsManager(), "")},
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		LogPath:   logPath,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = next.(Model)

	m, cmd := press(t, m, "L")
	if m.activity == nil {
		t.Fatal("activity view not opened")
	}
	m = settle(t, m, cmd)

	if diff := cmp.Diff([]string{"GET /compras request=a status=200", "POST /compras request=b status=500"}, m.activity.lines); diff != "" {
		t.Fatalf("activity lines mismatch (-want +got):\n%s", diff)
	}
	if v := m.View(); !strings.Contains(v, "POST /compras request=b status=500") {
		t.Fatalf("activity view missing log line:\n%s", v)
	}

	m, _ = press(t, m, "q")
	if m.activity != nil {
		t.Fatal("activity view still open after key")
	}
}

func TestActivityViewDisabledWithoutLogFile(t *testing.T) {
	m := newTestModel(t, NewContactsScreen(contactsManager(), ""))
	m, _ = press(t, m, "L")
	if m.activity != nil {
		t.Fatal("activity view opened without a log file")
	}
	if !strings.Contains(m.notice.text, "Logging is disabled") {
		t.Fatalf("notice = %q, want disabled hint", m.notice.text)
	}
}

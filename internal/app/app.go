package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/listkeeper/internal/config"
	"github.com/five82/listkeeper/internal/entity"
	"github.com/five82/listkeeper/internal/liststate"
	"github.com/five82/listkeeper/internal/prefs"
	"github.com/five82/listkeeper/internal/remote"
	"github.com/five82/listkeeper/internal/ui"
)

// Options configure the listkeeper application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/listkeeper/prefs.toml
	Tab        string // tab shown first; empty restores the last one used
}

var tabKeys = []string{"contacts", "products", "shopping"}

// Run boots the listkeeper TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	tab, err := resolveTab(opts.Tab, userPrefs.Tab)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	screens, err := buildScreens(cfg)
	if err != nil {
		return err
	}

	log.Printf("listkeeper starting: base_url=%s tab=%s", cfg.BaseURL, tab)

	uiOpts := ui.Options{
		Context:   ctx,
		Screens:   screens,
		ThemeName: userPrefs.Theme,
		Tab:       tab,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
	}
	return ui.Run(uiOpts)
}

// resolveTab picks the first tab: the flag wins, then the saved preference.
func resolveTab(flagTab, savedTab string) (string, error) {
	if flagTab != "" {
		for _, k := range tabKeys {
			if k == flagTab {
				return flagTab, nil
			}
		}
		return "", fmt.Errorf("unknown tab %q (want contacts, products or shopping)", flagTab)
	}
	for _, k := range tabKeys {
		if k == savedTab {
			return savedTab, nil
		}
	}
	return tabKeys[0], nil
}

// setupLogging routes the standard logger to path. The terminal belongs to
// the TUI, so an empty path discards log output instead.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := tea.LogToFile(path, "listkeeper")
	if err != nil {
		return nil, err
	}
	return func() { _ = f.Close() }, nil
}

// buildScreens creates one manager per tab, remote when its collection is
// configured and seeded in memory otherwise.
func buildScreens(cfg config.Config) ([]ui.Screen, error) {
	contacts, contactsSource, err := newManager[entity.Contact, entity.ContactDraft](
		cfg, "contacts", cfg.Contacts, entity.SeedContacts())
	if err != nil {
		return nil, err
	}
	products, productsSource, err := newManager[entity.Product, entity.ProductDraft](
		cfg, "products", cfg.Products, entity.SeedProducts())
	if err != nil {
		return nil, err
	}
	shopping, shoppingSource, err := newManager[entity.PurchaseItem, entity.PurchaseItemDraft](
		cfg, "shopping", cfg.Shopping, nil)
	if err != nil {
		return nil, err
	}

	return []ui.Screen{
		ui.NewContactsScreen(contacts, contactsSource),
		ui.NewProductsScreen(products, productsSource),
		ui.NewShoppingScreen(shopping, shoppingSource),
	}, nil
}

func newManager[E liststate.Record[E, D], D liststate.Draft[E]](
	cfg config.Config, name string, coll config.Collection, seed []E,
) (*liststate.Manager[E, D], string, error) {
	opts := liststate.Options[E]{Name: name, Seed: seed}
	if !coll.Remote() {
		return liststate.New[E, D](opts), "", nil
	}

	client, err := remote.NewClient[E](remote.Options{
		BaseURL:      cfg.BaseURL,
		Collection:   coll.Name,
		ListKey:      coll.ListKey,
		Page:         coll.Page,
		UpdateMethod: cfg.UpdateMethod,
		Timeout:      cfg.RequestTimeout,
	})
	if err != nil {
		return nil, "", fmt.Errorf("init %s remote store: %w", name, err)
	}
	// Remote lists start empty and fill on the first fetch.
	opts.Seed = nil
	opts.Remote = client
	source := client.BaseURL() + "/" + client.Collection()
	return liststate.New[E, D](opts), source, nil
}

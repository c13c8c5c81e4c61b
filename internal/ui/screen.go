package ui

import (
	"context"
	"fmt"

	"github.com/five82/listkeeper/internal/entity"
	"github.com/five82/listkeeper/internal/liststate"
)

// Screen is one tab of the dashboard: a list bound to a single manager.
// Values passed to and returned from Screen follow the order of Fields.
type Screen interface {
	Key() string
	Title() string
	Noun() string
	Source() string
	Remote() bool
	Fields() []Field

	Rows() []Row
	Len() int
	Loading() bool

	Add(ctx context.Context, values []string) (string, error)
	BeginEdit(id entity.ID) ([]string, error)
	Editing() (entity.ID, bool)
	CommitEdit(ctx context.Context, id entity.ID, values []string) (string, error)
	CancelEdit()
	Remove(ctx context.Context, id entity.ID) error
	Refresh(ctx context.Context) error
}

// Field describes one form input.
type Field struct {
	Label       string
	Placeholder string
	CharLimit   int
}

// Row is a rendered list entry.
type Row struct {
	ID    entity.ID
	Cells []string
}

// Label is the name shown for the row in prompts and notifications.
func (r Row) Label() string {
	if len(r.Cells) == 0 {
		return "#" + r.ID.String()
	}
	return r.Cells[0]
}

type rowRecord[E any, D any] interface {
	liststate.Record[E, D]
	Columns() []string
}

type listScreen[E rowRecord[E, D], D liststate.Draft[E]] struct {
	key    string
	title  string
	noun   string
	source string
	fields []Field

	manager   *liststate.Manager[E, D]
	toDraft   func(values []string) D
	fromDraft func(draft D) []string
}

func (s *listScreen[E, D]) Key() string     { return s.key }
func (s *listScreen[E, D]) Title() string   { return s.title }
func (s *listScreen[E, D]) Noun() string    { return s.noun }
func (s *listScreen[E, D]) Source() string  { return s.source }
func (s *listScreen[E, D]) Remote() bool    { return s.manager.Remote() }
func (s *listScreen[E, D]) Fields() []Field { return s.fields }
func (s *listScreen[E, D]) Len() int        { return s.manager.Len() }
func (s *listScreen[E, D]) Loading() bool   { return s.manager.Loading() }

func (s *listScreen[E, D]) Rows() []Row {
	items := s.manager.List()
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, Row{ID: item.RecordID(), Cells: item.Columns()})
	}
	return rows
}

func (s *listScreen[E, D]) Add(ctx context.Context, values []string) (string, error) {
	created, err := s.manager.Add(ctx, s.toDraft(values))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %s", labelOf(created)), nil
}

func (s *listScreen[E, D]) BeginEdit(id entity.ID) ([]string, error) {
	draft, err := s.manager.BeginEdit(id)
	if err != nil {
		return nil, err
	}
	return s.fromDraft(draft), nil
}

func (s *listScreen[E, D]) Editing() (entity.ID, bool) {
	id, _, ok := s.manager.Editing()
	return id, ok
}

func (s *listScreen[E, D]) CommitEdit(ctx context.Context, id entity.ID, values []string) (string, error) {
	updated, err := s.manager.CommitEdit(ctx, id, s.toDraft(values))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated %s", labelOf(updated)), nil
}

func (s *listScreen[E, D]) CancelEdit() { s.manager.CancelEdit() }

func (s *listScreen[E, D]) Remove(ctx context.Context, id entity.ID) error {
	return s.manager.Remove(ctx, id)
}

func (s *listScreen[E, D]) Refresh(ctx context.Context) error {
	return s.manager.Refresh(ctx)
}

type labeled interface {
	RecordID() entity.ID
	Columns() []string
}

func labelOf(record labeled) string {
	cols := record.Columns()
	if len(cols) == 0 {
		return "#" + record.RecordID().String()
	}
	return cols[0]
}

// NewContactsScreen wraps the contact book manager.
func NewContactsScreen(m *liststate.Manager[entity.Contact, entity.ContactDraft], source string) Screen {
	return &listScreen[entity.Contact, entity.ContactDraft]{
		key:    "contacts",
		title:  "Contacts",
		noun:   "contact",
		source: source,
		fields: []Field{
			{Label: "Name", Placeholder: "e.g. João Silva", CharLimit: 80},
			{Label: "Phone", Placeholder: "e.g. (11) 9999-9999", CharLimit: 40},
		},
		manager: m,
		toDraft: func(v []string) entity.ContactDraft {
			return entity.ContactDraft{Name: valueAt(v, 0), Phone: valueAt(v, 1)}
		},
		fromDraft: func(d entity.ContactDraft) []string {
			return []string{d.Name, d.Phone}
		},
	}
}

// NewShoppingScreen wraps the shopping list manager.
func NewShoppingScreen(m *liststate.Manager[entity.PurchaseItem, entity.PurchaseItemDraft], source string) Screen {
	return &listScreen[entity.PurchaseItem, entity.PurchaseItemDraft]{
		key:    "shopping",
		title:  "Shopping",
		noun:   "item",
		source: source,
		fields: []Field{
			{Label: "Item", Placeholder: "e.g. Arroz", CharLimit: 80},
			{Label: "Quantity", Placeholder: "e.g. 2", CharLimit: 9},
		},
		manager: m,
		toDraft: func(v []string) entity.PurchaseItemDraft {
			return entity.PurchaseItemDraft{Name: valueAt(v, 0), Quantity: valueAt(v, 1)}
		},
		fromDraft: func(d entity.PurchaseItemDraft) []string {
			return []string{d.Name, d.Quantity}
		},
	}
}

// NewProductsScreen wraps the product catalog manager. The returned screen
// also keeps a session cart.
func NewProductsScreen(m *liststate.Manager[entity.Product, entity.ProductDraft], source string) Screen {
	return &productScreen{
		listScreen: &listScreen[entity.Product, entity.ProductDraft]{
			key:    "products",
			title:  "Products",
			noun:   "product",
			source: source,
			fields: []Field{
				{Label: "Name", Placeholder: "e.g. Notebook", CharLimit: 80},
				{Label: "Price", Placeholder: "e.g. 2500.00", CharLimit: 16},
			},
			manager: m,
			toDraft: func(v []string) entity.ProductDraft {
				return entity.ProductDraft{Name: valueAt(v, 0), Price: valueAt(v, 1)}
			},
			fromDraft: func(d entity.ProductDraft) []string {
				return []string{d.Name, d.Price}
			},
		},
		cart: make(map[entity.ID]int),
	}
}

// cartScreen is implemented by screens that support adding rows to a cart.
type cartScreen interface {
	AddToCart(id entity.ID) (string, error)
	CartCount() int
}

type productScreen struct {
	*listScreen[entity.Product, entity.ProductDraft]
	cart map[entity.ID]int
}

// AddToCart records one unit of the product. The cart lives only for the
// session and is never synced.
func (s *productScreen) AddToCart(id entity.ID) (string, error) {
	p, ok := s.manager.Get(id)
	if !ok {
		return "", &liststate.NotFoundError{ID: id}
	}
	s.cart[id]++
	return fmt.Sprintf("Added %s to cart", p.Name), nil
}

func (s *productScreen) CartCount() int {
	n := 0
	for _, qty := range s.cart {
		n += qty
	}
	return n
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

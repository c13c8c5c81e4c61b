package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// PurchaseItem is a line of the shopping list.
type PurchaseItem struct {
	ID       ID     `json:"id,omitempty"`
	Name     string `json:"item"`
	Quantity int    `json:"quantidade"`
}

// PurchaseItemDraft holds shopping list fields as typed into a form.
type PurchaseItemDraft struct {
	Name     string
	Quantity string
}

// Validate trims the draft, parses the quantity and builds a PurchaseItem
// without an id.
func (d PurchaseItemDraft) Validate() (PurchaseItem, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return PurchaseItem{}, required("item")
	}
	raw := strings.TrimSpace(d.Quantity)
	if raw == "" {
		return PurchaseItem{}, required("quantity")
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return PurchaseItem{}, &ValidationError{Field: "quantity", Reason: "must be a whole number"}
	}
	if qty < 0 {
		return PurchaseItem{}, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	return PurchaseItem{Name: name, Quantity: qty}, nil
}

func (p PurchaseItem) RecordID() ID { return p.ID }

func (p PurchaseItem) WithID(id ID) PurchaseItem {
	p.ID = id
	return p
}

func (p PurchaseItem) Draft() PurchaseItemDraft {
	return PurchaseItemDraft{Name: p.Name, Quantity: strconv.Itoa(p.Quantity)}
}

// Columns returns the cells shown in a list row.
func (p PurchaseItem) Columns() []string {
	return []string{p.Name, fmt.Sprintf("Qty: %d", p.Quantity)}
}

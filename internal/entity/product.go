package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Product is an item of the product catalog.
type Product struct {
	ID    ID      `json:"id,omitempty"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductDraft holds product fields as typed into a form.
type ProductDraft struct {
	Name  string
	Price string
}

// Validate trims the draft, parses the price and builds a Product without an id.
func (d ProductDraft) Validate() (Product, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Product{}, required("name")
	}
	price, err := parsePrice(d.Price)
	if err != nil {
		return Product{}, err
	}
	return Product{Name: name, Price: price}, nil
}

func (p Product) RecordID() ID { return p.ID }

func (p Product) WithID(id ID) Product {
	p.ID = id
	return p
}

// Draft keeps every decimal of the price so an untouched edit commits the
// same value back.
func (p Product) Draft() ProductDraft {
	return ProductDraft{Name: p.Name, Price: strconv.FormatFloat(p.Price, 'f', -1, 64)}
}

// Columns returns the cells shown in a list row.
func (p Product) Columns() []string {
	return []string{p.Name, FormatPrice(p.Price)}
}

// FormatPrice renders a price the way the catalog displays it.
func FormatPrice(price float64) string {
	return fmt.Sprintf("R$%.2f", price)
}

// SeedProducts returns the catalog's starting entries.
func SeedProducts() []Product {
	return []Product{
		{ID: 1, Name: "Notebook", Price: 2500.00},
		{ID: 2, Name: "Smartphone", Price: 1500.00},
		{ID: 3, Name: "Tablet", Price: 1200.00},
	}
}

// parsePrice accepts "12.5" and, when no dot is present, "12,5".
func parsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, required("price")
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &ValidationError{Field: "price", Reason: "must be a number"}
	}
	if price < 0 {
		return 0, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return price, nil
}

package entity

import "strings"

// Contact is an entry in the contact book.
type Contact struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"nome"`
	Phone string `json:"telefone"`
}

// ContactDraft holds contact fields as typed into a form.
type ContactDraft struct {
	Name  string
	Phone string
}

// Validate trims the draft and builds a Contact without an id.
func (d ContactDraft) Validate() (Contact, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Contact{}, required("name")
	}
	phone := strings.TrimSpace(d.Phone)
	if phone == "" {
		return Contact{}, required("phone")
	}
	return Contact{Name: name, Phone: phone}, nil
}

func (c Contact) RecordID() ID { return c.ID }

func (c Contact) WithID(id ID) Contact {
	c.ID = id
	return c
}

func (c Contact) Draft() ContactDraft {
	return ContactDraft{Name: c.Name, Phone: c.Phone}
}

// Columns returns the cells shown in a list row.
func (c Contact) Columns() []string {
	return []string{c.Name, c.Phone}
}

// SeedContacts returns the contact book's starting entries.
func SeedContacts() []Contact {
	return []Contact{
		{ID: 1, Name: "João Silva", Phone: "(11) 9999-9999"},
		{ID: 2, Name: "Maria Souza", Phone: "(11) 8888-8888"},
	}
}

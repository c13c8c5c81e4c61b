// Package entity defines the records listkeeper manages and the drafts users
// type before a record exists.
//
// Each variant comes as a pair: the canonical entity (Contact, Product,
// PurchaseItem) with its JSON wire shape, and a draft holding raw form strings.
// Draft.Validate is the only way to turn user input into an entity; it trims
// every field, requires the identifying name, and parses numeric fields,
// rejecting anything non-numeric or negative with a *ValidationError.
//
// Entities never carry relationships. The ID is assigned either locally by
// liststate or by the remote backend, and decodes from numbers or numeric
// strings since json-server style backends emit both.
package entity

// Package config loads listkeeper's TOML configuration.
//
// # Overview
//
// The configuration names the remote store and decides, per tab, whether the
// list lives in memory or syncs with a remote collection. Everything is
// optional: listkeeper runs with no file at all.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/listkeeper/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Default Values
//
//   - base_url: http://127.0.0.1:3000
//   - update_method: PUT
//   - request_timeout: none (requests wait until the context is cancelled)
//   - log_file: ~/.local/state/listkeeper/listkeeper.log
//   - contacts, products: in memory
//   - shopping: remote collection "compras"
//
// # TOML Format
//
//	base_url = "http://10.0.0.5:3000"
//	update_method = "PATCH"
//	request_timeout = "10s"
//	log_file = ""            # empty disables logging
//
//	[shopping]
//	collection = "compras"
//	list_key = "data"        # list responses wrapped as {"data": [...]}
//	page = 1                 # adds ?page=1 to list requests
//
//	[products]
//	collection = "products"  # sync the catalog too
//
// Setting collection = "" on the shopping table keeps it in memory.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, malformed TOML, an update_method other than PUT or PATCH,
// and an unparsable or negative request_timeout. The base URL itself is
// validated when a remote client is built.
package config

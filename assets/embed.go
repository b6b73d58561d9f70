// assets/embed.go
//
// Embedded static data for the hangman server:
//   - categories.json: the built-in word catalog (same schema as the
//     optional curriculum file, see internal/words).
//   - index.html: the client shell served at "/".
package assets

import (
	"embed"
)

//go:embed categories.json index.html
var FS embed.FS

// BuiltinCatalog returns the raw JSON of the built-in word catalog.
func BuiltinCatalog() ([]byte, error) {
	return FS.ReadFile("categories.json")
}

// IndexHTML returns the client shell page.
func IndexHTML() ([]byte, error) {
	return FS.ReadFile("index.html")
}

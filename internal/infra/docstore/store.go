// Package docstore provides read-only access to the hosted document database
// that holds the site's content.
package docstore

import "context"

// Document is one stored document with its raw field values.
type Document struct {
	ID   string
	Data map[string]any
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

// Order sorts a collection listing by a single field.
type Order struct {
	Field     string
	Direction Direction
}

func OrderBy(field string, dir Direction) *Order {
	return &Order{Field: field, Direction: dir}
}

// Store is the query surface the content fetchers need. Get returns an error
// matching domain.ErrNotFound when the document does not exist. List never
// returns a nil slice on success.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	List(ctx context.Context, collection string, order *Order) ([]Document, error)
	Close() error
}

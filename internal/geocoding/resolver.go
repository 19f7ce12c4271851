// Package geocoding turns place names from the --place flag into query
// coordinates.
package geocoding

import (
	"context"

	"github.com/UnknownOlympus/aeolus/internal/models"
)

// Resolver is an interface that defines a method for resolving a place name
// into a query location. The Resolve method takes a context and a place
// string as input and returns the corresponding location and an error if
// any occurs.
type Resolver interface {
	Resolve(ctx context.Context, place string) (models.Location, error)
}

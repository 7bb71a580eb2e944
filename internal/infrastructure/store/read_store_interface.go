package store

// ReadStoreInterface is the read-model storage seen by the projector and
// the query handlers. ReadStore and PostgresReadStore implement it.
type ReadStoreInterface interface {
	// Set stores a read model under collection and ID.
	Set(collection, id string, data any)

	// Get retrieves a read model by ID.
	Get(collection, id string) (any, bool)

	// GetAll returns every model in a collection.
	GetAll(collection string) []any

	// Delete removes a read model.
	Delete(collection, id string)

	// Update rewrites a model through fn, reporting whether the ID existed.
	Update(collection, id string, fn func(current any) any) bool
}

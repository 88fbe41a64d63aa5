// Package model holds the GraphQL-only response types. The persisted
// entities live in internal/model and are bound via gqlgen autobind.
package model

// SuccessMessage is the generic acknowledgement returned by signout and
// requestReset.
type SuccessMessage struct {
	Message string `json:"message"`
}

// Aggregate carries count metadata for a connection.
type Aggregate struct {
	Count int `json:"count"`
}

// ItemConnection exposes catalog counts for pagination.
type ItemConnection struct {
	Aggregate *Aggregate `json:"aggregate"`
}

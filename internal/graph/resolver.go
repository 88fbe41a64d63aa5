package graph

import (
	"github.com/rs/zerolog"

	"github.com/hmans/threads/internal/mail"
	"github.com/hmans/threads/internal/payment"
	"github.com/hmans/threads/internal/search"
	"github.com/hmans/threads/internal/store"
)

//go:generate go tool gqlgen generate

// Resolver is the root resolver for the GraphQL schema. All
// dependencies are injected here; there is no package-level state.
type Resolver struct {
	Store    *store.Store
	Search   *search.Index
	Mailer   mail.Mailer
	Gateway  payment.Gateway
	Secret   string
	Currency string
	Log      zerolog.Logger
}

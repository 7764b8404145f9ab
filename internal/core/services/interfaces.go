package services

import (
	"context"

	"scouthub/internal/core/domain"
)

// Actor is the authenticated identity a request acts as: role plus the
// home unit code for the role's tier (empty for SystemAdmin). Supplied
// by the session middleware; the services treat it as opaque input.
type Actor struct {
	AccountID uint
	Role      domain.Role
	UnitCode  string
}

// ObjectStore is the object-storage collaborator. Put returns the
// public retrieval URL; Delete is idempotent (a missing object is not
// an error).
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
}

// Upload carries the bytes of an inbound file
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

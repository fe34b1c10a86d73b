package repository

import "github.com/alexanderramin/taktplan/internal/domain"

// ErrNotFound is returned (wrapped) when a lookup matches no row.
var ErrNotFound = domain.ErrNotFound

// Package repository holds the MySQL data access for venues. Sentinel
// errors defined here let handlers pick the right HTTP status without
// inspecting driver errors.
package repository

import "errors"

// ErrVenueNotFound is returned when no venue row matches the requested id.
// Handlers translate it into a 404.
var ErrVenueNotFound = errors.New("venue not found")

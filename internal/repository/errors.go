// Package repository implements MySQL persistence for users, refresh
// tokens, tags, characters and series. Sentinel errors let handlers map
// failure scenarios to HTTP status codes without inspecting
// driver-specific errors. Ownership violations deliberately surface as
// the same not-found sentinels as missing rows, so record ids are never
// leaked across users.
package repository

import "errors"

// ErrEmailExists is returned when registering with an email that is
// already taken. Handlers translate it into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

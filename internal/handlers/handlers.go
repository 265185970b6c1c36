package handlers

import (
	"time"

	"reels-server/internal/library"
	"reels-server/internal/mediatypes"
)

// Feed page sizing. The defaults and caps are part of the API contract.
const (
	defaultFeedLimit    = 12
	maxFeedLimit        = 50
	defaultSuggestLimit = 8
	maxSuggestLimit     = 20
)

type Handlers struct {
	library   *library.Library
	types     *mediatypes.Registry
	startTime time.Time
}

func New(lib *library.Library, types *mediatypes.Registry) *Handlers {
	return &Handlers{
		library:   lib,
		types:     types,
		startTime: time.Now(),
	}
}

package ingest

import (
	"errors"
	"fmt"

	"github.com/albapepper/lottery-data/internal/provider"
	"github.com/albapepper/lottery-data/internal/provider/fdj"
)

var (
	// ErrUnknownGame is returned for a game id missing from the registry.
	ErrUnknownGame = errors.New("unknown game")

	// ErrUnknownAction is returned for a trigger action that is neither a
	// sync nor a file import.
	ErrUnknownAction = errors.New("unknown action")

	// ErrSyncInProgress is returned when another process holds the game's
	// distributed sync lock.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// FetchError means the upstream batch could not be retrieved. The sync is
// aborted before any write and no stats pass runs.
type FetchError struct {
	Game       provider.Game
	StatusCode int // upstream HTTP status, 0 for transport failures
	Err        error
}

func newFetchError(game provider.Game, err error) *FetchError {
	fe := &FetchError{Game: game, Err: err}
	var se *fdj.StatusError
	if errors.As(err, &se) {
		fe.StatusCode = se.StatusCode
	}
	return fe
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s records: %v", e.Game, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UnsupportedActionError is returned for recognized actions that have no
// implementation. No work is done.
type UnsupportedActionError struct {
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("action %q is not implemented, use %q to load draws from the FDJ API", e.Action, ActionSync)
}

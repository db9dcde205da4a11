/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNameInvalid      = errors.New("name must be between 1 and 12 characters")
	ErrNameUnset        = errors.New("set a name before joining the lobby")
	ErrNameTaken        = errors.New("that name is already taken in the lobby")
	ErrAlreadyInLobby   = errors.New("already in the lobby")
	ErrNotInLobby       = errors.New("not in the lobby")
	ErrEmptyLobby       = errors.New("the lobby is empty")
	ErrNotAllReady      = errors.New("not every player is ready")
	ErrGameUnknown      = errors.New("no game title given")
	ErrNoSession        = errors.New("no game is accepting players")
	ErrSessionFull      = errors.New("no player slot is available")
	ErrNotInSession     = errors.New("not playing in this game")
	ErrWrongPhase       = errors.New("not accepted at this point of the round")
	ErrAlreadySubmitted = errors.New("already submitted this round")
	ErrAlreadyVoted     = errors.New("already voted this round")
	ErrUnknownTarget    = errors.New("unknown vote target")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrUnknownEvent     = errors.New("unknown event")
)

// payloadError folds validator field errors into ErrInvalidPayload so the
// requester learns which field was wrong.
func payloadError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fmt.Errorf("%w: %s failed %q", ErrInvalidPayload, f.Field(), f.Tag())
	}

	return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
}

package ticketing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
)

var (
	// ErrForbidden is returned when the actor lacks the capability for an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a category, ticket, channel or confirmation is missing.
	ErrNotFound = errors.New("not found")

	// ErrLimitReached is returned when a user already holds the maximum number of open tickets.
	ErrLimitReached = errors.New("open ticket limit reached")

	// ErrExternalCall is returned when the chat platform or a store call failed.
	ErrExternalCall = errors.New("external call failed")

	// ErrInvalid is returned when the input of an operation is not acceptable.
	ErrInvalid = errors.New("invalid request")

	// ErrRateLimited is returned when a user opens tickets faster than allowed.
	ErrRateLimited = errors.New("rate limited")

	// ErrDisabled is returned when ticketing is not enabled in the guild.
	ErrDisabled = errors.New("ticketing is disabled")
)

// LimitReachedError lists the open tickets of a user who hit the limit.
type LimitReachedError struct {
	Limit   int
	Tickets []*entities.Ticket
}

func (e *LimitReachedError) Error() string {
	channels := make([]string, 0, len(e.Tickets))
	for _, t := range e.Tickets {
		channels = append(channels, fmt.Sprintf("<#%s>", t.ChannelID))
	}
	return fmt.Sprintf("%s (%d): %s", ErrLimitReached, e.Limit, strings.Join(channels, ", "))
}

func (e *LimitReachedError) Is(target error) bool {
	return target == ErrLimitReached
}

// external wraps a failed platform or store call.
func external(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalCall, what, err)
}

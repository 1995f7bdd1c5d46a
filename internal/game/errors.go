package game

import "errors"

// Typed failure results returned by engine operations. The API layer maps
// these onto JSON error payloads; nothing inside the tick loop panics on them.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnknownVehicle     = errors.New("unknown vehicle")
	ErrUnknownVehicleType = errors.New("unknown vehicle type")
	ErrUnknownRoute       = errors.New("unknown route")
	ErrVehicleRunning     = errors.New("vehicle is running on a route")
	ErrVehicleUnavailable = errors.New("vehicle cannot run in its current state")
	ErrLastVehicle        = errors.New("cannot sell the last vehicle")
	ErrRouteProtected     = errors.New("default routes cannot be deleted")
	ErrNicknameTooLong    = errors.New("nickname exceeds 8 characters")
	ErrNoActiveEvent      = errors.New("no active event to resolve")
	ErrUnknownChoice      = errors.New("unknown event choice")
)

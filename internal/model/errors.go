package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrAlreadyInGame   = errors.New("player is already in the game")
	ErrPlacementFailed = errors.New("no free cell found for placement")

	// Map errors
	ErrMapFormat = errors.New("malformed map definition")

	// Relay errors
	ErrUsernameTaken = errors.New("username is already taken")
	ErrConnClosed    = errors.New("relay connection is closed")
)

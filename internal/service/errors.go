package service

import "errors"

// Service errors. The handler maps each to an HTTP status.
var (
	ErrSameToken       = errors.New("src and dst are equal")
	ErrUnknownToken    = errors.New("unknown token")
	ErrSessionNotFound = errors.New("session not found")
	ErrPoolNotLoaded   = errors.New("no pool loaded")
	ErrNotQuoted       = errors.New("no trade quoted")
	ErrSwapDisabled    = errors.New("swap submission is disabled")
	ErrUnknownCommand  = errors.New("unknown command")
)

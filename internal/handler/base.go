// Package handler exposes the quote and swap-session endpoints over fiber.
package handler

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
)

// BaseHandler carries the logger shared by every handler.
type BaseHandler struct {
	logger *slog.Logger
}

// validateAddresses checks that src and dst are present, well-formed and
// distinct.
func validateAddresses(src, dst string) error {
	for _, f := range []struct{ field, addr string }{{"src", src}, {"dst", dst}} {
		if f.addr == "" {
			return NewAddressRequired(f.field)
		}
		if !common.IsHexAddress(f.addr) {
			return NewInvalidAddress(f.field)
		}
	}

	if common.HexToAddress(src) == common.HexToAddress(dst) {
		return ErrSameAddresses
	}

	return nil
}

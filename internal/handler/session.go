package handler

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/eliobricenov/uniswap-swapper/internal/service"
	"github.com/eliobricenov/uniswap-swapper/internal/swap"
)

// SessionHandler serves the swap-session endpoints.
type SessionHandler struct {
	BaseHandler
	service *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(logger *slog.Logger, svc *service.SessionService) *SessionHandler {
	return &SessionHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

// EventRequest is one widget event. Type is amount, flip, reset, reload or
// select; Side and Text apply to amount, Src and Dst to select.
type EventRequest struct {
	Type string `json:"type"`
	Side string `json:"side"`
	Text string `json:"text"`
	Src  string `json:"src"`
	Dst  string `json:"dst"`
}

// Create serves POST /sessions.
func (h *SessionHandler) Create() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req CreateSessionRequest
		if err := c.Bind().Body(&req); err != nil {
			h.logger.Debug("failed to bind body", "err", err)
			return ErrInvalidBody
		}
		if err := validateAddresses(req.Src, req.Dst); err != nil {
			return err
		}

		sess, err := h.service.Create(c, common.HexToAddress(req.Src), common.HexToAddress(req.Dst))
		if sess == nil {
			return serviceError(h.logger, err)
		}
		v := h.view(sess.ID, sess.State())
		if err != nil {
			// The session survives a failed pool load; a reload retries it.
			v.Error = serviceError(h.logger, err).Error()
		}
		return c.Status(fiber.StatusCreated).JSON(v)
	}
}

// Get serves GET /sessions/:id.
func (h *SessionHandler) Get() fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		sess, err := h.service.Get(id)
		if err != nil {
			return serviceError(h.logger, err)
		}
		return c.JSON(h.view(id, sess.State()))
	}
}

// Event serves POST /sessions/:id/events.
func (h *SessionHandler) Event() fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		var req EventRequest
		if err := c.Bind().Body(&req); err != nil {
			h.logger.Debug("failed to bind body", "err", err)
			return ErrInvalidBody
		}
		cmd, err := toCommand(req)
		if err != nil {
			return err
		}

		st, err := h.service.Apply(c, id, cmd)
		if err != nil {
			return serviceError(h.logger, err)
		}
		return c.JSON(h.view(id, st))
	}
}

// Swap serves POST /sessions/:id/swap.
func (h *SessionHandler) Swap() fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		res, err := h.service.Swap(c, id)
		if err != nil {
			return serviceError(h.logger, err)
		}
		h.logger.Info("swap submitted", "session", id.String(), "tx", res.Result.TxHash.Hex())
		return c.Status(fiber.StatusAccepted).JSON(newSwapView(res.Descriptor, res.Result.TxHash, res.Result.ApprovalHash, res.Result.Approved))
	}
}

// Close serves DELETE /sessions/:id.
func (h *SessionHandler) Close() fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		if err := h.service.Close(id); err != nil {
			return serviceError(h.logger, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func (h *SessionHandler) view(id uuid.UUID, st *swap.State) *StateView {
	return newStateView(id.String(), st, h.service.SlippageBps(), h.service.CanSwap())
}

func sessionID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidSessionID
	}
	return id, nil
}

func toCommand(req EventRequest) (service.Command, error) {
	cmd := service.Command{Type: service.CommandType(req.Type), Text: req.Text}
	switch cmd.Type {
	case service.CommandAmount:
		switch req.Side {
		case "source", "":
			cmd.Side = swap.Source
		case "target":
			cmd.Side = swap.Target
		default:
			return cmd, ErrInvalidSide
		}
	case service.CommandSelect:
		if err := validateAddresses(req.Src, req.Dst); err != nil {
			return cmd, err
		}
		cmd.Src = common.HexToAddress(req.Src)
		cmd.Dst = common.HexToAddress(req.Dst)
	}
	return cmd, nil
}

package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/reachy-blocks/pkg/blocks"
	"github.com/teslashibe/reachy-blocks/pkg/recorded"
)

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Connected   bool   `json:"connected"`
	DaemonState string `json:"daemon_state"`
	CurrentMove string `json:"current_move,omitempty"`
	Connection  string `json:"connection"`
}

// MovesResponse is the body of GET /api/moves.
type MovesResponse struct {
	Dataset    string              `json:"dataset"`
	Moves      []string            `json:"moves"`
	Categories map[string][]string `json:"categories"`
}

// handleStatus reports daemon reachability and the tracked move
func (s *Server) handleStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	resp := StatusResponse{
		Connected:   s.ext.IsDaemonConnected(ctx),
		DaemonState: blocks.UnknownValue,
		CurrentMove: s.ext.CurrentMove(),
	}
	if resp.Connected {
		resp.DaemonState = s.ext.DaemonState(ctx)
	}
	resp.Connection = string(s.ext.Connection())

	return c.JSON(resp)
}

// handleState returns a fresh snapshot in degrees
func (s *Server) handleState(c *fiber.Ctx) error {
	snap, err := s.ext.Refresh(c.UserContext())
	if err != nil {
		s.logger.Warn("state request failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(snap)
}

// handleMoves lists a dataset, grouped by move category
func (s *Server) handleMoves(c *fiber.Ctx) error {
	dataset := strings.TrimSpace(c.Query("dataset", recorded.EmotionsDataset))

	cat, err := recorded.Load(c.UserContext(), s.moves, dataset)
	if err != nil {
		s.logger.Warn("moves request failed", "dataset", dataset, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(MovesResponse{
		Dataset:    cat.Dataset(),
		Moves:      cat.Names(),
		Categories: cat.Categories(),
	})
}

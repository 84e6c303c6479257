package server

import (
	"strings"

	"ripple/internal/models"
	"ripple/internal/reaction"

	"github.com/gofiber/fiber/v2"
)

// ReactToPost handles POST /api/posts/:id/like and /api/posts/:id/dislike.
// Both respond with the resulting reaction state for the caller.
func (s *Server) ReactToPost(c *fiber.Ctx) error {
	return s.react(c, models.TargetPost)
}

// ReactToComment handles POST /api/comments/:id/like and
// /api/comments/:id/dislike.
func (s *Server) ReactToComment(c *fiber.Ctx) error {
	return s.react(c, models.TargetComment)
}

func (s *Server) react(c *fiber.Ctx, kind models.TargetKind) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// The action is the final path segment of the route.
	segments := strings.Split(strings.TrimSuffix(c.Route().Path, "/"), "/")
	action, ok := reaction.ParseAction(segments[len(segments)-1])
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown reaction action"))
	}

	state, svcErr := s.reactionService.React(c.Context(), currentUserID(c), kind, targetID, action)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{"state": state})
}

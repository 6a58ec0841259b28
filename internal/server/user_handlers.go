package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	profile, err := s.userService.GetProfile(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Bio   *string `json:"bio"`
		Image *string `json:"image"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID: currentUserID(c),
		Bio:    req.Bio,
		Image:  req.Image,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// DeleteMe handles DELETE /api/users/me
func (s *Server) DeleteMe(c *fiber.Ctx) error {
	if err := s.userService.DeleteUser(c.UserContext(), currentUserID(c)); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	res, err := s.engagementService.ToggleLike(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(res)
}

// PostLikers handles GET /api/posts/:id/likes
func (s *Server) PostLikers(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.engagementService.PostLikers(c.UserContext(), postID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(orEmpty(users))
}

// ToggleBookmark handles POST /api/posts/:id/bookmark
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	res, err := s.engagementService.ToggleBookmark(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(res)
}

// ListBookmarks handles GET /api/bookmarks
func (s *Server) ListBookmarks(c *fiber.Ctx) error {
	posts, err := s.engagementService.ListBookmarks(c.UserContext(), currentUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(orEmpty(posts))
}

// ToggleFollow handles POST /api/profiles/:id/follow
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	profileID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	res, err := s.engagementService.ToggleFollow(c.UserContext(), currentUserID(c), profileID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(res)
}

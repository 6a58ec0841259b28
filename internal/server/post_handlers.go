package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// HomeFeed handles GET /api/posts
func (s *Server) HomeFeed(c *fiber.Ctx) error {
	posts, err := s.postService.HomeFeed(c.UserContext(), currentUserID(c), parsePage(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(orEmpty(posts))
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  currentUserID(c),
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.Search(c.UserContext(), c.Query("q"), parsePage(c), currentUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(orEmpty(posts))
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  id,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UserPosts handles GET /api/users/:username/posts
func (s *Server) UserPosts(c *fiber.Ctx) error {
	page, err := s.postService.UserPosts(c.UserContext(), c.Params("username"), parsePage(c), currentUserID(c))
	if err != nil {
		return respond(c, err)
	}
	page.Posts = orEmpty(page.Posts)
	page.Followers = orEmpty(page.Followers)
	page.Following = orEmpty(page.Following)
	return c.JSON(page)
}

// MostLikedPosts handles GET /api/posts/most-liked
func (s *Server) MostLikedPosts(c *fiber.Ctx) error {
	posts, err := s.leaderboardService.MostLikedPosts(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(orEmpty(posts))
}

// MostLikedAuthors handles GET /api/authors/most-liked
func (s *Server) MostLikedAuthors(c *fiber.Ctx) error {
	authors, err := s.leaderboardService.MostLikedAuthors(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(orEmpty(authors))
}

package handlers

import (
	"net/http"

	"posts-api/internal/models"
	"posts-api/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CreatePostHandler handles POST /posts
func CreatePostHandler(postService *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreatePostRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c, "creating post")
		}

		post, err := postService.Create(c.Context(), req)
		if err != nil {
			return respondError(c, "creating post", err)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Post created", "post": post})
	}
}

// ListPostsHandler handles GET /posts?sortBy=&order=&page=&limit=&min=&max=
func ListPostsHandler(postService *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := postService.List(c.Context(), services.ListParams{
			SortBy: c.Query("sortBy"),
			Order:  c.Query("order"),
			Page:   c.Query("page"),
			Limit:  c.Query("limit"),
			Min:    c.Query("min"),
			Max:    c.Query("max"),
		})
		if err != nil {
			return respondError(c, "fetching posts", err)
		}
		return c.JSON(page)
	}
}

// GetPostHandler handles GET /posts/:id
func GetPostHandler(postService *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		post, err := postService.Get(c.Context(), c.Params("id"))
		if err != nil {
			return respondError(c, "fetching post", err)
		}
		return c.JSON(fiber.Map{"post": post})
	}
}

// UpdatePostHandler handles PUT /posts/:id with any subset of the post fields
func UpdatePostHandler(postService *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdatePostRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c, "updating post")
		}

		post, err := postService.Update(c.Context(), c.Params("id"), req)
		if err != nil {
			return respondError(c, "updating post", err)
		}
		return c.JSON(fiber.Map{"message": "Post updated", "updatedPost": post})
	}
}

// DeletePostHandler handles DELETE /posts/:id
func DeletePostHandler(postService *services.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		post, err := postService.Delete(c.Context(), c.Params("id"))
		if err != nil {
			return respondError(c, "deleting post", err)
		}
		return c.JSON(fiber.Map{"message": "Post deleted", "deletedPost": post})
	}
}

// Package server exposes a post store over HTTP for a card-list front end.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gouniverse/poststore"
	"github.com/gouniverse/poststore/mcp"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Options struct {
	Store  poststore.StoreInterface
	Images poststore.ImageRegistryInterface
	Logger *zap.Logger
}

type postResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageUrl    string `json:"imageUrl"`
	FullContent string `json:"fullContent"`
	Expanded    bool   `json:"expanded"`
}

type postsResponse struct {
	Posts      []postResponse `json:"posts"`
	ExpandedID *int           `json:"expandedId"`
	Theme      string         `json:"theme"`
}

// NewApp builds the fiber app. Mutations go through the JSON-RPC tools at /mcp.
func NewApp(opts Options) (*fiber.App, error) {
	if opts.Store == nil {
		return nil, errors.New("server: Store is required")
	}

	if opts.Images == nil {
		return nil, errors.New("server: Images is required")
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "poststore",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(opts.Logger))

	app.Get("/api/posts", listPosts(opts.Store))
	app.Get("/images", serveImage(opts.Images))
	app.Post("/mcp", adaptor.HTTPHandlerFunc(mcp.NewMCP(opts.Store).Handler))

	return app, nil
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Info("request",
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))

		return err
	}
}

func listPosts(store poststore.StoreInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expanded := store.ExpandedState()

		resp := postsResponse{
			Posts: lo.Map(store.PostList(), func(post poststore.Post, _ int) postResponse {
				return postResponse{
					ID:          post.ID(),
					Title:       post.Title(),
					Description: post.Description(),
					ImageUrl:    post.ImageUrl(),
					FullContent: post.FullContent(),
					Expanded:    expanded.IsExpanded(post.ID()),
				}
			}),
			ExpandedID: lo.Ternary(expanded.Expanded, lo.ToPtr(expanded.PostID), nil),
			Theme:      store.ThemeGet(c.UserContext()).String(),
		}

		return c.JSON(resp)
	}
}

// serveImage resolves a transient image reference passed as ?ref=.
func serveImage(images poststore.ImageRegistryInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := c.Query("ref")
		if ref == "" {
			return fiber.NewError(http.StatusBadRequest, "ref is required")
		}

		data, contentType, ok := images.Resolve(ref)
		if !ok {
			return fiber.NewError(http.StatusNotFound, "image not found")
		}

		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Send(data)
	}
}

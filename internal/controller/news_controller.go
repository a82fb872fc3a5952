package controller

import (
	"news-agent-be/internal/pkg/serverutils"
	"news-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INewsController interface {
	RegisterRoutes(r fiber.Router)
	GetHeadlines(ctx *fiber.Ctx) error
}

type newsController struct {
	newsService service.INewsService
}

func NewNewsController(newsService service.INewsService) INewsController {
	return &newsController{newsService: newsService}
}

func (c *newsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/news/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("headlines", c.GetHeadlines)
}

func (c *newsController) GetHeadlines(ctx *fiber.Ctx) error {
	country := ctx.Query("country", "us")
	category := ctx.Query("category", "")
	limit := ctx.QueryInt("limit", 5)
	if limit < 1 || limit > 20 {
		limit = 5
	}

	res, err := c.newsService.GetHeadlines(ctx.Context(), country, category, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get headlines", res))
}

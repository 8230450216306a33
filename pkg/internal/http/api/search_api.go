package api

import (
	"github.com/gofiber/fiber/v2"
)

func doSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if len(query) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "query is required")
	}

	return c.JSON(deps.Search.Search(query))
}

func getSearchHistory(c *fiber.Ctx) error {
	return c.JSON(deps.Search.History())
}

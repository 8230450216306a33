package api

import (
	"github.com/centrohq/centro/pkg/internal/http/exts"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

func getCategorization(c *fiber.Ctx) error {
	return c.JSON(deps.Engine.Categorization())
}

func setCategorization(c *fiber.Ctx) error {
	var data struct {
		Enabled    bool                `json:"enabled"`
		Categories []string            `json:"categories"`
		Keywords   map[string][]string `json:"keywords"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	var config models.CategorizationConfig
	models.FitStruct(data, &config)
	deps.Engine.SetCategorization(config)
	return c.JSON(config)
}

func listWorkflowRule(c *fiber.Ctx) error {
	return c.JSON(deps.Engine.Rules())
}

func createWorkflowRule(c *fiber.Ctx) error {
	var data struct {
		Name      string `json:"name" validate:"required"`
		Condition string `json:"condition" validate:"required"`
		Action    string `json:"action" validate:"required"`
		Priority  int    `json:"priority"`
		Enabled   bool   `json:"enabled"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	rule := deps.Engine.AddRule(models.WorkflowRule{
		Name:      data.Name,
		Condition: data.Condition,
		Action:    data.Action,
		Priority:  data.Priority,
		Enabled:   data.Enabled,
	})
	return c.JSON(rule)
}

func setWorkflowRuleEnabled(c *fiber.Ctx) error {
	var data struct {
		Enabled bool `json:"enabled"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := deps.Engine.SetRuleEnabled(c.Params("ruleId"), data.Enabled); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func deleteWorkflowRule(c *fiber.Ctx) error {
	if err := deps.Engine.RemoveRule(c.Params("ruleId")); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func listAutoResponse(c *fiber.Ctx) error {
	return c.JSON(deps.Engine.Responses())
}

func createAutoResponse(c *fiber.Ctx) error {
	var data struct {
		Trigger  string `json:"trigger" validate:"required"`
		Response string `json:"response" validate:"required"`
		Enabled  bool   `json:"enabled"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	response := deps.Engine.AddResponse(models.AutoResponse{
		Trigger:  data.Trigger,
		Response: data.Response,
		Enabled:  data.Enabled,
	})
	return c.JSON(response)
}

func setAutoResponseEnabled(c *fiber.Ctx) error {
	var data struct {
		Enabled bool `json:"enabled"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := deps.Engine.SetResponseEnabled(c.Params("responseId"), data.Enabled); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func deleteAutoResponse(c *fiber.Ctx) error {
	if err := deps.Engine.RemoveResponse(c.Params("responseId")); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

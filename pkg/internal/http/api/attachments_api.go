package api

import (
	"encoding/base64"

	"github.com/centrohq/centro/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func getFilePreview(c *fiber.Ctx) error {
	preview, ok := deps.Picker.Preview()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no file selected")
	}
	return c.JSON(preview)
}

func selectFile(c *fiber.Ctx) error {
	var data struct {
		FileName string `json:"file_name" validate:"required"`
		MimeType string `json:"mime_type" validate:"required"`
		Content  string `json:"content" validate:"required,base64"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(data.Content)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	deps.Picker.Select(data.FileName, data.MimeType, raw)

	preview, _ := deps.Picker.Preview()
	return c.JSON(preview)
}

func clearFilePreview(c *fiber.Ctx) error {
	deps.Picker.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}

func confirmUpload(c *fiber.Ctx) error {
	var data struct {
		ChannelID string `json:"channel_id" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if _, err := deps.Directory.Get(data.ChannelID); err != nil {
		return channelError(err)
	}

	message, err := deps.Picker.Confirm(data.ChannelID, currentUser(c))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "no file selected")
	}

	message, err = deps.Store.AppendFile(message)
	if err != nil {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"data":    message,
			"warning": err.Error(),
		})
	}
	return c.JSON(message)
}

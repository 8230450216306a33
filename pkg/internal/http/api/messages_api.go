package api

import (
	"errors"

	"github.com/centrohq/centro/pkg/internal/http/exts"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/centrohq/centro/pkg/internal/store"
	"github.com/gofiber/fiber/v2"
)

func listMessage(c *fiber.Ctx) error {
	channelId := c.Params("channelId")
	if _, err := deps.Directory.Get(channelId); err != nil {
		return channelError(err)
	}

	deps.Store.Hydrate(channelId)
	messages := deps.Store.List(channelId)

	return c.JSON(fiber.Map{
		"count": len(messages),
		"data":  messages,
	})
}

func listPinnedMessage(c *fiber.Ctx) error {
	channelId := c.Params("channelId")
	if _, err := deps.Directory.Get(channelId); err != nil {
		return channelError(err)
	}

	return c.JSON(deps.Store.Pinned(channelId))
}

func newMessage(c *fiber.Ctx) error {
	channelId := c.Params("channelId")
	channel, err := deps.Directory.Get(channelId)
	if err != nil {
		return channelError(err)
	}
	if !channel.HasMember(currentUser(c)) {
		return fiber.NewError(fiber.StatusForbidden, "you are not a member of this channel")
	}

	var data struct {
		Content  string   `json:"content" validate:"required"`
		Kind     string   `json:"kind"`
		Mentions []string `json:"mentions"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	message, err := deps.Store.Send(store.Draft{
		ChannelID:     channelId,
		SenderID:      currentUser(c),
		SenderDisplay: currentUserDisplay(c),
		Content:       data.Content,
		Kind:          data.Kind,
		Mentions:      data.Mentions,
	})
	return respondMessage(c, message, err)
}

func replyMessage(c *fiber.Ctx) error {
	channelId := c.Params("channelId")
	if _, err := deps.Directory.Get(channelId); err != nil {
		return channelError(err)
	}

	var data struct {
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	message, err := deps.Store.Reply(c.Params("messageId"), store.Draft{
		ChannelID:     channelId,
		SenderID:      currentUser(c),
		SenderDisplay: currentUserDisplay(c),
		Content:       data.Content,
	})
	return respondMessage(c, message, err)
}

func editMessage(c *fiber.Ctx) error {
	var data struct {
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	message, err := deps.Store.Edit(c.Params("messageId"), currentUser(c), data.Content)
	if err != nil {
		return messageError(err)
	}
	return c.JSON(message)
}

func deleteMessage(c *fiber.Ctx) error {
	if err := deps.Store.Delete(c.Params("messageId")); err != nil {
		return messageError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toggleMessagePin(c *fiber.Ctx) error {
	message, err := deps.Store.TogglePin(c.Params("messageId"))
	if err != nil {
		return messageError(err)
	}
	return c.JSON(message)
}

func listVoiceMessage(c *fiber.Ctx) error {
	return c.JSON(deps.Store.ListVoices(c.Params("channelId")))
}

func listFileMessage(c *fiber.Ctx) error {
	return c.JSON(deps.Store.ListFiles(c.Params("channelId")))
}

// respondMessage reflects the optimistic append contract: a persistence
// write failure still returns the locally appended message, flagged so
// the client can toast about it.
func respondMessage(c *fiber.Ctx, message models.ChatMessage, err error) error {
	if err == nil {
		return c.JSON(message)
	}
	if errors.Is(err, store.ErrPersistenceWrite) {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"data":    message,
			"warning": err.Error(),
		})
	}
	return messageError(err)
}

func messageError(err error) error {
	switch {
	case errors.Is(err, store.ErrMessageNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNotSender):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrInvalidOperation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

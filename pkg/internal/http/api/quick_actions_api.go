package api

import (
	"github.com/centrohq/centro/pkg/internal/http/exts"
	"github.com/centrohq/centro/pkg/internal/store"
	"github.com/gofiber/fiber/v2"
)

// quickReply lets a notification surface answer a message with only a
// signed token, no console session required.
func quickReply(c *fiber.Ctx) error {
	claims, err := store.ParseReplyToken(c.Params("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	var data struct {
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	parent, err := deps.Store.Get(claims.MessageID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	display := claims.UserID
	if account, ok := deps.Directory.GetUser(claims.UserID); ok {
		display = account.Name
	}

	message, err := deps.Store.Reply(parent.ID, store.Draft{
		ChannelID:     parent.ChannelID,
		SenderID:      claims.UserID,
		SenderDisplay: display,
		Content:       data.Content,
	})
	return respondMessage(c, message, err)
}

// createReplyToken mints the signed token a notification hands to its
// quick-reply action.
func createReplyToken(c *fiber.Ctx) error {
	message, err := deps.Store.Get(c.Params("messageId"))
	if err != nil {
		return messageError(err)
	}

	token, err := store.CreateReplyToken(message.ID, currentUser(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"token": token})
}

func listUsers(c *fiber.Ctx) error {
	return c.JSON(deps.Directory.Users())
}

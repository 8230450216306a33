package api

import (
	"errors"

	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/directory"
	"github.com/centrohq/centro/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func listChannel(c *fiber.Ctx) error {
	channels := deps.Directory.List(directory.Filter{
		Text: c.Query("text"),
		Kind: c.Query("kind"),
	})

	return c.JSON(fiber.Map{
		"count": len(channels),
		"data":  channels,
	})
}

func getChannel(c *fiber.Ctx) error {
	channel, err := deps.Directory.Select(c.Params("channelId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	deps.Store.Hydrate(channel.ID)

	return c.JSON(fiber.Map{
		"data":         channel,
		"member_names": deps.Directory.MemberNames(channel),
	})
}

func openDirectChannel(c *fiber.Ctx) error {
	var data struct {
		RelatedUser string `json:"related_user" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if _, ok := deps.Directory.GetUser(data.RelatedUser); !ok {
		return fiber.NewError(fiber.StatusBadRequest, "unable to find related user")
	}

	channel := deps.Directory.OpenDirect(currentUser(c), data.RelatedUser)
	return c.JSON(channel)
}

func toggleChannelPinned(c *fiber.Ctx) error {
	channel, err := deps.Directory.TogglePinned(c.Params("channelId"))
	if err != nil {
		return channelError(err)
	}
	return c.JSON(channel)
}

func toggleChannelMuted(c *fiber.Ctx) error {
	channel, err := deps.Directory.ToggleMuted(c.Params("channelId"))
	if err != nil {
		return channelError(err)
	}
	return c.JSON(channel)
}

func setTypingStatus(c *fiber.Ctx) error {
	channel, err := deps.Directory.Get(c.Params("channelId"))
	if err != nil {
		return channelError(err)
	}

	deps.Store.Bus().Publish(bus.TopicTypingStatus, fiber.Map{
		"channel_id": channel.ID,
		"user_id":    currentUser(c),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func channelError(err error) error {
	if errors.Is(err, directory.ErrChannelNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

package api

import (
	"github.com/centrohq/centro/pkg/internal/http/exts"
	"github.com/centrohq/centro/pkg/internal/store"
	"github.com/gofiber/fiber/v2"
)

func getComposerState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"text":         deps.Composer.Text(),
		"cursor":       deps.Composer.Cursor(),
		"can_submit":   deps.Composer.CanSubmit(),
		"mention_open": deps.Composer.MentionOpen(),
		"mentions":     deps.Composer.MentionSuggestions(),
		"phrases":      deps.Composer.PhraseSuggestions(),
		"index":        deps.Composer.SelectedIndex(),
	})
}

func setComposerText(c *fiber.Ctx) error {
	var data struct {
		Text   string `json:"text"`
		Cursor int    `json:"cursor"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	deps.Composer.SetText(data.Text, data.Cursor)
	return getComposerState(c)
}

func setComposerSelection(c *fiber.Ctx) error {
	var data struct {
		Start  int  `json:"start"`
		End    int  `json:"end"`
		Active bool `json:"active"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if data.Active {
		deps.Selection.Set(data.Start, data.End)
	} else {
		deps.Selection.Clear()
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// pressComposerKey relays suggestion navigation keys: arrows move the
// wrapping index, enter and tab commit, escape dismisses.
func pressComposerKey(c *fiber.Ctx) error {
	var data struct {
		Key string `json:"key" validate:"required,oneof=up down enter tab escape"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	switch data.Key {
	case "up":
		deps.Composer.MoveUp()
	case "down":
		deps.Composer.MoveDown()
	case "enter", "tab":
		deps.Composer.Commit()
	case "escape":
		deps.Composer.Dismiss()
	}
	return getComposerState(c)
}

func applyComposerStyle(c *fiber.Ctx) error {
	var data struct {
		Style string `json:"style" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	// Styling without a selection is a no-op at the engine boundary.
	deps.Composer.ApplyStyle(data.Style)
	return getComposerState(c)
}

func triggerAutocomplete(c *fiber.Ctx) error {
	deps.Composer.TriggerAutocomplete()
	return getComposerState(c)
}

func submitDraft(c *fiber.Ctx) error {
	var data struct {
		ChannelID string `json:"channel_id" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if _, err := deps.Directory.Get(data.ChannelID); err != nil {
		return channelError(err)
	}
	if !deps.Composer.CanSubmit() {
		return fiber.NewError(fiber.StatusBadRequest, "the draft is empty")
	}

	content, mentions := deps.Composer.ConsumeDraft()
	message, err := deps.Store.Send(store.Draft{
		ChannelID:     data.ChannelID,
		SenderID:      currentUser(c),
		SenderDisplay: currentUserDisplay(c),
		Content:       content,
		Mentions:      mentions,
	})
	return respondMessage(c, message, err)
}

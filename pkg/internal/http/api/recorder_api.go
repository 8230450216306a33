package api

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/centrohq/centro/pkg/internal/attach"
	"github.com/centrohq/centro/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func getRecorderState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"state": deps.Recorder.State()})
}

func startRecording(c *fiber.Ctx) error {
	if err := deps.Recorder.Start(c.Context()); err != nil {
		if errors.Is(err, attach.ErrPermissionDenied) {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return getRecorderState(c)
}

func stopRecording(c *fiber.Ctx) error {
	if err := deps.Recorder.Stop(); err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return getRecorderState(c)
}

func cancelRecording(c *fiber.Ctx) error {
	deps.Recorder.Cancel()
	return getRecorderState(c)
}

func sendRecording(c *fiber.Ctx) error {
	var data struct {
		ChannelID string `json:"channel_id" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if _, err := deps.Directory.Get(data.ChannelID); err != nil {
		return channelError(err)
	}

	message, err := deps.Recorder.Send(data.ChannelID, currentUser(c))
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	message, err = deps.Store.AppendVoice(message)
	if err != nil {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"data":    message,
			"warning": err.Error(),
		})
	}
	return c.JSON(message)
}

func pushAudioChunk(c *fiber.Ctx) error {
	var data struct {
		Chunk string `json:"chunk" validate:"required,base64"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(data.Chunk)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	deps.Bridge.PushChunk(raw)
	return c.SendStatus(fiber.StatusNoContent)
}

func pushTranscript(c *fiber.Ctx) error {
	var data struct {
		Text    string `json:"text" validate:"required"`
		IsFinal bool   `json:"is_final"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	deps.Bridge.PushResult(data.Text, data.IsFinal)
	return c.SendStatus(fiber.StatusNoContent)
}

func setMicrophonePermission(c *fiber.Ctx) error {
	var data struct {
		Denied bool `json:"denied"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	deps.Bridge.SetDenied(data.Denied)
	return c.SendStatus(fiber.StatusNoContent)
}

func readArtifact(c *fiber.Ctx) error {
	ref := strings.TrimPrefix(c.Params("*"), "/")
	data, ok := deps.Recorder.Artifact("voice/" + ref)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "audio artifact not found")
	}
	c.Set(fiber.HeaderContentType, "audio/webm")
	return c.Send(data)
}

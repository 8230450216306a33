package api

import (
	"github.com/centrohq/centro/pkg/internal/attach"
	"github.com/centrohq/centro/pkg/internal/automation"
	"github.com/centrohq/centro/pkg/internal/compose"
	"github.com/centrohq/centro/pkg/internal/directory"
	"github.com/centrohq/centro/pkg/internal/search"
	"github.com/centrohq/centro/pkg/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

// Deps carries the core services the handlers operate on.
type Deps struct {
	Directory *directory.Directory
	Store     *store.Store
	Engine    *automation.Engine
	Search    *search.Service
	Composer  *compose.Composer
	Selection *compose.SelectionState
	Recorder  *attach.Recorder
	Bridge    *attach.Bridge
	Picker    *attach.FilePicker
}

var deps Deps

func MapAPIs(app *fiber.App, baseURL string, d Deps) {
	deps = d

	api := app.Group(baseURL).Name("API")
	{
		quick := api.Group("/quick")
		{
			quick.Post("/reply/:token", quickReply)
		}

		api.Get("/users", listUsers)

		channels := api.Group("/channels").Name("Channels API")
		{
			channels.Get("/", listChannel)
			channels.Post("/dm", openDirectChannel)
			channels.Get("/:channelId", getChannel)
			channels.Post("/:channelId/pin", toggleChannelPinned)
			channels.Post("/:channelId/mute", toggleChannelMuted)
			channels.Post("/:channelId/typing", setTypingStatus)

			channels.Get("/:channelId/messages", listMessage)
			channels.Post("/:channelId/messages", newMessage)
			channels.Put("/:channelId/messages/:messageId", editMessage)
			channels.Delete("/:channelId/messages/:messageId", deleteMessage)
			channels.Post("/:channelId/messages/:messageId/pin", toggleMessagePin)
			channels.Post("/:channelId/messages/:messageId/replies", replyMessage)
			channels.Post("/:channelId/messages/:messageId/reply-token", createReplyToken)
			channels.Get("/:channelId/messages/pins", listPinnedMessage)

			channels.Get("/:channelId/voices", listVoiceMessage)
			channels.Get("/:channelId/files", listFileMessage)
		}

		composer := api.Group("/composer").Name("Composer API")
		{
			composer.Get("/", getComposerState)
			composer.Put("/", setComposerText)
			composer.Put("/selection", setComposerSelection)
			composer.Post("/keys", pressComposerKey)
			composer.Post("/style", applyComposerStyle)
			composer.Post("/autocomplete", triggerAutocomplete)
			composer.Post("/submit", submitDraft)
		}

		recorder := api.Group("/recorder").Name("Recorder API")
		{
			recorder.Get("/", getRecorderState)
			recorder.Post("/start", startRecording)
			recorder.Post("/stop", stopRecording)
			recorder.Post("/cancel", cancelRecording)
			recorder.Post("/send", sendRecording)
			recorder.Post("/chunks", pushAudioChunk)
			recorder.Post("/transcripts", pushTranscript)
			recorder.Put("/permission", setMicrophonePermission)
			recorder.Get("/artifacts/*", readArtifact)
		}

		attachments := api.Group("/attachments").Name("Attachments API")
		{
			attachments.Get("/preview", getFilePreview)
			attachments.Post("/preview", selectFile)
			attachments.Delete("/preview", clearFilePreview)
			attachments.Post("/confirm", confirmUpload)
		}

		api.Get("/search", doSearch)
		api.Get("/search/history", getSearchHistory)

		automations := api.Group("/automation").Name("Automation API")
		{
			automations.Get("/categorization", getCategorization)
			automations.Put("/categorization", setCategorization)
			automations.Get("/rules", listWorkflowRule)
			automations.Post("/rules", createWorkflowRule)
			automations.Put("/rules/:ruleId/enabled", setWorkflowRuleEnabled)
			automations.Delete("/rules/:ruleId", deleteWorkflowRule)
			automations.Get("/responses", listAutoResponse)
			automations.Post("/responses", createAutoResponse)
			automations.Put("/responses/:responseId/enabled", setAutoResponseEnabled)
			automations.Delete("/responses/:responseId", deleteAutoResponse)
		}
	}
}

// currentUser resolves the acting user. The console is single-client;
// the header is only there so tooling can impersonate during debugging.
func currentUser(c *fiber.Ctx) string {
	if user := c.Get("X-Console-User"); len(user) > 0 {
		return user
	}
	return viper.GetString("console.user_id")
}

func currentUserDisplay(c *fiber.Ctx) string {
	user := currentUser(c)
	if account, ok := deps.Directory.GetUser(user); ok {
		return account.Name
	}
	return user
}

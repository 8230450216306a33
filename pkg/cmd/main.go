package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	centro "github.com/centrohq/centro/pkg"
	"github.com/centrohq/centro/pkg/internal/attach"
	"github.com/centrohq/centro/pkg/internal/automation"
	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/compose"
	"github.com/centrohq/centro/pkg/internal/database"
	"github.com/centrohq/centro/pkg/internal/directory"
	"github.com/centrohq/centro/pkg/internal/http"
	"github.com/centrohq/centro/pkg/internal/http/api"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/centrohq/centro/pkg/internal/search"
	"github.com/centrohq/centro/pkg/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetDefault("bind", "0.0.0.0:8447")
	viper.SetDefault("console.user_id", "me")
	viper.SetDefault("messaging.auto_response_delay_ms", 1500)
	viper.SetDefault("messaging.search_history_limit", 10)

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewSource(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Wire the messaging core
	eventBus := bus.New()
	persist := database.NewPersistence(database.C)

	dir := directory.New(eventBus)
	seedDirectory(dir, persist)

	delay := time.Duration(viper.GetInt("messaging.auto_response_delay_ms")) * time.Millisecond
	engine := automation.NewEngine(eventBus, delay)
	seedAutomation(engine)

	messages := store.New(dir, engine, persist, eventBus)

	selection := &compose.SelectionState{}
	composer := compose.New(dir.Users(), viper.GetStringSlice("messaging.phrases"), selection)

	bridge := attach.NewBridge()
	recorder := attach.NewRecorder(bridge, bridge, eventBus)
	picker := attach.NewFilePicker(attach.DataURLs{}, eventBus)

	retrieval := search.New(messages, viper.GetInt("messaging.search_history_limit"))

	// Server
	http.NewServer(api.Deps{
		Directory: dir,
		Store:     messages,
		Engine:    engine,
		Search:    retrieval,
		Composer:  composer,
		Selection: selection,
		Recorder:  recorder,
		Bridge:    bridge,
		Picker:    picker,
	})
	go http.Listen()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", database.DoAutoDatabaseCleanup)
	quartz.Start()

	log.Info().Msgf("Centro v%s is started...", centro.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("Centro v%s is quitting...", centro.AppVersion)

	quartz.Stop()
}

// seedDirectory loads the channel catalog from persistence and falls
// back to the default workspace set when the database is empty.
func seedDirectory(dir *directory.Directory, persist *database.Persistence) {
	for _, user := range []models.User{
		{ID: "me", Name: "Ayşe Yıldız", Role: "Yönetici"},
		{ID: "u-baris", Name: "Barış Demir", Role: "Destek"},
		{ID: "u-cem", Name: "Cem Kaya", Role: "Muhasebe"},
		{ID: "u-derya", Name: "Derya Şahin", Role: "İnsan Kaynakları"},
	} {
		dir.AddUser(user)
	}

	channels, err := persist.ListChannels()
	if err != nil {
		log.Warn().Err(err).Msg("Unable to load channels, seeding defaults...")
	}
	if len(channels) == 0 {
		channels = []models.Channel{
			{ID: "general", Name: "Genel", Description: "Şirket geneli duyurular ve sohbet", Kind: models.ChannelKindPublic, Members: []string{"me", "u-baris", "u-cem", "u-derya"}},
			{ID: "destek", Name: "Destek", Description: "Müşteri destek ekibi", Kind: models.ChannelKindPrivate, Members: []string{"me", "u-baris"}},
			{ID: "muhasebe", Name: "Muhasebe", Description: "Fatura ve ödeme takibi", Kind: models.ChannelKindPrivate, Members: []string{"me", "u-cem"}},
		}
		for _, channel := range channels {
			if err := persist.SaveChannel(channel); err != nil {
				log.Warn().Err(err).Str("channel", channel.ID).Msg("Unable to persist seeded channel...")
			}
		}
	}
	for _, channel := range channels {
		dir.AddChannel(channel)
	}
}

func seedAutomation(engine *automation.Engine) {
	engine.SetCategorization(models.CategorizationConfig{
		Enabled:    true,
		Categories: []string{"destek", "fatura", "proje"},
		Keywords: map[string][]string{
			"destek": {"yardım", "sorun", "hata"},
			"fatura": {"fatura", "ödeme", "tahsilat"},
			"proje":  {"proje", "teslim", "planlama"},
		},
	})
	engine.AddRule(models.WorkflowRule{
		ID:        "rule-urgent",
		Name:      "Acil mesajları önceliklendir",
		Condition: `"acil","hemen"`,
		Action:    "mark_priority",
		Priority:  10,
		Enabled:   true,
	})
	engine.AddRule(models.WorkflowRule{
		ID:        "rule-support",
		Name:      "Destek taleplerini yönlendir",
		Condition: "yardım",
		Action:    "forward_to_support",
		Priority:  5,
		Enabled:   true,
	})
	engine.AddResponse(models.AutoResponse{
		ID:       "resp-support",
		Trigger:  "yardım",
		Response: "Destek ekibine yönlendirildiniz",
		Enabled:  true,
	})
}

package automation

import (
	"testing"
	"time"

	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	engine := NewEngine(bus.New(), 5*time.Millisecond)
	engine.SetCategorization(models.CategorizationConfig{
		Enabled:    true,
		Categories: []string{"destek", "fatura"},
		Keywords: map[string][]string{
			"destek": {"yardım", "sorun"},
			"fatura": {"fatura", "ödeme"},
		},
	})
	return engine
}

func evaluate(engine *Engine, content string) Outcome {
	return engine.Evaluate(models.ChatMessage{
		ID:        "m1",
		ChannelID: "general",
		SenderID:  "me",
		Content:   content,
	}, func(models.AutoResponse) {})
}

func TestCategorizationFirstMatchWins(t *testing.T) {
	engine := newTestEngine()

	// Both categories have hits; the first configured category wins.
	outcome := evaluate(engine, "Fatura için yardım lazım")
	assert.Equal(t, "destek", outcome.Category)

	outcome = evaluate(engine, "Ödeme gecikti")
	assert.Equal(t, "fatura", outcome.Category)

	outcome = evaluate(engine, "Günaydın herkese")
	assert.Equal(t, models.CategoryDefault, outcome.Category)
}

func TestCategorizationIsDeterministic(t *testing.T) {
	engine := newTestEngine()

	for i := 0; i < 10; i++ {
		outcome := evaluate(engine, "yardım lütfen")
		assert.Equal(t, "destek", outcome.Category)
	}
}

func TestCategorizationDisabled(t *testing.T) {
	engine := newTestEngine()
	engine.SetCategorization(models.CategorizationConfig{Enabled: false})

	outcome := evaluate(engine, "yardım lütfen")
	assert.Equal(t, models.CategoryDefault, outcome.Category)
}

func TestRoutingFiresAtMostOneRule(t *testing.T) {
	engine := newTestEngine()

	var fired []string
	record := func(name string) ActionFunc {
		return func(models.ChatMessage, models.WorkflowRule) {
			fired = append(fired, name)
		}
	}
	engine.RegisterAction("low", record("low"))
	engine.RegisterAction("high", record("high"))

	engine.AddRule(models.WorkflowRule{ID: "r-low", Condition: "acil", Action: "low", Priority: 1, Enabled: true})
	engine.AddRule(models.WorkflowRule{ID: "r-high", Condition: "acil", Action: "high", Priority: 9, Enabled: true})

	outcome := evaluate(engine, "acil durum var")
	require.NotNil(t, outcome.RuleFired)
	assert.Equal(t, "r-high", *outcome.RuleFired)
	assert.Equal(t, []string{"high"}, fired)
}

func TestRoutingTiesBrokenByConfigurationOrder(t *testing.T) {
	engine := newTestEngine()

	var fired []string
	record := func(name string) ActionFunc {
		return func(models.ChatMessage, models.WorkflowRule) {
			fired = append(fired, name)
		}
	}
	engine.RegisterAction("first", record("first"))
	engine.RegisterAction("second", record("second"))

	engine.AddRule(models.WorkflowRule{ID: "r-1", Condition: "acil", Action: "first", Priority: 5, Enabled: true})
	engine.AddRule(models.WorkflowRule{ID: "r-2", Condition: "acil", Action: "second", Priority: 5, Enabled: true})

	outcome := evaluate(engine, "acil")
	require.NotNil(t, outcome.RuleFired)
	assert.Equal(t, "r-1", *outcome.RuleFired)
	assert.Equal(t, []string{"first"}, fired)
}

func TestRoutingSkipsDisabledRules(t *testing.T) {
	engine := newTestEngine()
	engine.AddRule(models.WorkflowRule{ID: "r-off", Condition: "acil", Action: "mark_priority", Priority: 9, Enabled: false})

	outcome := evaluate(engine, "acil")
	assert.Nil(t, outcome.RuleFired)
}

func TestRoutingUnknownActionIsNotFatal(t *testing.T) {
	engine := newTestEngine()
	engine.AddRule(models.WorkflowRule{ID: "r-odd", Condition: "acil", Action: "does_not_exist", Priority: 1, Enabled: true})

	outcome := evaluate(engine, "acil")
	require.NotNil(t, outcome.RuleFired)
	assert.Equal(t, "r-odd", *outcome.RuleFired)
}

func TestAutoResponseFirstTriggerWins(t *testing.T) {
	engine := newTestEngine()
	engine.AddResponse(models.AutoResponse{ID: "a-1", Trigger: "yardım", Response: "Destek ekibine yönlendirildiniz", Enabled: true})
	engine.AddResponse(models.AutoResponse{ID: "a-2", Trigger: "lütfen", Response: "İkinci cevap", Enabled: true})

	responses := make(chan models.AutoResponse, 1)
	outcome := engine.Evaluate(models.ChatMessage{Content: "yardım lütfen"}, func(response models.AutoResponse) {
		responses <- response
	})
	assert.True(t, outcome.AutoResponded)

	select {
	case response := <-responses:
		assert.Equal(t, "a-1", response.ID)
		assert.Equal(t, "Destek ekibine yönlendirildiniz", response.Response)
	case <-time.After(time.Second):
		t.Fatal("auto-response never arrived")
	}
}

func TestAutoResponseSkipsDisabled(t *testing.T) {
	engine := newTestEngine()
	engine.AddResponse(models.AutoResponse{ID: "a-off", Trigger: "yardım", Response: "kapalı", Enabled: false})

	outcome := engine.Evaluate(models.ChatMessage{Content: "yardım"}, func(models.AutoResponse) {
		t.Fatal("disabled auto-response fired")
	})
	assert.False(t, outcome.AutoResponded)
	time.Sleep(20 * time.Millisecond)
}

func TestMatchCondition(t *testing.T) {
	cases := []struct {
		condition string
		content   string
		expected  bool
	}{
		{"acil", "bu acil bir durum", true},
		{"acil", "sakin bir gün", false},
		{`"acil","hemen"`, "hemen bakın", true},
		{`"acil","hemen"`, "yarın bakarız", false},
		{"", "her şey", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, MatchCondition(tc.condition, tc.content), "condition %q against %q", tc.condition, tc.content)
	}
}

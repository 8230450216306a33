package automation

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/centrohq/centro/pkg/internal/bus"
	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ActionFunc executes a workflow rule action against the message that
// triggered it.
type ActionFunc func(message models.ChatMessage, rule models.WorkflowRule)

// Outcome summarizes one evaluation pass over a sent message.
type Outcome struct {
	Category      string  `json:"category"`
	RuleFired     *string `json:"rule_fired,omitempty"`
	AutoResponded bool    `json:"auto_responded"`
}

// Engine runs the three evaluators (categorization, workflow routing,
// auto-response) against every newly sent message. Configuration is only
// written through the settings mutators and is read-only during
// evaluation, so each pass is deterministic.
type Engine struct {
	mtx sync.RWMutex

	categorization models.CategorizationConfig
	rules          []models.WorkflowRule
	responses      []models.AutoResponse

	actions map[string]ActionFunc
	delay   time.Duration
	bus     *bus.Bus
}

func NewEngine(eventBus *bus.Bus, responseDelay time.Duration) *Engine {
	e := &Engine{
		categorization: models.CategorizationConfig{Enabled: true},
		actions:        make(map[string]ActionFunc),
		delay:          responseDelay,
		bus:            eventBus,
	}

	// Built-in actions only raise bus notifications; the panels decide
	// what routing means for them.
	for _, name := range []string{"forward_to_support", "mark_priority", "notify_manager", "archive"} {
		action := name
		e.actions[action] = func(message models.ChatMessage, rule models.WorkflowRule) {
			eventBus.Publish(bus.TopicWorkflowTriggered, map[string]any{
				"action":     action,
				"rule_id":    rule.ID,
				"message_id": message.ID,
			})
		}
	}

	return e
}

// RegisterAction makes a custom action name executable by workflow rules.
func (e *Engine) RegisterAction(name string, fn ActionFunc) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.actions[name] = fn
}

// Evaluate runs all three evaluators. They are independent: a category
// hit never suppresses routing or the auto-response. The respond callback
// fires after the configured delay and is not cancellable once scheduled.
func (e *Engine) Evaluate(message models.ChatMessage, respond func(response models.AutoResponse)) Outcome {
	e.mtx.RLock()
	defer e.mtx.RUnlock()

	content := strings.ToLower(message.Content)
	outcome := Outcome{Category: e.categorizeLocked(content)}

	if rule := e.routeLocked(message, content); rule != nil {
		outcome.RuleFired = &rule.ID
	}

	for _, response := range e.responses {
		if !response.Enabled || len(response.Trigger) == 0 {
			continue
		}
		if strings.Contains(content, strings.ToLower(response.Trigger)) {
			outcome.AutoResponded = true
			matched := response
			time.AfterFunc(e.delay, func() {
				respond(matched)
			})
			break
		}
	}

	return outcome
}

// categorizeLocked returns the first configured category with a keyword
// hit, in configured order. First match wins, not best match.
func (e *Engine) categorizeLocked(content string) string {
	if !e.categorization.Enabled {
		return models.CategoryDefault
	}
	for _, category := range e.categorization.Categories {
		for _, keyword := range e.categorization.Keywords[category] {
			if len(keyword) > 0 && strings.Contains(content, strings.ToLower(keyword)) {
				return category
			}
		}
	}
	return models.CategoryDefault
}

// routeLocked fires at most one rule: the highest-priority enabled rule
// whose condition matches, ties broken by configuration order.
func (e *Engine) routeLocked(message models.ChatMessage, content string) *models.WorkflowRule {
	enabled := lo.Filter(e.rules, func(rule models.WorkflowRule, _ int) bool {
		return rule.Enabled
	})
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority > enabled[j].Priority
	})

	for _, rule := range enabled {
		if !MatchCondition(rule.Condition, content) {
			continue
		}
		if action, ok := e.actions[rule.Action]; ok {
			action(message, rule)
		} else {
			log.Warn().Str("action", rule.Action).Str("rule", rule.ID).
				Msg("Workflow rule has an unknown action, skipping execution...")
		}
		matched := rule
		return &matched
	}
	return nil
}

// MatchCondition checks a rule condition against lower-cased content. A
// condition containing quoted fragments matches when any quoted keyword
// appears; otherwise the whole condition is a substring match.
func MatchCondition(condition, content string) bool {
	condition = strings.ToLower(strings.TrimSpace(condition))
	if len(condition) == 0 {
		return false
	}

	if strings.Contains(condition, `"`) {
		parts := strings.Split(condition, `"`)
		// Odd indexes are the quoted fragments.
		for idx := 1; idx < len(parts); idx += 2 {
			keyword := strings.TrimSpace(parts[idx])
			if len(keyword) > 0 && strings.Contains(content, keyword) {
				return true
			}
		}
		return false
	}

	return strings.Contains(content, condition)
}

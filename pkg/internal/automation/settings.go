package automation

import (
	"errors"

	"github.com/centrohq/centro/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var ErrRuleNotFound = errors.New("workflow rule not found")

// The settings mutators are the only writers of the engine configuration.

func (e *Engine) SetCategorization(config models.CategorizationConfig) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.categorization = config
}

func (e *Engine) Categorization() models.CategorizationConfig {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	return e.categorization
}

func (e *Engine) AddRule(rule models.WorkflowRule) models.WorkflowRule {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if len(rule.ID) == 0 {
		rule.ID = uuid.NewString()
	}
	e.rules = append(e.rules, rule)
	return rule
}

func (e *Engine) SetRuleEnabled(id string, enabled bool) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	for idx := range e.rules {
		if e.rules[idx].ID == id {
			e.rules[idx].Enabled = enabled
			return nil
		}
	}
	return ErrRuleNotFound
}

func (e *Engine) RemoveRule(id string) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	before := len(e.rules)
	e.rules = lo.Filter(e.rules, func(rule models.WorkflowRule, _ int) bool {
		return rule.ID != id
	})
	if len(e.rules) == before {
		return ErrRuleNotFound
	}
	return nil
}

func (e *Engine) Rules() []models.WorkflowRule {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	out := make([]models.WorkflowRule, len(e.rules))
	copy(out, e.rules)
	return out
}

func (e *Engine) AddResponse(response models.AutoResponse) models.AutoResponse {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if len(response.ID) == 0 {
		response.ID = uuid.NewString()
	}
	e.responses = append(e.responses, response)
	return response
}

func (e *Engine) SetResponseEnabled(id string, enabled bool) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	for idx := range e.responses {
		if e.responses[idx].ID == id {
			e.responses[idx].Enabled = enabled
			return nil
		}
	}
	return ErrRuleNotFound
}

func (e *Engine) RemoveResponse(id string) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	before := len(e.responses)
	e.responses = lo.Filter(e.responses, func(response models.AutoResponse, _ int) bool {
		return response.ID != id
	})
	if len(e.responses) == before {
		return ErrRuleNotFound
	}
	return nil
}

func (e *Engine) Responses() []models.AutoResponse {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	out := make([]models.AutoResponse, len(e.responses))
	copy(out, e.responses)
	return out
}

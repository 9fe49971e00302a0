package flow

import (
	"docuflow/domain"

	"github.com/fundwit/go-commons/types"
)

type TemplateCreation struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	CategoryID  types.ID               `json:"categoryId"`
	Steps       domain.StepDefinitions `json:"steps" binding:"dive"`
}

type TemplateQuery struct {
	CategoryID types.ID `form:"categoryId"`
	// Active filters by the active flag when set to "true" or "false".
	Active string `form:"active"`
}

type TemplateActiveUpdating struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// TemplateDetail widens a template with how many instances reference it.
type TemplateDetail struct {
	domain.WorkflowTemplate

	UsageCount int `json:"usageCount"`
}

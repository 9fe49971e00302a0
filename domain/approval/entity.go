package approval

import (
	"docuflow/domain"

	"github.com/fundwit/go-commons/types"
)

type InstanceCreation struct {
	TemplateID types.ID `json:"templateId" binding:"required"`
	DocumentID types.ID `json:"documentId" binding:"required"`
}

type StepProcessing struct {
	Action  domain.StepAction `json:"action" binding:"required"`
	Comment string            `json:"comment"`
}

// PendingTask is a denormalized row of the "my pending tasks" list: it
// carries enough context to render the list without further lookups.
type PendingTask struct {
	StepID     types.ID `json:"stepId" gorm:"column:step_id"`
	StepNumber int      `json:"stepNumber"`
	StepName   string   `json:"stepName"`

	InstanceID   types.ID `json:"instanceId"`
	InstanceUUID string   `json:"instanceUuid"`
	WorkflowName string   `json:"workflowName"`

	DocumentID    types.ID `json:"documentId"`
	DocumentUUID  string   `json:"documentUuid"`
	DocumentTitle string   `json:"documentTitle"`
	FileType      string   `json:"fileType"`

	InitiatorName string          `json:"initiatorName"`
	CreateTime    types.Timestamp `json:"createTime"`
}

type InstanceSummary struct {
	ID   types.ID `json:"id"`
	UUID string   `json:"uuid"`

	WorkflowName  string `json:"workflowName"`
	DocumentUUID  string `json:"documentUuid"`
	DocumentTitle string `json:"documentTitle"`

	Position domain.InstancePosition `json:"position"`

	InitiatorName string          `json:"initiatorName"`
	StartTime     types.Timestamp `json:"startTime"`
	EndTime       types.Timestamp `json:"endTime"`
}

type WorkflowHistory struct {
	Instance InstanceSummary     `json:"instance"`
	Steps    []domain.StepRecord `json:"steps"`
}

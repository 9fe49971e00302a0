package domain

import (
	"github.com/fundwit/go-commons/types"
)

type InstanceStatus string

const (
	InstanceStatusInProgress InstanceStatus = "in_progress"
	InstanceStatusApproved   InstanceStatus = "approved"
	InstanceStatusRejected   InstanceStatus = "rejected"
	InstanceStatusCancelled  InstanceStatus = "cancelled"
)

func (s InstanceStatus) IsTerminal() bool {
	return s == InstanceStatusApproved || s == InstanceStatusRejected || s == InstanceStatusCancelled
}

type StepAction string

const (
	StepActionApprove StepAction = "approve"
	StepActionReject  StepAction = "reject"
)

func (a StepAction) IsValid() bool {
	return a == StepActionApprove || a == StepActionReject
}

// WorkflowInstance is one run of a template against one document. Steps is
// the step list snapshotted from the template at start time, so template
// edits can never alter a running instance.
type WorkflowInstance struct {
	ID   types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	UUID string   `json:"uuid" gorm:"unique_index"`

	TemplateID   types.ID `json:"templateId"`
	TemplateName string   `json:"templateName"`
	DocumentID   types.ID `json:"documentId"`

	Status      InstanceStatus  `json:"status"`
	CurrentStep int             `json:"currentStep"`
	Steps       StepDefinitions `json:"steps" sql:"type:TEXT"`

	InitiatorID   types.ID        `json:"initiatorId"`
	InitiatorName string          `json:"initiatorName"`
	StartTime     types.Timestamp `json:"startTime" sql:"type:DATETIME(6) NOT NULL"`
	EndTime       types.Timestamp `json:"endTime" sql:"type:DATETIME(6)"`
}

// InstancePosition is a tagged view of the instance's place in its
// lifecycle: StepNumber and StepTotal are populated only while running.
type InstancePosition struct {
	Status     InstanceStatus `json:"status"`
	StepNumber int            `json:"stepNumber,omitempty"`
	StepTotal  int            `json:"stepTotal,omitempty"`
}

func (i *WorkflowInstance) Position() InstancePosition {
	if i.Status != InstanceStatusInProgress {
		return InstancePosition{Status: i.Status}
	}
	return InstancePosition{Status: i.Status, StepNumber: i.CurrentStep, StepTotal: len(i.Steps)}
}

// StepRecord is the ledger entry of one reached step. Records are created
// lazily when the instance enters the step and become immutable once the
// action is set.
type StepRecord struct {
	ID         types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	InstanceID types.ID `json:"instanceId" gorm:"index"`

	StepNumber   int      `json:"stepNumber"`
	StepName     string   `json:"stepName"`
	AssigneeID   types.ID `json:"assigneeId"`
	AssigneeName string   `json:"assigneeName"`

	Action          StepAction      `json:"action"`
	Comment         string          `json:"comment"`
	CompletedBy     types.ID        `json:"completedBy"`
	CompletedByName string          `json:"completedByName"`
	CompleteTime    types.Timestamp `json:"completeTime" sql:"type:DATETIME(6)"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *StepRecord) IsCompleted() bool {
	return !r.CompleteTime.Time().IsZero()
}

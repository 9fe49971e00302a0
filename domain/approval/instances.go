package approval

import (
	"docuflow/account"
	"docuflow/activity"
	"docuflow/bizerror"
	"docuflow/domain"
	"docuflow/domain/docs"
	"docuflow/idgen"
	"docuflow/notification"
	"docuflow/persistence"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	instanceIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
	stepIdWorker     = sonyflake.NewSonyflake(sonyflake.Settings{})

	StartWorkflowFunc  = StartWorkflow
	ProcessStepFunc    = ProcessStep
	CancelWorkflowFunc = CancelWorkflow
)

// StartWorkflow creates a run of a template against one document. The
// template's step list is snapshotted onto the instance so later template
// edits cannot alter the run. At most one in-progress instance may exist per
// document; the check re-reads open instances with a locking read inside the
// transaction.
func StartWorkflow(c *InstanceCreation, sec *session.Session) (*domain.WorkflowInstance, error) {
	var instance *domain.WorkflowInstance
	var firstStep *domain.StepRecord
	var doc domain.Document

	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		template := domain.WorkflowTemplate{}
		if err := tx.Where(&domain.WorkflowTemplate{ID: c.TemplateID}).First(&template).Error; err != nil {
			return err
		}
		if !template.IsActive {
			return bizerror.ErrTemplateInactive
		}
		if len(template.Steps) == 0 {
			return bizerror.ErrStepsRequired
		}
		if err := tx.Where(&domain.Document{ID: c.DocumentID}).First(&doc).Error; err != nil {
			return err
		}

		running := domain.WorkflowInstance{}
		err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("document_id = ? AND status = ?", doc.ID, domain.InstanceStatusInProgress).
			First(&running).Error
		if err == nil {
			return bizerror.ErrWorkflowAlreadyRunning
		}
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		now := types.CurrentTimestamp()
		instance = &domain.WorkflowInstance{
			ID:   idgen.NextID(instanceIdWorker),
			UUID: uuid.New().String(),

			TemplateID:   template.ID,
			TemplateName: template.Name,
			DocumentID:   doc.ID,

			Status:      domain.InstanceStatusInProgress,
			CurrentStep: 1,
			Steps:       template.Steps,

			InitiatorID:   sec.Identity.ID,
			InitiatorName: sec.Identity.Nickname,
			StartTime:     now,
		}
		if err := tx.Create(instance).Error; err != nil {
			return err
		}

		firstStep, err = createStepRecord(tx, instance, 1, now)
		if err != nil {
			return err
		}

		return docs.UpdateDocumentStatus(tx, doc.ID, domain.DocumentStatusPending)
	})
	if err != nil {
		return nil, err
	}

	notification.NotifyFunc(firstStep.AssigneeID, notification.TypeWorkflowTask,
		"New approval task",
		`You have a new approval task for document "`+doc.Title+`"`,
		"/documents/"+doc.UUID)
	activity.LogActivityFunc(&sec.Identity, "workflow_start", "workflow_instance", instance.ID,
		instance.TemplateName, activity.ActivityDetail{"documentId": doc.ID.String(), "documentTitle": doc.Title})

	return instance, nil
}

// ProcessStep completes the current step of a running instance with an
// approve or reject decision. All mutations (step completion, instance
// advancement or termination, document status projection) commit as one
// transaction; a concurrent call that lost the race observes the advanced
// state and fails instead of completing a step twice.
func ProcessStep(instanceID types.ID, p *StepProcessing, sec *session.Session) error {
	if !p.Action.IsValid() {
		return bizerror.ErrInvalidAction
	}

	var instance domain.WorkflowInstance
	var doc domain.Document
	var notify func()

	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where(&domain.WorkflowInstance{ID: instanceID}).First(&instance).Error; err != nil {
			return err
		}
		if instance.Status != domain.InstanceStatusInProgress {
			return bizerror.ErrWorkflowNotRunning
		}

		step := domain.StepRecord{}
		err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("instance_id = ? AND step_number = ? AND complete_time = ?",
				instance.ID, instance.CurrentStep, types.Timestamp{}).
			First(&step).Error
		if gorm.IsRecordNotFoundError(err) {
			return bizerror.ErrNoPendingStep
		}
		if err != nil {
			return err
		}
		if step.AssigneeID != sec.Identity.ID && !sec.CanOverrideWorkflowStep() {
			return bizerror.ErrForbidden
		}

		if err := tx.Where(&domain.Document{ID: instance.DocumentID}).First(&doc).Error; err != nil {
			return err
		}

		now := types.CurrentTimestamp()
		q := tx.Model(&domain.StepRecord{}).
			Where("id = ? AND complete_time = ?", step.ID, types.Timestamp{}).
			Updates(map[string]interface{}{
				"action":            p.Action,
				"comment":           p.Comment,
				"completed_by":      sec.Identity.ID,
				"completed_by_name": sec.Identity.Nickname,
				"complete_time":     now,
			})
		if q.Error != nil {
			return q.Error
		}
		if q.RowsAffected != 1 {
			return bizerror.ErrNoPendingStep
		}

		if p.Action == domain.StepActionReject {
			if err := terminateInstance(tx, &instance, domain.InstanceStatusRejected, now); err != nil {
				return err
			}
			if err := docs.UpdateDocumentStatus(tx, doc.ID, domain.DocumentStatusRejected); err != nil {
				return err
			}
			notify = func() {
				notification.NotifyFunc(instance.InitiatorID, notification.TypeWorkflowRejected,
					"Document rejected",
					`Document "`+doc.Title+`" has been rejected`,
					"/documents/"+doc.UUID)
			}
			return nil
		}

		if instance.CurrentStep < len(instance.Steps) {
			next := instance.CurrentStep + 1
			q := tx.Model(&domain.WorkflowInstance{}).
				Where("id = ? AND status = ? AND current_step = ?",
					instance.ID, domain.InstanceStatusInProgress, instance.CurrentStep).
				Update("current_step", next)
			if q.Error != nil {
				return q.Error
			}
			if q.RowsAffected != 1 {
				return bizerror.ErrNoPendingStep
			}
			instance.CurrentStep = next

			nextStep, err := createStepRecord(tx, &instance, next, now)
			if err != nil {
				return err
			}
			notify = func() {
				notification.NotifyFunc(nextStep.AssigneeID, notification.TypeWorkflowTask,
					"New approval task",
					`You have a new approval task for document "`+doc.Title+`"`,
					"/documents/"+doc.UUID)
			}
			return nil
		}

		if err := terminateInstance(tx, &instance, domain.InstanceStatusApproved, now); err != nil {
			return err
		}
		if err := docs.UpdateDocumentStatus(tx, doc.ID, domain.DocumentStatusApproved); err != nil {
			return err
		}
		notify = func() {
			notification.NotifyFunc(instance.InitiatorID, notification.TypeWorkflowCompleted,
				"Document approved",
				`Document "`+doc.Title+`" has been approved`,
				"/documents/"+doc.UUID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	notify()
	activity.LogActivityFunc(&sec.Identity, "workflow_"+string(p.Action), "workflow_instance", instance.ID,
		instance.TemplateName, activity.ActivityDetail{"step": instance.CurrentStep, "comment": p.Comment})

	return nil
}

// CancelWorkflow terminates a running instance without an outcome and resets
// the document to draft. Only the initiator or an admin may cancel.
func CancelWorkflow(instanceID types.ID, sec *session.Session) error {
	var instance domain.WorkflowInstance

	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where(&domain.WorkflowInstance{ID: instanceID}).First(&instance).Error; err != nil {
			return err
		}
		if instance.InitiatorID != sec.Identity.ID && !sec.IsAdmin() {
			return bizerror.ErrForbidden
		}
		if instance.Status != domain.InstanceStatusInProgress {
			return bizerror.ErrWorkflowNotRunning
		}

		now := types.CurrentTimestamp()
		if err := terminateInstance(tx, &instance, domain.InstanceStatusCancelled, now); err != nil {
			return err
		}
		return docs.UpdateDocumentStatus(tx, instance.DocumentID, domain.DocumentStatusDraft)
	})
	if err != nil {
		return err
	}

	activity.LogActivityFunc(&sec.Identity, "workflow_cancel", "workflow_instance", instance.ID,
		instance.TemplateName, nil)
	return nil
}

// createStepRecord materializes the ledger entry for the given step number
// from the instance's snapshotted step list. Records for future steps are
// never pre-created.
func createStepRecord(tx *gorm.DB, instance *domain.WorkflowInstance,
	stepNumber int, now types.Timestamp) (*domain.StepRecord, error) {

	def := instance.Steps[stepNumber-1]
	names, err := account.LoadUserNamesFunc(tx, []types.ID{def.AssigneeID})
	if err != nil {
		return nil, err
	}

	record := &domain.StepRecord{
		ID:         idgen.NextID(stepIdWorker),
		InstanceID: instance.ID,

		StepNumber:   stepNumber,
		StepName:     def.Name,
		AssigneeID:   def.AssigneeID,
		AssigneeName: names[def.AssigneeID],

		CreateTime: now,
	}
	if err := tx.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func terminateInstance(tx *gorm.DB, instance *domain.WorkflowInstance,
	status domain.InstanceStatus, now types.Timestamp) error {

	q := tx.Model(&domain.WorkflowInstance{}).
		Where("id = ? AND status = ?", instance.ID, domain.InstanceStatusInProgress).
		Updates(map[string]interface{}{"status": status, "end_time": now})
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected != 1 {
		return bizerror.ErrWorkflowNotRunning
	}
	instance.Status = status
	instance.EndTime = now
	return nil
}

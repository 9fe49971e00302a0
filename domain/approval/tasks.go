package approval

import (
	"docuflow/domain"
	"docuflow/persistence"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
)

var (
	QueryMyPendingTasksFunc = QueryMyPendingTasks
	LoadWorkflowHistoryFunc = LoadWorkflowHistory
)

// QueryMyPendingTasks lists the uncompleted steps assigned to the session
// user whose instance is still running, newest first.
func QueryMyPendingTasks(sec *session.Session) ([]PendingTask, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	var tasks []PendingTask
	err := db.Model(&domain.StepRecord{}).
		Select(`step_records.id AS step_id, step_records.step_number, step_records.step_name,
			step_records.create_time,
			workflow_instances.id AS instance_id, workflow_instances.uuid AS instance_uuid,
			workflow_instances.template_name AS workflow_name,
			workflow_instances.initiator_name,
			documents.id AS document_id, documents.uuid AS document_uuid,
			documents.title AS document_title, documents.file_type`).
		Joins("JOIN workflow_instances ON workflow_instances.id = step_records.instance_id").
		Joins("JOIN documents ON documents.id = workflow_instances.document_id").
		Where("step_records.assignee_id = ? AND step_records.complete_time = ? AND workflow_instances.status = ?",
			sec.Identity.ID, types.Timestamp{}, domain.InstanceStatusInProgress).
		Order("step_records.create_time DESC").
		Scan(&tasks).Error
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []PendingTask{}
	}
	return tasks, nil
}

// LoadWorkflowHistory reconstructs the full audit view of one instance: its
// summary plus every reached step ordered by step number. Steps never
// reached (after an early rejection) are absent, not pending.
func LoadWorkflowHistory(instanceID types.ID, sec *session.Session) (*WorkflowHistory, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	instance := domain.WorkflowInstance{}
	if err := db.Where(&domain.WorkflowInstance{ID: instanceID}).First(&instance).Error; err != nil {
		return nil, err
	}
	doc := domain.Document{}
	if err := db.Where(&domain.Document{ID: instance.DocumentID}).First(&doc).Error; err != nil {
		return nil, err
	}

	var steps []domain.StepRecord
	if err := db.Where(&domain.StepRecord{InstanceID: instance.ID}).
		Order("step_number ASC").Find(&steps).Error; err != nil {
		return nil, err
	}

	return &WorkflowHistory{
		Instance: InstanceSummary{
			ID:   instance.ID,
			UUID: instance.UUID,

			WorkflowName:  instance.TemplateName,
			DocumentUUID:  doc.UUID,
			DocumentTitle: doc.Title,

			Position: instance.Position(),

			InitiatorName: instance.InitiatorName,
			StartTime:     instance.StartTime,
			EndTime:       instance.EndTime,
		},
		Steps: steps,
	}, nil
}

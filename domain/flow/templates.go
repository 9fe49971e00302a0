package flow

import (
	"docuflow/bizerror"
	"docuflow/domain"
	"docuflow/idgen"
	"docuflow/persistence"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	templateIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateWorkflowTemplateFunc = CreateWorkflowTemplate
	QueryWorkflowTemplatesFunc = QueryWorkflowTemplates
	DetailWorkflowTemplateFunc = DetailWorkflowTemplate
	UpdateTemplateActiveFunc   = UpdateTemplateActive
)

func CreateWorkflowTemplate(c *TemplateCreation, sec *session.Session) (*domain.WorkflowTemplate, error) {
	if !sec.CanManageWorkflowTemplates() {
		return nil, bizerror.ErrForbidden
	}
	if len(c.Steps) == 0 {
		return nil, bizerror.ErrStepsRequired
	}

	template := &domain.WorkflowTemplate{
		ID:   idgen.NextID(templateIdWorker),
		UUID: uuid.New().String(),

		Name:        c.Name,
		Description: c.Description,
		CategoryID:  c.CategoryID,
		Steps:       c.Steps,
		IsActive:    true,

		CreatorID:   sec.Identity.ID,
		CreatorName: sec.Identity.Nickname,
		CreateTime:  types.CurrentTimestamp(),
	}

	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	if err := db.Create(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

func QueryWorkflowTemplates(query *TemplateQuery, sec *session.Session) ([]TemplateDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	q := db.Model(&domain.WorkflowTemplate{})
	if query.CategoryID != 0 {
		q = q.Where("category_id = ?", query.CategoryID)
	}
	if query.Active == "true" {
		q = q.Where("is_active = ?", true)
	} else if query.Active == "false" {
		q = q.Where("is_active = ?", false)
	}

	var templates []domain.WorkflowTemplate
	if err := q.Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}

	details := make([]TemplateDetail, 0, len(templates))
	for _, t := range templates {
		var usageCount int
		if err := db.Model(&domain.WorkflowInstance{}).
			Where("template_id = ?", t.ID).Count(&usageCount).Error; err != nil {
			return nil, err
		}
		details = append(details, TemplateDetail{WorkflowTemplate: t, UsageCount: usageCount})
	}
	return details, nil
}

func DetailWorkflowTemplate(id types.ID, sec *session.Session) (*TemplateDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	detail := TemplateDetail{}
	if err := db.Where(&domain.WorkflowTemplate{ID: id}).First(&detail.WorkflowTemplate).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.WorkflowInstance{}).
		Where("template_id = ?", id).Count(&detail.UsageCount).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateTemplateActive toggles whether new instances may be started from the
// template. History is never touched.
func UpdateTemplateActive(id types.ID, u *TemplateActiveUpdating, sec *session.Session) (*domain.WorkflowTemplate, error) {
	if !sec.CanManageWorkflowTemplates() {
		return nil, bizerror.ErrForbidden
	}

	template := domain.WorkflowTemplate{}
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&domain.WorkflowTemplate{ID: id}).First(&template).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.WorkflowTemplate{}).Where("id = ?", id).
			Update("is_active", *u.IsActive).Error; err != nil {
			return err
		}
		template.IsActive = *u.IsActive
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &template, nil
}

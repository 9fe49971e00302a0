package notification

import (
	"context"

	"docuflow/idgen"
	"docuflow/persistence"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

const (
	TypeWorkflowTask      = "workflow_task"
	TypeWorkflowCompleted = "workflow_completed"
	TypeWorkflowRejected  = "workflow_rejected"
)

var (
	notificationIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	NotifyFunc               = Notify
	QueryMyNotificationsFunc = QueryMyNotifications
	MarkNotificationReadFunc = MarkNotificationRead
)

type Notification struct {
	ID     types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	UserID types.ID `json:"userId" gorm:"index"`

	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link"`
	IsRead  bool   `json:"isRead"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

// Notify delivers a notification on a best-effort basis: a failure is logged
// and swallowed, never propagated into the transition that triggered it.
func Notify(userID types.ID, notifType, title, message, link string) {
	record := Notification{
		ID:     idgen.NextID(notificationIdWorker),
		UserID: userID,

		Type:    notifType,
		Title:   title,
		Message: message,
		Link:    link,

		CreateTime: types.CurrentTimestamp(),
	}

	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Create(&record).Error; err != nil {
		logrus.Warnf("failed to notify user %d (%s): %v", userID, notifType, err)
	}
}

func QueryMyNotifications(sec *session.Session) ([]Notification, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	var records []Notification
	if err := db.Where("user_id = ?", sec.Identity.ID).
		Order("create_time DESC").Limit(100).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func MarkNotificationRead(id types.ID, sec *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	q := db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, sec.Identity.ID).
		Update("is_read", true)
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

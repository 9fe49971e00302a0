package activity

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"docuflow/bizerror"
	"docuflow/idgen"
	"docuflow/persistence"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	activityIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	LogActivityFunc     = LogActivity
	QueryActivitiesFunc = QueryActivities
)

// ActivityDetail is a free-form JSON payload persisted as a text column.
type ActivityDetail map[string]interface{}

func (t ActivityDetail) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (t *ActivityDetail) Scan(v interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), t)
}

type ActivityRecord struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	ActorID   types.ID `json:"actorId"`
	ActorName string   `json:"actorName"`

	Action     string   `json:"action"`
	EntityType string   `json:"entityType"`
	EntityID   types.ID `json:"entityId"`
	EntityName string   `json:"entityName"`

	Detail ActivityDetail `json:"detail" sql:"type:TEXT"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *ActivityRecord) TableName() string {
	return "activities"
}

// LogActivity appends an audit record for a successful operation. A failure
// here is logged and swallowed: auditing must never fail the operation it
// records.
func LogActivity(actor *session.Identity, action, entityType string, entityID types.ID,
	entityName string, detail ActivityDetail) {

	record := ActivityRecord{
		ID: idgen.NextID(activityIdWorker),

		ActorID:   actor.ID,
		ActorName: actor.Nickname,

		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityName: entityName,
		Detail:     detail,

		CreateTime: types.CurrentTimestamp(),
	}

	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Create(&record).Error; err != nil {
		logrus.Warnf("failed to record activity %s on %s %d: %v", action, entityType, entityID, err)
	}
}

type ActivityQuery struct {
	EntityType string   `form:"entityType"`
	EntityID   types.ID `form:"entityId"`
}

func QueryActivities(query *ActivityQuery, sec *session.Session) ([]ActivityRecord, error) {
	if !sec.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	q := db.Model(&ActivityRecord{})
	if query.EntityType != "" {
		q = q.Where("entity_type = ?", query.EntityType)
	}
	if query.EntityID != 0 {
		q = q.Where("entity_id = ?", query.EntityID)
	}

	var records []ActivityRecord
	if err := q.Order("create_time DESC").Limit(100).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

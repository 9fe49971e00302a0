package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fundwit/go-commons/types"
)

type StepDefinition struct {
	Name       string   `json:"name" binding:"required"`
	AssigneeID types.ID `json:"assigneeId" binding:"required"`
}

// StepDefinitions is an ordered step list persisted as a JSON text column.
type StepDefinitions []StepDefinition

func (t StepDefinitions) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (t *StepDefinitions) Scan(v interface{}) error {
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

type WorkflowTemplate struct {
	ID   types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	UUID string   `json:"uuid" gorm:"unique_index"`

	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  types.ID        `json:"categoryId"`
	Steps       StepDefinitions `json:"steps" sql:"type:TEXT"`
	IsActive    bool            `json:"isActive"`

	CreatorID   types.ID        `json:"creatorId"`
	CreatorName string          `json:"creatorName"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

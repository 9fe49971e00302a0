package domain

import (
	"github.com/fundwit/go-commons/types"
)

type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "draft"
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
	DocumentStatusArchived DocumentStatus = "archived"
)

type Document struct {
	ID   types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	UUID string   `json:"uuid" gorm:"unique_index"`

	Title  string         `json:"title"`
	Status DocumentStatus `json:"status"`

	OwnerID   types.ID `json:"ownerId"`
	OwnerName string   `json:"ownerName"`

	FileKey  string `json:"-"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
	Checksum string `json:"checksum"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

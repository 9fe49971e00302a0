package docs

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"io"

	"docuflow/activity"
	"docuflow/bizerror"
	"docuflow/client/s3"
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
	documentIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	FindDocumentFunc     = FindDocument
	CreateDocumentFunc   = CreateDocument
	DownloadDocumentFunc = DownloadDocument
	ResubmitDocumentFunc = ResubmitDocument
)

type DocumentCreation struct {
	Title    string `json:"title" binding:"required"`
	FileType string `json:"fileType"`
}

func FindDocument(id types.ID, sec *session.Session) (*domain.Document, error) {
	doc := domain.Document{}
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	if err := db.Where(&domain.Document{ID: id}).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDocument stores the document metadata and, when content is given,
// uploads the binary body to object storage with an md5 checksum.
func CreateDocument(c *DocumentCreation, content []byte, sec *session.Session) (*domain.Document, error) {
	doc := &domain.Document{
		ID:   idgen.NextID(documentIdWorker),
		UUID: uuid.New().String(),

		Title:  c.Title,
		Status: domain.DocumentStatusDraft,

		OwnerID:   sec.Identity.ID,
		OwnerName: sec.Identity.Nickname,

		FileType:   c.FileType,
		CreateTime: types.CurrentTimestamp(),
	}

	if len(content) > 0 {
		sum := md5.Sum(content)
		doc.Checksum = hex.EncodeToString(sum[:])
		doc.FileSize = int64(len(content))
		doc.FileKey = "documents/" + doc.UUID

		if err := s3.PutObjectFunc(doc.FileKey, bytes.NewReader(content), sec); err != nil {
			return nil, err
		}
	}

	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	if err := db.Create(doc).Error; err != nil {
		return nil, err
	}

	activity.LogActivityFunc(&sec.Identity, "document_upload", "document", doc.ID, doc.Title, nil)
	return doc, nil
}

func DownloadDocument(id types.ID, sec *session.Session) (*domain.Document, io.ReadCloser, error) {
	doc, err := FindDocument(id, sec)
	if err != nil {
		return nil, nil, err
	}
	if doc.FileKey == "" {
		return nil, nil, bizerror.ErrDocumentContentNotFound
	}
	body, err := s3.GetObjectFunc(doc.FileKey, sec)
	if err != nil {
		return nil, nil, err
	}
	return doc, body, nil
}

// UpdateDocumentStatus projects a workflow outcome onto the document row.
// Callers run it inside their own transaction so the projection commits
// atomically with the instance mutation.
func UpdateDocumentStatus(tx *gorm.DB, id types.ID, status domain.DocumentStatus) error {
	q := tx.Model(&domain.Document{}).Where("id = ?", id).Update("status", status)
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ResubmitDocument is the escape hatch after rejection: the owner resets the
// document to draft so it can be edited and sent through a workflow again.
// No workflow instance is touched.
func ResubmitDocument(id types.ID, sec *session.Session) (*domain.Document, error) {
	doc := domain.Document{}
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where(&domain.Document{ID: id}).First(&doc).Error; err != nil {
			return err
		}
		if doc.OwnerID != sec.Identity.ID && !sec.IsAdmin() {
			return bizerror.ErrForbidden
		}
		if doc.Status != domain.DocumentStatusRejected {
			return bizerror.ErrInvalidDocumentStatus
		}
		if err := UpdateDocumentStatus(tx, doc.ID, domain.DocumentStatusDraft); err != nil {
			return err
		}
		doc.Status = domain.DocumentStatusDraft
		return nil
	})
	if err != nil {
		return nil, err
	}

	activity.LogActivityFunc(&sec.Identity, "document_resubmit", "document", doc.ID, doc.Title, nil)
	return &doc, nil
}

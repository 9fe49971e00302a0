package servehttp_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docuflow/bizerror"
	"docuflow/domain"
	"docuflow/domain/flow"
	"docuflow/servehttp"
	"docuflow/session"
	"docuflow/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/gomega"
)

func demoTimeString() (types.Timestamp, string) {
	ts := types.TimestampOfDate(2021, 1, 1, 12, 0, 0, 0, time.Local)
	timeBytes, _ := ts.MarshalJSON()
	return ts, strings.Trim(string(timeBytes), `"`)
}

func TestCreateWorkflowTemplateRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	servehttp.RegisterWorkflowTemplateHandler(router)

	t.Run("should be able to handle bind error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/workflows", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"EOF","data":null}`))

		req = httptest.NewRequest(http.MethodPost, "/v1/workflows", bytes.NewReader([]byte(`bad json`)))
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid character 'b' looking for beginning of value","data":null}`))
	})

	t.Run("should be able to handle validate error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/workflows", bytes.NewReader([]byte(`{}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":
			"Key: 'TemplateCreation.Name' Error:Field validation for 'Name' failed on the 'required' tag","data":null}`))
	})

	t.Run("should be able to handle service error", func(t *testing.T) {
		flow.CreateWorkflowTemplateFunc = func(c *flow.TemplateCreation, sec *session.Session) (*domain.WorkflowTemplate, error) {
			return nil, bizerror.ErrForbidden
		}
		req := httptest.NewRequest(http.MethodPost, "/v1/workflows", bytes.NewReader([]byte(
			`{"name":"contract approval","steps":[{"name":"Review","assigneeId":"101"}]}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"security.forbidden","message":"access forbidden","data":null}`))
	})

	t.Run("should be able to create successfully", func(t *testing.T) {
		ts, timeString := demoTimeString()
		flow.CreateWorkflowTemplateFunc = func(c *flow.TemplateCreation, sec *session.Session) (*domain.WorkflowTemplate, error) {
			return &domain.WorkflowTemplate{ID: 123, UUID: "t-uuid", Name: c.Name, Steps: c.Steps,
				IsActive: true, CreatorID: 10, CreatorName: "Alice", CreateTime: ts}, nil
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/workflows", bytes.NewReader([]byte(
			`{"name":"contract approval","steps":[{"name":"Review","assigneeId":"101"}]}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(body).To(MatchJSON(`{"id":"123","uuid":"t-uuid","name":"contract approval","description":"",
			"categoryId":"0","steps":[{"name":"Review","assigneeId":"101"}],"isActive":true,
			"creatorId":"10","creatorName":"Alice","createTime":"` + timeString + `"}`))
	})
}

func TestQueryWorkflowTemplatesRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	servehttp.RegisterWorkflowTemplateHandler(router)

	t.Run("should pass query filters through", func(t *testing.T) {
		var received *flow.TemplateQuery
		flow.QueryWorkflowTemplatesFunc = func(q *flow.TemplateQuery, sec *session.Session) ([]flow.TemplateDetail, error) {
			received = q
			return []flow.TemplateDetail{}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/workflows?categoryId=7&active=true", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`[]`))
		Expect(*received).To(Equal(flow.TemplateQuery{CategoryID: 7, Active: "true"}))
	})

	t.Run("should be able to handle service error", func(t *testing.T) {
		flow.QueryWorkflowTemplatesFunc = func(q *flow.TemplateQuery, sec *session.Session) ([]flow.TemplateDetail, error) {
			return nil, errors.New("a mocked error")
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/workflows", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error","message":"a mocked error","data":null}`))
	})
}

func TestDetailWorkflowTemplateRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	servehttp.RegisterWorkflowTemplateHandler(router)

	t.Run("should be able to handle bind error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/workflows/bad", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid id 'bad'","data":null}`))
	})

	t.Run("should be able to handle not found", func(t *testing.T) {
		flow.DetailWorkflowTemplateFunc = func(id types.ID, sec *session.Session) (*flow.TemplateDetail, error) {
			return nil, gorm.ErrRecordNotFound
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/workflows/404", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))
	})

	t.Run("should be able to load detail successfully", func(t *testing.T) {
		ts, timeString := demoTimeString()
		flow.DetailWorkflowTemplateFunc = func(id types.ID, sec *session.Session) (*flow.TemplateDetail, error) {
			return &flow.TemplateDetail{WorkflowTemplate: domain.WorkflowTemplate{ID: id, UUID: "t-uuid",
				Name: "contract approval", Steps: domain.StepDefinitions{{Name: "Review", AssigneeID: 101}},
				IsActive: true, CreatorID: 10, CreatorName: "Alice", CreateTime: ts}, UsageCount: 3}, nil
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/workflows/123", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"id":"123","uuid":"t-uuid","name":"contract approval","description":"",
			"categoryId":"0","steps":[{"name":"Review","assigneeId":"101"}],"isActive":true,
			"creatorId":"10","creatorName":"Alice","createTime":"` + timeString + `","usageCount":3}`))
	})
}

func TestUpdateTemplateActiveRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	servehttp.RegisterWorkflowTemplateHandler(router)

	t.Run("should be able to handle bind error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/v1/workflows/bad/active", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid id 'bad'","data":null}`))

		req = httptest.NewRequest(http.MethodPut, "/v1/workflows/123/active", bytes.NewReader([]byte(`{}`)))
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":
			"Key: 'TemplateActiveUpdating.IsActive' Error:Field validation for 'IsActive' failed on the 'required' tag","data":null}`))
	})

	t.Run("should be able to toggle successfully", func(t *testing.T) {
		var receivedID types.ID
		var receivedActive bool
		flow.UpdateTemplateActiveFunc = func(id types.ID, u *flow.TemplateActiveUpdating, sec *session.Session) (*domain.WorkflowTemplate, error) {
			receivedID = id
			receivedActive = *u.IsActive
			return &domain.WorkflowTemplate{ID: id, Name: "contract approval", IsActive: *u.IsActive}, nil
		}

		req := httptest.NewRequest(http.MethodPut, "/v1/workflows/123/active", bytes.NewReader([]byte(`{"isActive":false}`)))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(receivedID).To(Equal(types.ID(123)))
		Expect(receivedActive).To(BeFalse())
	})
}

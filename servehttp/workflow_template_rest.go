package servehttp

import (
	"net/http"

	"docuflow/bizerror"
	"docuflow/domain/flow"
	"docuflow/misc"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterWorkflowTemplateHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/workflows", middleWares...)

	handler := &workflowTemplateHandler{
		validator: validator.New(),
	}

	g.POST("", handler.handleCreateTemplate)
	g.GET("", handler.handleQueryTemplates)
	g.GET(":templateId", handler.handleDetailTemplate)
	g.PUT(":templateId/active", handler.handleUpdateTemplateActive)
}

type workflowTemplateHandler struct {
	validator *validator.Validate
}

func (h *workflowTemplateHandler) handleCreateTemplate(c *gin.Context) {
	creation := flow.TemplateCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	template, err := flow.CreateWorkflowTemplateFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *workflowTemplateHandler) handleQueryTemplates(c *gin.Context) {
	query := flow.TemplateQuery{}
	_ = c.MustBindWith(&query, binding.Query)

	templates, err := flow.QueryWorkflowTemplatesFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *workflowTemplateHandler) handleDetailTemplate(c *gin.Context) {
	id, err := types.ParseID(c.Param("templateId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "invalid id '" + c.Param("templateId") + "'"})
		return
	}

	detail, err := flow.DetailWorkflowTemplateFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *workflowTemplateHandler) handleUpdateTemplateActive(c *gin.Context) {
	id, err := types.ParseID(c.Param("templateId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "invalid id '" + c.Param("templateId") + "'"})
		return
	}

	updating := flow.TemplateActiveUpdating{}
	err = c.ShouldBindBodyWith(&updating, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	template, err := flow.UpdateTemplateActiveFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, template)
}

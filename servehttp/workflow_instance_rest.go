package servehttp

import (
	"net/http"

	"docuflow/bizerror"
	"docuflow/domain/approval"
	"docuflow/misc"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterWorkflowInstanceHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	handler := &workflowInstanceHandler{
		validator: validator.New(),
	}

	g := r.Group("/v1/workflow-instances", middleWares...)
	g.POST("", handler.handleStartWorkflow)
	g.POST(":instanceId/process", handler.handleProcessStep)
	g.POST(":instanceId/cancel", handler.handleCancelWorkflow)
	g.GET(":instanceId/history", handler.handleLoadHistory)

	t := r.Group("/v1/workflow-tasks", middleWares...)
	t.GET("my", handler.handleQueryMyPendingTasks)
}

type workflowInstanceHandler struct {
	validator *validator.Validate
}

func (h *workflowInstanceHandler) handleStartWorkflow(c *gin.Context) {
	creation := approval.InstanceCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	instance, err := approval.StartWorkflowFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusCreated, instance)
}

func (h *workflowInstanceHandler) handleProcessStep(c *gin.Context) {
	id, err := types.ParseID(c.Param("instanceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "invalid id '" + c.Param("instanceId") + "'"})
		return
	}

	processing := approval.StepProcessing{}
	err = c.ShouldBindBodyWith(&processing, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err = h.validator.Struct(processing); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	if err := approval.ProcessStepFunc(id, &processing, session.ExtractSessionFromGinContext(c)); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (h *workflowInstanceHandler) handleCancelWorkflow(c *gin.Context) {
	id, err := types.ParseID(c.Param("instanceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "invalid id '" + c.Param("instanceId") + "'"})
		return
	}

	if err := approval.CancelWorkflowFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (h *workflowInstanceHandler) handleLoadHistory(c *gin.Context) {
	id, err := types.ParseID(c.Param("instanceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "invalid id '" + c.Param("instanceId") + "'"})
		return
	}

	history, err := approval.LoadWorkflowHistoryFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *workflowInstanceHandler) handleQueryMyPendingTasks(c *gin.Context) {
	tasks, err := approval.QueryMyPendingTasksFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, tasks)
}

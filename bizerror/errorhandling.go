package bizerror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"docuflow/misc"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = fmt.Errorf("%v", ret)
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	logrus.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	var badParamErr *ErrBadParam
	if errors.As(genericErr, &badParamErr) {
		respond(c, http.StatusBadRequest, "common.bad_param", badParamErr.Error())
		return
	}

	// bad request: io.EOF (no body)
	if errors.Is(genericErr, io.EOF) {
		respond(c, http.StatusBadRequest, "bad_request.body_not_found", "body not found")
		return
	}
	var syntaxErr *json.SyntaxError
	if errors.As(genericErr, &syntaxErr) {
		respond(c, http.StatusBadRequest, "bad_request.invalid_body_format", syntaxErr.Error())
		return
	}
	var validationErr validator.ValidationErrors
	if errors.As(genericErr, &validationErr) {
		respond(c, http.StatusBadRequest, "bad_request.validation_failed", validationErr.Error())
		return
	}

	if errors.Is(genericErr, ErrUnauthenticated) || errors.Is(genericErr, ErrInvalidPassword) {
		respond(c, http.StatusUnauthorized, "common.unauthenticated", "unauthenticated")
		return
	}
	if errors.Is(genericErr, ErrForbidden) {
		respond(c, http.StatusForbidden, "security.forbidden", "access forbidden")
		return
	}

	if errors.Is(genericErr, ErrStepsRequired) {
		respond(c, http.StatusBadRequest, "workflow.steps_required", genericErr.Error())
		return
	}
	if errors.Is(genericErr, ErrInvalidAction) {
		respond(c, http.StatusBadRequest, "workflow.invalid_action", genericErr.Error())
		return
	}
	if errors.Is(genericErr, ErrTemplateInactive) {
		respond(c, http.StatusConflict, "workflow.template_inactive", genericErr.Error())
		return
	}
	if errors.Is(genericErr, ErrWorkflowAlreadyRunning) {
		respond(c, http.StatusConflict, "workflow.already_running", genericErr.Error())
		return
	}
	if errors.Is(genericErr, ErrWorkflowNotRunning) {
		respond(c, http.StatusBadRequest, "workflow.not_running", genericErr.Error())
		return
	}
	if errors.Is(genericErr, ErrNoPendingStep) {
		respond(c, http.StatusBadRequest, "workflow.no_pending_step", genericErr.Error())
		return
	}
	if errors.Is(genericErr, ErrInvalidDocumentStatus) {
		respond(c, http.StatusBadRequest, "document.invalid_status", genericErr.Error())
		return
	}
	if errors.Is(genericErr, ErrDocumentContentNotFound) || errors.Is(genericErr, gorm.ErrRecordNotFound) {
		respond(c, http.StatusNotFound, "common.record_not_found", "record not found")
		return
	}

	respond(c, http.StatusInternalServerError, "common.internal_server_error", err.Error())
}

func respond(c *gin.Context, status int, code, message string) {
	c.JSON(status, &misc.ErrorBody{Code: code, Message: message})
	c.Abort()
}

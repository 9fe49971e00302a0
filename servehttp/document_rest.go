package servehttp

import (
	"io/ioutil"
	"net/http"

	"docuflow/bizerror"
	"docuflow/domain/docs"
	"docuflow/misc"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

func RegisterDocumentHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/documents", middleWares...)

	handler := &documentHandler{}

	g.POST("", handler.handleCreateDocument)
	g.GET(":documentId", handler.handleDetailDocument)
	g.GET(":documentId/content", handler.handleDownloadDocument)
	g.POST(":documentId/resubmit", handler.handleResubmitDocument)
}

type documentHandler struct {
}

// handleCreateDocument accepts a multipart form with a "title" field and an
// optional "file" part.
func (h *documentHandler) handleCreateDocument(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		panic(&bizerror.ErrBadParam{})
	}

	var content []byte
	fileType := ""
	fileHeader, err := c.FormFile("file")
	if err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		defer f.Close()
		content, err = ioutil.ReadAll(f)
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		fileType = fileHeader.Header.Get("Content-Type")
	}

	creation := docs.DocumentCreation{Title: title, FileType: fileType}
	doc, err := docs.CreateDocumentFunc(&creation, content, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *documentHandler) handleDetailDocument(c *gin.Context) {
	id, err := types.ParseID(c.Param("documentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "invalid id '" + c.Param("documentId") + "'"})
		return
	}

	doc, err := docs.FindDocumentFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *documentHandler) handleDownloadDocument(c *gin.Context) {
	id, err := types.ParseID(c.Param("documentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "invalid id '" + c.Param("documentId") + "'"})
		return
	}

	doc, body, err := docs.DownloadDocumentFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	defer body.Close()

	contentType := doc.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, doc.FileSize, contentType, body,
		map[string]string{"Content-Disposition": `attachment; filename="` + doc.Title + `"`})
}

func (h *documentHandler) handleResubmitDocument(c *gin.Context) {
	id, err := types.ParseID(c.Param("documentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "invalid id '" + c.Param("documentId") + "'"})
		return
	}

	doc, err := docs.ResubmitDocumentFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, doc)
}

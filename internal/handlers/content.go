package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyloop/studyloop-backend/internal/services"
	"github.com/studyloop/studyloop-backend/internal/types"
)

// maxUploadBytes caps pdf uploads at 20 MiB.
const maxUploadBytes = 20 << 20

type ContentHandler struct {
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// CreateContent takes multipart form data so pdf uploads and plain
// note/link fields share one endpoint.
func (ch *ContentHandler) CreateContent(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	input := services.CreateContentInput{
		Theme:       c.PostForm("theme"),
		ContentType: types.ContentType(c.PostForm("content_type")),
		Title:       c.PostForm("title"),
		Content:     c.PostForm("content"),
	}

	if input.ContentType == types.ContentTypePDF {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("a pdf requires a file upload"))
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_file", err)
			return
		}
		defer file.Close()
		input.FileName = fileHeader.Filename
		input.File = file
	}

	content, err := ch.contentService.CreateContent(c.Request.Context(), input)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "content_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"content": content})
}

func (ch *ContentHandler) ListContent(c *gin.Context) {
	if theme := c.Query("theme"); theme != "" {
		items, err := ch.contentService.ListContentByTheme(c.Request.Context(), theme)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "content_list_failed", err)
			return
		}
		RespondOK(c, gin.H{"content": items})
		return
	}
	items, err := ch.contentService.ListContent(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "content_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"content": items})
}

func contentID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid content id")
	}
	return id, nil
}

func (ch *ContentHandler) UpdateContent(c *gin.Context) {
	id, err := contentID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	content, err := ch.contentService.UpdateContent(c.Request.Context(), id, services.UpdateContentInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		RespondServiceError(c, http.StatusBadRequest, "content_update_failed", err)
		return
	}
	RespondOK(c, gin.H{"content": content})
}

func (ch *ContentHandler) DeleteContent(c *gin.Context) {
	id, err := contentID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ch.contentService.DeleteContent(c.Request.Context(), id); err != nil {
		RespondServiceError(c, http.StatusInternalServerError, "content_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ch *ContentHandler) FileURL(c *gin.Context) {
	id, err := contentID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	url, err := ch.contentService.FileURL(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, http.StatusInternalServerError, "file_url_failed", err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/blob"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// MaxUploadSize caps one attachment or voice clip.
const MaxUploadSize = 10 << 20

// AttachmentHandler moves file and voice bytes between HTTP and the blob
// store; tasks only keep the returned references.
type AttachmentHandler struct {
	app    *service.App
	blobs  blob.Store
	logger *zap.Logger
}

func NewAttachmentHandler(app *service.App, blobs blob.Store, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{app: app, blobs: blobs, logger: logger}
}

// Upload stores the multipart "file" field and attaches it to the task.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	data, name, mimeType, ok := h.readUpload(c)
	if !ok {
		return
	}
	if _, ok := visibleTask(c, h.app, c.Param("id")); !ok {
		return
	}

	ref, err := h.blobs.Put(c.Request.Context(), data)
	if err != nil {
		h.logger.Error("blob write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	att, err := h.app.AddAttachment(c.Request.Context(), c.Param("id"), service.AttachmentInput{
		Name:       name,
		Size:       int64(len(data)),
		MimeType:   mimeType,
		ContentRef: ref,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}

func (h *AttachmentHandler) Download(c *gin.Context) {
	task, ok := visibleTask(c, h.app, c.Param("id"))
	if !ok {
		return
	}
	i := findAttachment(task.Attachments, c.Param("attachmentId"))
	if i < 0 {
		respondError(c, service.ErrAttachmentNotFound)
		return
	}
	att := task.Attachments[i]

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": att.Name}))
	h.serveBlob(c, att.ContentRef, att.MimeType)
}

func (h *AttachmentHandler) Remove(c *gin.Context) {
	if err := h.app.RemoveAttachment(c.Request.Context(), c.Param("id"), c.Param("attachmentId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadVoice stores a recorded clip. The form field "duration" holds its
// length in seconds.
func (h *AttachmentHandler) UploadVoice(c *gin.Context) {
	data, _, _, ok := h.readUpload(c)
	if !ok {
		return
	}
	seconds, err := strconv.ParseFloat(c.DefaultPostForm("duration", "0"), 64)
	if err != nil || seconds < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duration"})
		return
	}
	if _, ok := visibleTask(c, h.app, c.Param("id")); !ok {
		return
	}

	ref, err := h.blobs.Put(c.Request.Context(), data)
	if err != nil {
		h.logger.Error("blob write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store voice message"})
		return
	}

	vm, err := h.app.AddVoiceMessage(c.Request.Context(), c.Param("id"), service.VoiceMessageInput{
		ContentRef: ref,
		Duration:   time.Duration(seconds * float64(time.Second)),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vm)
}

func (h *AttachmentHandler) DownloadVoice(c *gin.Context) {
	task, ok := visibleTask(c, h.app, c.Param("id"))
	if !ok {
		return
	}
	for _, vm := range task.VoiceMessages {
		if vm.ID == c.Param("voiceId") {
			h.serveBlob(c, vm.ContentRef, "audio/webm")
			return
		}
	}
	respondError(c, service.ErrVoiceNotFound)
}

func (h *AttachmentHandler) RemoveVoice(c *gin.Context) {
	if err := h.app.RemoveVoiceMessage(c.Request.Context(), c.Param("id"), c.Param("voiceId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// readUpload reads the "file" form field. On failure it has already written
// the response.
func (h *AttachmentHandler) readUpload(c *gin.Context) (data []byte, name, mimeType string, ok bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+1<<20)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return nil, "", "", false
	}
	if header.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return nil, "", "", false
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", "", false
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", "", false
	}

	mimeType = header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return data, header.Filename, mimeType, true
}

func (h *AttachmentHandler) serveBlob(c *gin.Context, ref, mimeType string) {
	data, err := h.blobs.Get(c.Request.Context(), ref)
	switch {
	case errors.Is(err, blob.ErrNotFound), errors.Is(err, blob.ErrInvalidRef):
		c.JSON(http.StatusNotFound, gin.H{"error": "Content is no longer available"})
		return
	case err != nil:
		h.logger.Error("blob read failed", zap.String("ref", ref), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read content"})
		return
	}
	c.Data(http.StatusOK, mimeType, data)
}

func findAttachment(atts []model.Attachment, id string) int {
	for i, a := range atts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

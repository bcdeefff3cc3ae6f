package handlers

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"rezerve/internal/core/apperror"
	"rezerve/internal/infrastructure/archive"
)

// ArchivesHandler exposes stored monthly report artifacts.
type ArchivesHandler struct {
	*BaseHandler
	archiver *archive.Archiver
}

// NewArchivesHandler creates an archives handler.
func NewArchivesHandler(base *BaseHandler, archiver *archive.Archiver) *ArchivesHandler {
	return &ArchivesHandler{BaseHandler: base, archiver: archiver}
}

// List handles GET /archives.
func (h *ArchivesHandler) List(c *gin.Context) {
	infos, err := h.archiver.ListArchives(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, infos)
}

// Get handles GET /archives/:name - returns the decoded artifact.
func (h *ArchivesHandler) Get(c *gin.Context) {
	name := c.Param("name")
	if filepath.Base(name) != name {
		h.Error(c, apperror.NewValidation("invalid archive name"))
		return
	}

	artifact, err := h.archiver.ReadArchive(c.Request.Context(), name)
	if err != nil {
		h.Error(c, apperror.NewNotFound("Archive", name))
		return
	}

	h.OK(c, artifact)
}

// Generate handles POST /archives/generate - archives the month
// preceding the current one for every branch.
func (h *ArchivesHandler) Generate(c *gin.Context) {
	archived, err := h.archiver.ArchivePreviousMonth(c.Request.Context(), time.Now())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"archived": archived})
}

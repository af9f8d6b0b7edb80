package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/media"
	"github.com/hayatfoundation/site/internal/storage"
	"github.com/hayatfoundation/site/internal/tasks"
)

const (
	publicUploadFolder = "attachments"
	defaultCMSFolder   = "cms"
	imageFolder        = "images"
)

// ThumbnailQueue enqueues thumbnail generation.
type ThumbnailQueue interface {
	EnqueueThumbnail(task tasks.GenerateThumbnailTask) error
}

// UploadsController stores files and gallery images.
type UploadsController struct {
	store    storage.Client
	maxBytes int64
	images   *ResourceController[entities.Image]

	queue     ThumbnailQueue // nil renders thumbnails inline
	thumbnail func(ctx context.Context, task tasks.GenerateThumbnailTask) error
}

func NewUploadsController(
	store storage.Client,
	maxBytes int64,
	images *ResourceController[entities.Image],
	gen tasks.ThumbnailGenerator,
	queue ThumbnailQueue,
) *UploadsController {
	if maxBytes <= 0 {
		maxBytes = config.DefaultUploadMaxBytes
	}
	uc := &UploadsController{
		store:    store,
		maxBytes: maxBytes,
		images:   images,
		queue:    queue,
	}
	if gen != nil && images != nil {
		uc.thumbnail = tasks.GenerateThumbnailProcessor(gen, tasks.ImageThumbnails(images.repo))
	}
	return uc
}

// UploadAttachment handles POST /api/uploads: donors attach transfer receipts
// and deposit slips (images or PDF).
func (uc *UploadsController) UploadAttachment(c *gin.Context) {
	uc.upload(c, publicUploadFolder)
}

// UploadCMS handles POST /api/cms/uploads; ?folder= (or the folder form
// field) picks the destination.
func (uc *UploadsController) UploadCMS(c *gin.Context) {
	folder := defaultCMSFolder
	if raw := strings.TrimSpace(c.DefaultPostForm("folder", c.Query("folder"))); raw != "" {
		folder = storage.SanitizeSegment(raw)
	}
	stored, ok := uc.upload(c, folder)
	if ok {
		uc.images.audit.LogWrite(actor(c), entities.AuditActionUpload, "uploads", nil, stored.Key, nil)
	}
}

func (uc *UploadsController) upload(c *gin.Context, folder string) (*storage.Stored, bool) {
	stored, ok := uc.save(c, folder, storage.KindImage, storage.KindDocument)
	if !ok {
		return nil, false
	}
	respondData(c, http.StatusCreated, stored)
	return stored, true
}

func (uc *UploadsController) save(c *gin.Context, folder string, kinds ...storage.Kind) (*storage.Stored, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "multipart field 'file' is required")
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		respondBadRequest(c, "failed to read upload")
		return nil, false
	}
	defer f.Close()

	stored, err := storage.Save(c.Request.Context(), uc.store, folder, fh.Filename, f, uc.maxBytes, kinds...)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrUnsupportedType):
			respondBadRequest(c, err.Error())
		default:
			respondUpstream(c, err, "store upload")
		}
		return nil, false
	}
	return stored, true
}

// UploadImage handles POST /api/cms/images/upload (multipart: file plus
// optional titleEn, titleAr, altEn, altAr, categoryId, isPublished).
//
// The image row is inserted first, then the file is stored and the row
// patched with its URL. A failure after the insert removes the row and the
// stored file again.
func (uc *UploadsController) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	repo := uc.images.repo

	image := &entities.Image{
		TitleEn: strings.TrimSpace(c.PostForm("titleEn")),
		TitleAr: strings.TrimSpace(c.PostForm("titleAr")),
		AltEn:   strings.TrimSpace(c.PostForm("altEn")),
		AltAr:   strings.TrimSpace(c.PostForm("altAr")),
	}
	if s := c.PostForm("categoryId"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid categoryId")
			return
		}
		cid := uint(id)
		image.CategoryID = &cid
	}
	if s := c.PostForm("isPublished"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			respondBadRequest(c, "invalid isPublished")
			return
		}
		image.IsPublished = b
	}
	if err := uc.images.validator.Struct(image); err != nil {
		respondValidation(c, err)
		return
	}
	if _, err := c.FormFile("file"); err != nil {
		respondBadRequest(c, "multipart field 'file' is required")
		return
	}

	who := actor(c)
	if err := repo.Create(ctx, image); err != nil {
		uc.images.audit.LogWrite(who, entities.AuditActionUpload, imageFolder, nil, "upload image", err)
		respondUpstream(c, err, "create image")
		return
	}

	stored, ok := uc.save(c, imageFolder, storage.KindImage)
	if !ok {
		uc.rollbackImage(image.ID, "")
		return
	}

	updated, err := repo.Update(ctx, image.ID, map[string]any{"image_url": stored.URL})
	if err != nil {
		uc.rollbackImage(image.ID, stored.Key)
		respondUpstream(c, err, "update image")
		return
	}

	task := tasks.GenerateThumbnailTask{ImageID: image.ID, Key: stored.Key}
	queued := false
	if uc.queue != nil {
		if err := uc.queue.EnqueueThumbnail(task); err != nil {
			log.Warn().Err(err).Uint("image_id", image.ID).Msg("Failed to enqueue thumbnail, rendering inline")
		} else {
			queued = true
		}
	}
	if !queued && uc.thumbnail != nil {
		if err := uc.thumbnail(ctx, task); err != nil {
			uc.rollbackImage(image.ID, stored.Key)
			uc.images.audit.LogWrite(who, entities.AuditActionUpload, imageFolder, []uint{image.ID}, "upload image", err)
			respondBadRequest(c, "image could not be processed")
			return
		}
		if updated, err = repo.FindByID(ctx, image.ID, false); err != nil {
			respondUpstream(c, err, "get image")
			return
		}
	}

	uc.images.audit.LogWrite(who, entities.AuditActionUpload, imageFolder, []uint{image.ID}, stored.Key, nil)
	respondData(c, http.StatusCreated, updated)
}

// rollbackImage removes an image row, and its file when key is set, after a
// failed upload step.
func (uc *UploadsController) rollbackImage(id uint, key string) {
	ctx := context.Background()
	if key != "" {
		for _, k := range []string{key, media.ThumbnailKey(key)} {
			if err := uc.store.Delete(ctx, k); err != nil && !errors.Is(err, storage.ErrNotFound) {
				log.Error().Err(err).Str("key", k).Msg("Failed to remove stored file during rollback")
			}
		}
	}
	if err := uc.images.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint("image_id", id).Msg("Failed to remove image row during rollback")
	}
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/audit"
	"github.com/hayatfoundation/site/internal/database/content"
	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/fieldmap"
	"github.com/hayatfoundation/site/internal/format"
	"github.com/hayatfoundation/site/internal/render"
	"github.com/hayatfoundation/site/internal/validation"
)

// WriteAuditor records CMS writes and snapshots deleted records.
type WriteAuditor interface {
	LogWrite(actor audit.Actor, action entities.AuditAction, entityType string, ids []uint, description string, err error)
	Archive(actor audit.Actor, entityType string, records any) (string, error)
}

type noopAuditor struct{}

func (noopAuditor) LogWrite(audit.Actor, entities.AuditAction, string, []uint, string, error) {}

func (noopAuditor) Archive(audit.Actor, string, any) (string, error) { return "", nil }

// resourceOptions describe how one entity is exposed.
type resourceOptions struct {
	Name    string   // URL segment and audit entity type
	Label   string   // Used in not-found messages
	Public  bool     // Registers GET /api/<name> and /api/<name>/:key
	Filters []string // Query keys accepted as equality filters, e.g. programId
}

// ResourceController serves the public and CMS endpoints of one entity.
type ResourceController[T entities.Record] struct {
	repo      *content.Repository[T]
	validator *validation.Validator
	audit     WriteAuditor
	opts      resourceOptions
}

func NewResourceController[T entities.Record](repo *content.Repository[T], v *validation.Validator, auditor WriteAuditor, opts resourceOptions) *ResourceController[T] {
	if auditor == nil {
		auditor = noopAuditor{}
	}
	if opts.Label == "" {
		opts.Label = opts.Name
	}
	return &ResourceController[T]{repo: repo, validator: v, audit: auditor, opts: opts}
}

// RegisterRoutes mounts the resource on the public and CMS groups.
func (rc *ResourceController[T]) RegisterRoutes(public, cms *gin.RouterGroup) {
	name := "/" + rc.opts.Name
	if rc.opts.Public && public != nil {
		public.GET(name, rc.List)
		public.GET(name+"/:key", rc.Detail)
	}
	if cms != nil {
		cms.GET(name, rc.CMSList)
		cms.POST(name, rc.Create)
		cms.POST(name+"/bulk-delete", rc.BulkDelete)
		cms.GET(name+"/:id", rc.CMSGet)
		cms.PATCH(name+"/:id", rc.Update)
		cms.DELETE(name+"/:id", rc.Delete)
	}
}

// List handles GET /api/<name>: published records only.
func (rc *ResourceController[T]) List(c *gin.Context) {
	published := true
	rc.list(c, &published)
}

// CMSList handles GET /api/cms/<name>, optionally filtered by ?published=.
func (rc *ResourceController[T]) CMSList(c *gin.Context) {
	var published *bool
	if s := c.Query("published"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			respondBadRequest(c, "invalid published")
			return
		}
		published = &b
	}
	rc.list(c, published)
}

func (rc *ResourceController[T]) list(c *gin.Context, published *bool) {
	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}

	filter := content.Filter{
		Published: published,
		Limit:     limit,
		Offset:    offset,
		OrderBy:   c.Query("orderBy"),
		Order:     c.Query("order"),
		Search:    c.Query("search"),
		Lang:      c.Query("lang"),
	}

	for _, key := range rc.opts.Filters {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		col, value, err := rc.repo.Mapping().ParseValue(key, raw)
		if err != nil {
			respondValidation(c, err)
			return
		}
		if filter.Equals == nil {
			filter.Equals = make(map[string]any)
		}
		filter.Equals[col] = value
	}

	items, total, err := rc.repo.FindMany(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, content.ErrUnknownColumn) {
			respondBadRequest(c, err.Error())
			return
		}
		respondUpstream(c, err, "list "+rc.opts.Name)
		return
	}
	if items == nil {
		items = []T{}
	}

	c.JSON(http.StatusOK, newListResponse(items, total, limit, offset))
}

// Detail handles GET /api/<name>/:key. Slugged entities are addressed by
// either language's slug, the rest by id. A successful read bumps the
// entity's counter without affecting the response.
func (rc *ResourceController[T]) Detail(c *gin.Context) {
	key := c.Param("key")
	ctx := c.Request.Context()

	var (
		item *T
		err  error
	)
	if rc.repo.Slugged() {
		item, err = rc.repo.FindBySlug(ctx, key, true)
	} else {
		id, parseErr := strconv.ParseUint(key, 10, 32)
		if parseErr != nil {
			respondNotFound(c, rc.opts.Label)
			return
		}
		item, err = rc.repo.FindByID(ctx, uint(id), true)
	}
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondNotFound(c, rc.opts.Label)
			return
		}
		respondUpstream(c, err, "get "+rc.opts.Label)
		return
	}

	rc.bumpCounter(c, (*item).GetID())

	out, err := rc.decorate(item)
	if err != nil {
		respondInternal(c, err, "render "+rc.opts.Label)
		return
	}
	c.JSON(http.StatusOK, ItemResponse{Success: true, Item: out})
}

func (rc *ResourceController[T]) bumpCounter(c *gin.Context, id uint) {
	col := rc.repo.CounterColumn()
	if col == "" {
		return
	}
	if err := rc.repo.IncrementCounter(c.Request.Context(), id, col); err != nil {
		log.Warn().Err(err).Str("resource", rc.opts.Name).Uint("id", id).Msg("Failed to increment counter")
	}
}

// decorate adds derived display fields: contentHtmlEn/contentHtmlAr rendered
// from the Markdown body, and durationLabel for videos.
func (rc *ResourceController[T]) decorate(item *T) (any, error) {
	m := rc.repo.Mapping()
	hasContent := m.HasColumn("content_en")
	hasDuration := m.HasColumn("duration_seconds")
	if !hasContent && !hasDuration {
		return item, nil
	}

	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if hasContent {
		for _, lang := range []string{"En", "Ar"} {
			src, _ := out["content"+lang].(string)
			out["contentHtml"+lang] = render.Markdown(src)
		}
	}
	if hasDuration {
		if v, ok := m.Value(item, "duration_seconds"); ok {
			if secs, ok := v.(int); ok && secs > 0 {
				out["durationLabel"] = format.Duration(secs)
			}
		}
	}
	return out, nil
}

// CMSGet handles GET /api/cms/<name>/:id regardless of publication.
func (rc *ResourceController[T]) CMSGet(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := rc.repo.FindByID(c.Request.Context(), id, false)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondNotFound(c, rc.opts.Label)
			return
		}
		respondUpstream(c, err, "get "+rc.opts.Label)
		return
	}
	respondData(c, http.StatusOK, item)
}

// Create handles POST /api/cms/<name>.
func (rc *ResourceController[T]) Create(c *gin.Context) {
	item, ok := rc.decodeNew(c, nil)
	if !ok {
		return
	}

	err := rc.repo.Create(c.Request.Context(), item)
	var id uint
	if err == nil {
		id = (*item).GetID()
	}
	rc.audit.LogWrite(actor(c), entities.AuditActionCreate, rc.opts.Name, []uint{id}, "created "+rc.opts.Label, err)
	if err != nil {
		respondUpstream(c, err, "create "+rc.opts.Label)
		return
	}

	respondData(c, http.StatusCreated, item)
}

// decodeNew builds a new record from the JSON body: protected keys are
// stripped, values decoded into field types, prepare (if any) runs, then the
// record is validated and its slugs filled in. It writes the error response
// itself and reports false on failure.
func (rc *ResourceController[T]) decodeNew(c *gin.Context, prepare func(*T)) (*T, bool) {
	cols, ok := rc.decodeColumns(c)
	if !ok {
		return nil, false
	}

	item := new(T)
	if err := rc.repo.Apply(item, cols); err != nil {
		respondValidation(c, err)
		return nil, false
	}
	if prepare != nil {
		prepare(item)
	}
	if err := rc.validator.Struct(item); err != nil {
		respondValidation(c, err)
		return nil, false
	}
	if err := rc.ensureSlugs(c, item, 0); err != nil {
		return nil, false
	}
	return item, true
}

func (rc *ResourceController[T]) decodeColumns(c *gin.Context) (map[string]any, bool) {
	var payload map[string]json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	cols, err := rc.repo.Mapping().ToStorage(payload)
	if err != nil {
		respondValidation(c, err)
		return nil, false
	}
	return cols, true
}

func (rc *ResourceController[T]) ensureSlugs(c *gin.Context, item *T, excludeID uint) error {
	err := rc.repo.EnsureSlugs(c.Request.Context(), item, excludeID)
	if err == nil {
		return nil
	}
	if errors.Is(err, content.ErrSlugTaken) {
		respondValidation(c, err)
	} else {
		respondUpstream(c, err, "generate slug")
	}
	return err
}

// Update handles PATCH /api/cms/<name>/:id. Only the keys present in the body
// are written; the merged record must still validate.
func (rc *ResourceController[T]) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rc.update(c, id)
}

func (rc *ResourceController[T]) update(c *gin.Context, id uint) {
	ctx := c.Request.Context()

	existing, err := rc.repo.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondNotFound(c, rc.opts.Label)
			return
		}
		respondUpstream(c, err, "get "+rc.opts.Label)
		return
	}

	cols, ok := rc.decodeColumns(c)
	if !ok {
		return
	}
	if len(cols) == 0 {
		respondData(c, http.StatusOK, existing)
		return
	}

	if err := rc.repo.Apply(existing, cols); err != nil {
		respondValidation(c, err)
		return
	}
	if err := rc.validator.Struct(existing); err != nil {
		respondValidation(c, err)
		return
	}
	if rc.repo.Slugged() {
		if err := rc.ensureSlugs(c, existing, id); err != nil {
			return
		}
		m := rc.repo.Mapping()
		for _, col := range []string{"slug_en", "slug_ar"} {
			if v, ok := m.Value(existing, col); ok {
				cols[col] = v
			}
		}
	}

	updated, err := rc.repo.Update(ctx, id, cols)
	rc.audit.LogWrite(actor(c), entities.AuditActionUpdate, rc.opts.Name, []uint{id}, updateDescription(rc.repo.Mapping(), cols), err)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondNotFound(c, rc.opts.Label)
			return
		}
		respondUpstream(c, err, "update "+rc.opts.Label)
		return
	}

	respondData(c, http.StatusOK, updated)
}

// Delete handles DELETE /api/cms/<name>/:id.
func (rc *ResourceController[T]) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	item, err := rc.repo.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondNotFound(c, rc.opts.Label)
			return
		}
		respondUpstream(c, err, "get "+rc.opts.Label)
		return
	}

	who := actor(c)
	rc.archive(who, []T{*item})

	err = rc.repo.Delete(ctx, id)
	rc.audit.LogWrite(who, entities.AuditActionDelete, rc.opts.Name, []uint{id}, "deleted "+rc.opts.Label, err)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondNotFound(c, rc.opts.Label)
			return
		}
		respondUpstream(c, err, "delete "+rc.opts.Label)
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": 1, "id": id})
}

type bulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1,max=500,dive,gt=0"`
}

// BulkDelete handles POST /api/cms/<name>/bulk-delete with {ids: [...]}.
func (rc *ResourceController[T]) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ids must be a non-empty list of ids", Details: err.Error()})
		return
	}
	ctx := c.Request.Context()

	records, err := rc.repo.FindByIDs(ctx, req.IDs)
	if err != nil {
		respondUpstream(c, err, "load "+rc.opts.Label)
		return
	}

	who := actor(c)
	rc.archive(who, records)

	deleted, err := rc.repo.BulkDelete(ctx, req.IDs)
	rc.audit.LogWrite(who, entities.AuditActionBulkDelete, rc.opts.Name, req.IDs, fmt.Sprintf("deleted %d %s", deleted, rc.opts.Name), err)
	if err != nil {
		respondUpstream(c, err, "bulk delete "+rc.opts.Name)
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": deleted})
}

func (rc *ResourceController[T]) archive(who audit.Actor, records []T) {
	if len(records) == 0 {
		return
	}
	file, err := rc.audit.Archive(who, rc.opts.Name, records)
	if err != nil {
		log.Error().Err(err).Str("resource", rc.opts.Name).Msg("Failed to archive deleted records")
		return
	}
	if file != "" {
		log.Debug().Str("resource", rc.opts.Name).Str("file", file).Msg("Archived deleted records")
	}
}

// updateDescription names the changed fields by their API keys, e.g.
// "updated isPublished, titleEn".
func updateDescription(m *fieldmap.Mapping, cols map[string]any) string {
	keys := make([]string, 0, len(cols))
	for col := range cols {
		if key, ok := m.AppKey(col); ok {
			keys = append(keys, key)
		} else {
			keys = append(keys, col)
		}
	}
	sort.Strings(keys)
	return "updated " + strings.Join(keys, ", ")
}

// Package content provides one generic repository shared by every content
// entity of the site.
//
// # Usage
//
//	repo := content.NewRepository[entities.News](db, content.Options{
//		SearchColumns: []string{"title_en", "title_ar", "excerpt_en", "excerpt_ar"},
//		CounterColumn: "page_views",
//	})
//	items, total, err := repo.FindMany(ctx, content.Filter{Search: "بئر", Limit: 12})
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/fieldmap"
	"github.com/hayatfoundation/site/internal/locale"
	"github.com/hayatfoundation/site/internal/slug"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrSlugTaken     = errors.New("slug is already used by another record")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNotSlugged    = errors.New("entity has no slugs")
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

const (
	columnID          = "id"
	columnSlugEn      = "slug_en"
	columnSlugAr      = "slug_ar"
	columnIsPublished = "is_published"
	columnPublishedAt = "published_at"
	columnUpdatedAt   = "updated_at"
)

// Options configure a repository for one entity. Column names are storage
// columns and must exist on the entity.
type Options struct {
	SearchColumns  []string
	DefaultOrderBy string // created_at when empty
	CounterColumn  string // Incremented on public detail reads; empty disables it
}

// Filter is the query bag accepted by FindMany.
type Filter struct {
	Published *bool
	Equals    map[string]any // Column (or app key) -> value, e.g. parent ids
	Limit     int
	Offset    int
	OrderBy   string // App key or column
	Order     string // "asc" or "desc"
	Search    string
	Lang      string // Restricts search to one language's columns
}

// Repository reads and writes one entity type.
type Repository[T entities.Record] struct {
	db          *gorm.DB
	mapping     *fieldmap.Mapping
	opts        Options
	publishable bool
	slugged     bool
}

// NewRepository creates a repository for entity T.
func NewRepository[T entities.Record](db *gorm.DB, opts Options) *Repository[T] {
	m := fieldmap.For[T]()
	if opts.DefaultOrderBy == "" {
		opts.DefaultOrderBy = "created_at"
	}
	return &Repository[T]{
		db:          db,
		mapping:     m,
		opts:        opts,
		publishable: m.HasColumn(columnIsPublished),
		slugged:     m.HasColumn(columnSlugEn) && m.HasColumn(columnSlugAr),
	}
}

func (r *Repository[T]) Mapping() *fieldmap.Mapping {
	return r.mapping
}

// Publishable reports whether the entity has a publication flag.
func (r *Repository[T]) Publishable() bool {
	return r.publishable
}

// Slugged reports whether the entity is addressed by bilingual slugs.
func (r *Repository[T]) Slugged() bool {
	return r.slugged
}

func (r *Repository[T]) CounterColumn() string {
	return r.opts.CounterColumn
}

// FindBySlug returns the record whose English or Arabic slug equals s.
//
// Each slug column is unique, so at most two rows can match. When they do,
// the English-slug match wins.
func (r *Repository[T]) FindBySlug(ctx context.Context, s string, publishedOnly bool) (*T, error) {
	if !r.slugged {
		return nil, ErrNotSlugged
	}
	if s == "" {
		return nil, ErrNotFound
	}

	query := r.db.WithContext(ctx).Where("slug_en = ? OR slug_ar = ?", s, s)
	if publishedOnly && r.publishable {
		query = query.Where("is_published = ?", true)
	}

	var rows []T
	if err := query.Order("id ASC").Limit(2).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	for i := range rows {
		if v, _ := r.mapping.Value(&rows[i], columnSlugEn); v == s {
			return &rows[i], nil
		}
	}
	return &rows[0], nil
}

// FindByID returns the record with the given id.
func (r *Repository[T]) FindByID(ctx context.Context, id uint, publishedOnly bool) (*T, error) {
	query := r.db.WithContext(ctx)
	if publishedOnly && r.publishable {
		query = query.Where("is_published = ?", true)
	}

	var item T
	if err := query.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs returns the records with the given ids, ignoring missing ones.
func (r *Repository[T]) FindByIDs(ctx context.Context, ids []uint) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []T
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindMany returns one page of records matching f together with the total
// number of matches.
func (r *Repository[T]) FindMany(ctx context.Context, f Filter) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T))

	if f.Published != nil && r.publishable {
		query = query.Where("is_published = ?", *f.Published)
	}

	for key, value := range f.Equals {
		col, ok := r.mapping.Column(key)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
		}
		query = query.Where(clause.Eq{Column: clause.Column{Name: col}, Value: value})
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		if cond, args := r.searchCondition(search, f.Lang); cond != "" {
			query = query.Where(cond, args...)
		}
	}

	orderCol := r.opts.DefaultOrderBy
	if f.OrderBy != "" {
		col, ok := r.mapping.Column(f.OrderBy)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownColumn, f.OrderBy)
		}
		orderCol = col
	}
	desc := !strings.EqualFold(f.Order, "asc")

	limit, offset := NormalizePage(f.Limit, f.Offset)

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []T
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderCol}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: columnID}, Desc: desc}).
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// NormalizePage applies the default and maximum page size.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (r *Repository[T]) searchCondition(search, lang string) (string, []any) {
	columns := r.opts.SearchColumns
	if locale.Supported(lang) {
		if scoped := locale.Columns(columns, lang); len(scoped) > 0 {
			columns = scoped
		}
	}

	pattern := "%" + escapeLike(search) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		if !r.mapping.HasColumn(col) {
			continue
		}
		parts = append(parts, "LOWER("+col+") LIKE LOWER(?) ESCAPE '\\'")
		args = append(args, pattern)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// IncrementCounter adds one to column with a single UPDATE statement.
// updated_at is left untouched.
func (r *Repository[T]) IncrementCounter(ctx context.Context, id uint, column string) error {
	if !r.mapping.HasColumn(column) {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	result := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Create inserts item. A published item without a publication date gets the
// current time.
func (r *Repository[T]) Create(ctx context.Context, item *T) error {
	if r.publishable {
		published, _ := r.mapping.Value(item, columnIsPublished)
		at, _ := r.mapping.Value(item, columnPublishedAt)
		if published == true && isNilTime(at) {
			now := time.Now()
			if err := r.mapping.SetValue(item, columnPublishedAt, &now); err != nil {
				return err
			}
		}
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// Apply sets the given column values on item without touching the database.
func (r *Repository[T]) Apply(item *T, columns map[string]any) error {
	for col, v := range columns {
		if err := r.mapping.SetValue(item, col, v); err != nil {
			return err
		}
	}
	return nil
}

// Update writes the given columns of record id and returns the updated
// record. Only the listed columns change; updated_at is always stamped.
func (r *Repository[T]) Update(ctx context.Context, id uint, columns map[string]any) (*T, error) {
	cols := make(map[string]any, len(columns)+1)
	for col, v := range columns {
		if col == columnID || col == "created_at" {
			continue
		}
		if !r.mapping.HasColumn(col) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
		cols[col] = v
	}
	if r.publishable && cols[columnIsPublished] == true {
		if _, ok := cols[columnPublishedAt]; !ok {
			cols[columnPublishedAt] = gorm.Expr("COALESCE(published_at, ?)", time.Now())
		}
	}
	cols[columnUpdatedAt] = time.Now()

	result := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id, false)
}

// Delete removes record id.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkDelete removes every listed record and returns how many were deleted.
func (r *Repository[T]) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(new(T))
	return result.RowsAffected, result.Error
}

// SlugTaken reports whether s is used as an English or Arabic slug by any
// record other than excludeID.
func (r *Repository[T]) SlugTaken(ctx context.Context, s string, excludeID uint) (bool, error) {
	if !r.slugged {
		return false, ErrNotSlugged
	}
	var count int64
	query := r.db.WithContext(ctx).Model(new(T)).Where("slug_en = ? OR slug_ar = ?", s, s)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnsureSlugs normalizes the slugs of item and fills in missing ones from its
// title (or name). A provided slug that another record already uses, in
// either language, is rejected with ErrSlugTaken; generated slugs get a
// numeric suffix instead.
func (r *Repository[T]) EnsureSlugs(ctx context.Context, item *T, excludeID uint) error {
	if !r.slugged {
		return nil
	}
	taken := func(ctx context.Context, candidate string) (bool, error) {
		return r.SlugTaken(ctx, candidate, excludeID)
	}

	for _, lang := range []string{locale.English, locale.Arabic} {
		col := "slug_" + lang
		current := r.stringValue(item, col)

		if normalized := slug.Make(current); normalized != "" {
			used, err := taken(ctx, normalized)
			if err != nil {
				return err
			}
			if used {
				return fmt.Errorf("%w: %s", ErrSlugTaken, normalized)
			}
			if err := r.mapping.SetValue(item, col, normalized); err != nil {
				return err
			}
			continue
		}

		other := locale.English
		if lang == locale.English {
			other = locale.Arabic
		}
		generated, err := slug.Unique(ctx, r.titleOf(item, lang), r.titleOf(item, other), taken)
		if err != nil {
			return err
		}
		if err := r.mapping.SetValue(item, col, generated); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository[T]) titleOf(item *T, lang string) string {
	for _, base := range []string{"title_", "name_", "question_"} {
		if v := r.stringValue(item, base+lang); v != "" {
			return v
		}
	}
	return ""
}

func (r *Repository[T]) stringValue(item *T, column string) string {
	v, ok := r.mapping.Value(item, column)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func isNilTime(v any) bool {
	t, ok := v.(*time.Time)
	return v == nil || (ok && t == nil)
}

package content

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hayatfoundation/site/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "content.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(entities.All()...)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}
	return db, cleanup
}

func newsRepo(db *gorm.DB) *Repository[entities.News] {
	return NewRepository[entities.News](db, Options{
		SearchColumns: []string{"title_en", "title_ar", "excerpt_en", "excerpt_ar"},
		CounterColumn: "page_views",
	})
}

func createNews(t *testing.T, repo *Repository[entities.News], titleEn, titleAr string, published bool) *entities.News {
	t.Helper()
	item := &entities.News{TitleEn: titleEn, TitleAr: titleAr}
	item.IsPublished = published
	require.NoError(t, repo.EnsureSlugs(context.Background(), item, 0))
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestRepository_FindBySlug_EitherLanguage(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	created := createNews(t, repo, "New Water Well", "بئر ماء جديدة", true)
	assert.Equal(t, "new-water-well", created.SlugEn)
	assert.Equal(t, "بئر-ماء-جديدة", created.SlugAr)

	byEn, err := repo.FindBySlug(ctx, "new-water-well", true)
	require.NoError(t, err)
	byAr, err := repo.FindBySlug(ctx, "بئر-ماء-جديدة", true)
	require.NoError(t, err)

	assert.Equal(t, created.ID, byEn.ID)
	assert.Equal(t, created.ID, byAr.ID)
}

func TestRepository_FindBySlug_UnpublishedHiddenFromPublic(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	draft := createNews(t, repo, "Draft", "مسودة", false)

	_, err := repo.FindBySlug(ctx, draft.SlugEn, true)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := repo.FindBySlug(ctx, draft.SlugEn, false)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)

	items, total, err := repo.FindMany(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)

	published := true
	_, total, err = repo.FindMany(ctx, Filter{Published: &published})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestRepository_FindBySlug_PrefersEnglishMatch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	// Inserted directly to bypass the cross-language check in EnsureSlugs.
	first := &entities.News{TitleEn: "A", TitleAr: "أ", SlugEn: "first", SlugAr: "shared"}
	first.IsPublished = true
	require.NoError(t, db.Create(first).Error)
	second := &entities.News{TitleEn: "B", TitleAr: "ب", SlugEn: "shared", SlugAr: "second"}
	second.IsPublished = true
	require.NoError(t, db.Create(second).Error)

	found, err := repo.FindBySlug(ctx, "shared", true)
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)
}

func TestRepository_FindBySlug_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)

	_, err := repo.FindBySlug(context.Background(), "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindBySlug(context.Background(), "", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_FindBySlug_NotSlugged(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository[entities.FAQ](db, Options{})

	assert.False(t, repo.Slugged())
	_, err := repo.FindBySlug(context.Background(), "x", true)
	assert.ErrorIs(t, err, ErrNotSlugged)
}

func TestRepository_FindMany_SearchMatchesArabicTitle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	target := createNews(t, repo, "Ramadan food baskets", "سلال غذائية رمضانية", true)
	createNews(t, repo, "School supplies", "لوازم مدرسية", true)

	items, total, err := repo.FindMany(ctx, Filter{Search: "غذائية"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, target.ID, items[0].ID)

	items, _, err = repo.FindMany(ctx, Filter{Search: "RAMADAN"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, target.ID, items[0].ID)

	// Restricted to English columns the Arabic term no longer matches.
	items, _, err = repo.FindMany(ctx, Filter{Search: "غذائية", Lang: "en"})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepository_FindMany_SearchEscapesWildcards(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)

	createNews(t, repo, "Hundred percent", "مئة", true)
	createNews(t, repo, "100% funded", "ممول", true)

	items, _, err := repo.FindMany(context.Background(), Filter{Search: "%"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "100% funded", items[0].TitleEn)
}

func TestRepository_FindMany_PaginationAndOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	for _, title := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"} {
		createNews(t, repo, title, title+" ع", true)
	}

	items, total, err := repo.FindMany(ctx, Filter{Limit: 2, Offset: 1, OrderBy: "titleEn", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Bravo", items[0].TitleEn)
	assert.Equal(t, "Charlie", items[1].TitleEn)

	items, _, err = repo.FindMany(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Echo", items[0].TitleEn, "default order is newest first")

	_, _, err = repo.FindMany(ctx, Filter{OrderBy: "title_en; DROP TABLE news"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestRepository_FindMany_ParentFilter(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	program := &entities.Program{TitleEn: "Health", TitleAr: "صحة", SlugEn: "health", SlugAr: "صحة"}
	require.NoError(t, db.Create(program).Error)

	linked := &entities.News{TitleEn: "Clinic", TitleAr: "عيادة", SlugEn: "clinic", SlugAr: "عيادة", ProgramID: &program.ID}
	require.NoError(t, repo.Create(ctx, linked))
	createNews(t, repo, "Other", "آخر", false)

	items, total, err := repo.FindMany(ctx, Filter{Equals: map[string]any{"programId": program.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, linked.ID, items[0].ID)

	_, _, err = repo.FindMany(ctx, Filter{Equals: map[string]any{"bogus": 1}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestRepository_IncrementCounter_Sequential(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	item := createNews(t, repo, "Counted", "معدود", true)
	before := item.UpdatedAt

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.IncrementCounter(ctx, item.ID, "page_views"))
	}

	reloaded, err := repo.FindByID(ctx, item.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.PageViews)
	assert.True(t, reloaded.UpdatedAt.Equal(before), "counter must not touch updated_at")
}

func TestRepository_IncrementCounter_ConcurrentNeverDecrements(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	item := createNews(t, repo, "Busy", "مزدحم", true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.IncrementCounter(ctx, item.ID, "page_views")
		}()
	}
	wg.Wait()

	reloaded, err := repo.FindByID(ctx, item.ID, false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reloaded.PageViews, 1)
	assert.LessOrEqual(t, reloaded.PageViews, 10)
}

func TestRepository_IncrementCounter_Errors(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)

	assert.ErrorIs(t, repo.IncrementCounter(context.Background(), 999, "page_views"), ErrNotFound)
	assert.ErrorIs(t, repo.IncrementCounter(context.Background(), 1, "page_views = 0 --"), ErrUnknownColumn)
}

func TestRepository_Update_Partial(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	item := createNews(t, repo, "Original", "الأصل", false)
	item.ExcerptEn = "keep me"
	require.NoError(t, db.Save(item).Error)
	createdAt := item.CreatedAt

	time.Sleep(10 * time.Millisecond)
	updated, err := repo.Update(ctx, item.ID, map[string]any{
		"title_en":   "Changed",
		"id":         uint(42),
		"created_at": time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, "Changed", updated.TitleEn)
	assert.Equal(t, "الأصل", updated.TitleAr)
	assert.Equal(t, "keep me", updated.ExcerptEn)
	assert.Equal(t, item.SlugEn, updated.SlugEn)
	assert.True(t, updated.CreatedAt.Equal(createdAt))
	assert.True(t, updated.UpdatedAt.After(item.UpdatedAt))
}

func TestRepository_Update_PublishStampsPublishedAt(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	item := createNews(t, repo, "Later", "لاحقا", false)
	assert.Nil(t, item.PublishedAt)

	updated, err := repo.Update(ctx, item.ID, map[string]any{"is_published": true})
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
	require.NotNil(t, updated.PublishedAt)
}

func TestRepository_Update_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)

	_, err := repo.Update(context.Background(), 404, map[string]any{"title_en": "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(context.Background(), 1, map[string]any{"nope": "x"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestRepository_CreatePublishedStampsPublishedAt(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)

	item := createNews(t, repo, "Now", "الآن", true)
	require.NotNil(t, item.PublishedAt)
}

func TestRepository_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	item := createNews(t, repo, "Gone", "ذهب", true)
	require.NoError(t, repo.Delete(ctx, item.ID))

	_, err := repo.FindByID(ctx, item.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), ErrNotFound)
}

func TestRepository_BulkDelete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	a := createNews(t, repo, "One", "واحد", true)
	b := createNews(t, repo, "Two", "اثنان", true)
	c := createNews(t, repo, "Three", "ثلاثة", true)

	n, err := repo.BulkDelete(ctx, []uint{a.ID, b.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, total, err := repo.FindMany(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	remaining, err := repo.FindByID(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Three", remaining.TitleEn)

	n, err = repo.BulkDelete(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepository_EnsureSlugs(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := newsRepo(db)
	ctx := context.Background()

	first := createNews(t, repo, "Annual Gala", "الحفل السنوي", true)
	second := createNews(t, repo, "Annual Gala", "الحفل السنوي", true)
	assert.Equal(t, "annual-gala", first.SlugEn)
	assert.Equal(t, "annual-gala-2", second.SlugEn)
	assert.Equal(t, "الحفل-السنوي-2", second.SlugAr)

	t.Run("provided slug is normalized", func(t *testing.T) {
		item := &entities.News{TitleEn: "x", TitleAr: "y", SlugEn: "  Hello World ", SlugAr: "مرحبا"}
		require.NoError(t, repo.EnsureSlugs(ctx, item, 0))
		assert.Equal(t, "hello-world", item.SlugEn)
	})

	t.Run("cross-language collision is rejected", func(t *testing.T) {
		item := &entities.News{TitleEn: "x", TitleAr: "y", SlugEn: first.SlugAr}
		err := repo.EnsureSlugs(ctx, item, 0)
		assert.True(t, errors.Is(err, ErrSlugTaken))
	})

	t.Run("own slug is not a collision", func(t *testing.T) {
		item := *first
		require.NoError(t, repo.EnsureSlugs(ctx, &item, first.ID))
		assert.Equal(t, first.SlugEn, item.SlugEn)
	})

	t.Run("name is used when there is no title", func(t *testing.T) {
		cats := NewRepository[entities.NewsCategory](db, Options{})
		cat := &entities.NewsCategory{}
		cat.NameEn = "Field Reports"
		cat.NameAr = "تقارير ميدانية"
		require.NoError(t, cats.EnsureSlugs(ctx, cat, 0))
		assert.Equal(t, "field-reports", cat.SlugEn)
		assert.Equal(t, "تقارير-ميدانية", cat.SlugAr)
	})

	t.Run("falls back to the other language", func(t *testing.T) {
		item := &entities.News{TitleEn: "Only English", TitleAr: "!!!"}
		require.NoError(t, repo.EnsureSlugs(ctx, item, 0))
		assert.Equal(t, "only-english", item.SlugEn)
		assert.Equal(t, "only-english", item.SlugAr)
	})
}

func TestNormalizePage(t *testing.T) {
	limit, offset := NormalizePage(0, -3)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 0, offset)

	limit, _ = NormalizePage(1000, 0)
	assert.Equal(t, MaxLimit, limit)
}

package stats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hayatfoundation/site/internal/entities"
)

func TestRepository_Counts(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "stats.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities.All()...))
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	live := entities.Program{TitleEn: "A", TitleAr: "أ", SlugEn: "a", SlugAr: "أ", BeneficiaryCount: 1200}
	live.IsPublished = true
	draft := entities.Program{TitleEn: "B", TitleAr: "ب", SlugEn: "b", SlugAr: "ب", BeneficiaryCount: 99}
	require.NoError(t, db.Create(&live).Error)
	require.NoError(t, db.Create(&draft).Error)

	project := entities.Project{TitleEn: "P", TitleAr: "م", SlugEn: "p", SlugAr: "م", Beneficiaries: 300}
	project.IsPublished = true
	require.NoError(t, db.Create(&project).Error)

	require.NoError(t, db.Create(&entities.Donation{
		DonorName: "x", Email: "x@example.org", Amount: 10,
		Method: entities.DonationMethodStripe, Status: entities.DonationStatusCompleted,
	}).Error)
	require.NoError(t, db.Create(&entities.Donation{
		DonorName: "y", Email: "y@example.org", Amount: 10,
		Method: entities.DonationMethodStripe, Status: entities.DonationStatusPending,
	}).Error)

	require.NoError(t, db.Create(&entities.NewsletterMember{Email: "a@example.org", IsActive: true}).Error)
	require.NoError(t, db.Create(&entities.NewsletterMember{Email: "b@example.org", IsActive: false}).Error)

	counts, err := NewRepository(db).Counts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), counts.Programs)
	assert.Equal(t, int64(1), counts.Projects)
	assert.Equal(t, int64(1500), counts.Beneficiaries)
	assert.Equal(t, int64(1), counts.Donations)
	assert.Equal(t, int64(1), counts.Subscribers)
	assert.Zero(t, counts.News)
}

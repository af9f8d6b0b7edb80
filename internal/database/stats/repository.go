// Package stats aggregates the public impact numbers shown on the home page.
package stats

import (
	"context"

	"gorm.io/gorm"

	"github.com/hayatfoundation/site/internal/database/newsletter"
	"github.com/hayatfoundation/site/internal/entities"
)

// Counts are totals over published content, plus completed donations,
// accepted volunteers and active newsletter subscribers.
type Counts struct {
	Programs      int64 `json:"programs"`
	Projects      int64 `json:"projects"`
	Activities    int64 `json:"activities"`
	News          int64 `json:"news"`
	Beneficiaries int64 `json:"beneficiaries"`
	Donations     int64 `json:"donations"`
	Volunteers    int64 `json:"volunteers"`
	Partners      int64 `json:"partners"`
	Subscribers   int64 `json:"subscribers"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Counts(ctx context.Context) (*Counts, error) {
	db := r.db.WithContext(ctx)
	c := &Counts{}

	published := []struct {
		model any
		dest  *int64
	}{
		{&entities.Program{}, &c.Programs},
		{&entities.Project{}, &c.Projects},
		{&entities.Activity{}, &c.Activities},
		{&entities.News{}, &c.News},
		{&entities.Partner{}, &c.Partners},
	}
	for _, p := range published {
		if err := db.Model(p.model).Where("is_published = ?", true).Count(p.dest).Error; err != nil {
			return nil, err
		}
	}

	err := db.Model(&entities.Donation{}).
		Where("status = ?", entities.DonationStatusCompleted).
		Count(&c.Donations).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&entities.VolunteerRequest{}).
		Where("status = ?", entities.RequestStatusAccepted).
		Count(&c.Volunteers).Error
	if err != nil {
		return nil, err
	}

	var fromPrograms, fromProjects int64
	err = db.Model(&entities.Program{}).
		Where("is_published = ?", true).
		Select("COALESCE(SUM(beneficiary_count), 0)").
		Scan(&fromPrograms).Error
	if err != nil {
		return nil, err
	}
	err = db.Model(&entities.Project{}).
		Where("is_published = ?", true).
		Select("COALESCE(SUM(beneficiaries), 0)").
		Scan(&fromProjects).Error
	if err != nil {
		return nil, err
	}
	c.Beneficiaries = fromPrograms + fromProjects

	c.Subscribers, err = newsletter.NewRepository(r.db).CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return c, nil
}

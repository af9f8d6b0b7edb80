package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Publication is a downloadable document (brochure, study, guide).
type Publication struct {
	Model
	PublishState
	TitleEn         string                      `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr         string                      `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SlugEn          string                      `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr          string                      `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	DescriptionEn   string                      `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr   string                      `gorm:"type:text" json:"descriptionAr"`
	FileURL         string                      `gorm:"size:2048" json:"fileUrl" validate:"omitempty,url|startswith=/"`
	CoverImageURL   string                      `gorm:"size:2048" json:"coverImageUrl" validate:"omitempty,url|startswith=/"`
	PublicationType string                      `gorm:"size:50" json:"publicationType" validate:"max=50"`
	KeywordsEn      datatypes.JSONSlice[string] `json:"keywordsEn"`
	KeywordsAr      datatypes.JSONSlice[string] `json:"keywordsAr"`
	Downloads       int                         `gorm:"not null;default:0" json:"downloads" validate:"min=0"`

	CategoryID *uint          `gorm:"index" json:"categoryId"`
	Category   *MediaCategory `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

type Report struct {
	Model
	PublishState
	TitleEn       string `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr       string `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SlugEn        string `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr        string `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	DescriptionEn string `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr string `gorm:"type:text" json:"descriptionAr"`
	FileURL       string `gorm:"size:2048" json:"fileUrl" validate:"omitempty,url|startswith=/"`
	CoverImageURL string `gorm:"size:2048" json:"coverImageUrl" validate:"omitempty,url|startswith=/"`
	ReportType    string `gorm:"size:20;default:'annual'" json:"reportType" validate:"omitempty,oneof=annual financial impact audit other"`
	Year          int    `gorm:"index" json:"year" validate:"omitempty,min=1900,max=2100"`
	Downloads     int    `gorm:"not null;default:0" json:"downloads" validate:"min=0"`
}

type Video struct {
	Model
	PublishState
	TitleEn         string `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr         string `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SlugEn          string `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr          string `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	DescriptionEn   string `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr   string `gorm:"type:text" json:"descriptionAr"`
	VideoURL        string `gorm:"size:2048;not null" json:"videoUrl" validate:"required,url|startswith=/"`
	ThumbnailURL    string `gorm:"size:2048" json:"thumbnailUrl" validate:"omitempty,url|startswith=/"`
	DurationSeconds int    `gorm:"default:0" json:"durationSeconds" validate:"min=0"`
	IsFeatured      bool   `gorm:"default:false" json:"isFeatured"`
	Views           int    `gorm:"not null;default:0" json:"views" validate:"min=0"`

	CategoryID *uint          `gorm:"index" json:"categoryId"`
	Category   *MediaCategory `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

// Image is a gallery photo. The file itself lives in upload storage; the row
// carries its public URL and the generated thumbnail URL.
type Image struct {
	Model
	PublishState
	TitleEn       string     `gorm:"size:255" json:"titleEn" validate:"max=255"`
	TitleAr       string     `gorm:"size:255" json:"titleAr" validate:"max=255"`
	DescriptionEn string     `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr string     `gorm:"type:text" json:"descriptionAr"`
	AltEn         string     `gorm:"size:255" json:"altEn" validate:"max=255"`
	AltAr         string     `gorm:"size:255" json:"altAr" validate:"max=255"`
	ImageURL      string     `gorm:"size:2048" json:"imageUrl" validate:"omitempty,url|startswith=/"`
	ThumbnailURL  string     `gorm:"size:2048" json:"thumbnailUrl" validate:"omitempty,url|startswith=/"`
	Width         int        `gorm:"default:0" json:"width" validate:"min=0"`
	Height        int        `gorm:"default:0" json:"height" validate:"min=0"`
	TakenAt       *time.Time `json:"takenAt"`
	Views         int        `gorm:"not null;default:0" json:"views" validate:"min=0"`

	CategoryID *uint          `gorm:"index" json:"categoryId"`
	Category   *MediaCategory `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

// Category shape shared by media, news and project categories.
type Category struct {
	NameEn        string `gorm:"size:255;not null" json:"nameEn" validate:"required,max=255"`
	NameAr        string `gorm:"size:255;not null" json:"nameAr" validate:"required,max=255"`
	SlugEn        string `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr        string `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	DescriptionEn string `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr string `gorm:"type:text" json:"descriptionAr"`
	SortOrder     int    `gorm:"default:0" json:"sortOrder"`
}

type MediaCategory struct {
	Model
	PublishState
	Category
}

type NewsCategory struct {
	Model
	PublishState
	Category
}

type ProjectCategory struct {
	Model
	PublishState
	Category
}

func (Publication) TableName() string {
	return "publications"
}

func (Report) TableName() string {
	return "reports"
}

func (Video) TableName() string {
	return "videos"
}

func (Image) TableName() string {
	return "images"
}

func (MediaCategory) TableName() string {
	return "media_categories"
}

func (NewsCategory) TableName() string {
	return "news_categories"
}

func (ProjectCategory) TableName() string {
	return "project_categories"
}

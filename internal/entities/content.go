package entities

import (
	"time"

	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
)

type Program struct {
	Model
	PublishState
	TitleEn          string                      `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr          string                      `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SlugEn           string                      `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr           string                      `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	DescriptionEn    string                      `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr    string                      `gorm:"type:text" json:"descriptionAr"`
	ContentEn        string                      `gorm:"type:text" json:"contentEn"`
	ContentAr        string                      `gorm:"type:text" json:"contentAr"`
	CoverImageURL    string                      `gorm:"size:2048" json:"coverImageUrl" validate:"omitempty,url|startswith=/"`
	Icon             string                      `gorm:"size:100" json:"icon"`
	KeywordsEn       datatypes.JSONSlice[string] `json:"keywordsEn"`
	KeywordsAr       datatypes.JSONSlice[string] `json:"keywordsAr"`
	IsFeatured       bool                        `gorm:"default:false" json:"isFeatured"`
	SortOrder        int                         `gorm:"default:0" json:"sortOrder"`
	PageViews        int                         `gorm:"not null;default:0" json:"pageViews" validate:"min=0"`
	BeneficiaryCount int                         `gorm:"default:0" json:"beneficiaryCount" validate:"min=0"`
}

type News struct {
	Model
	PublishState
	TitleEn       string                      `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr       string                      `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SlugEn        string                      `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr        string                      `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	ExcerptEn     string                      `gorm:"size:1000" json:"excerptEn" validate:"max=1000"`
	ExcerptAr     string                      `gorm:"size:1000" json:"excerptAr" validate:"max=1000"`
	ContentEn     string                      `gorm:"type:text" json:"contentEn"`
	ContentAr     string                      `gorm:"type:text" json:"contentAr"`
	CoverImageURL string                      `gorm:"size:2048" json:"coverImageUrl" validate:"omitempty,url|startswith=/"`
	Author        string                      `gorm:"size:255" json:"author"`
	KeywordsEn    datatypes.JSONSlice[string] `json:"keywordsEn"`
	KeywordsAr    datatypes.JSONSlice[string] `json:"keywordsAr"`
	TagsEn        datatypes.JSONSlice[string] `json:"tagsEn"`
	TagsAr        datatypes.JSONSlice[string] `json:"tagsAr"`
	IsFeatured    bool                        `gorm:"default:false" json:"isFeatured"`
	PageViews     int                         `gorm:"not null;default:0" json:"pageViews" validate:"min=0"`

	ProgramID  *uint         `gorm:"index" json:"programId"`
	Program    *Program      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CategoryID *uint         `gorm:"index" json:"categoryId"`
	Category   *NewsCategory `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

type Project struct {
	Model
	PublishState
	TitleEn       string                      `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr       string                      `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SlugEn        string                      `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr        string                      `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	DescriptionEn string                      `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr string                      `gorm:"type:text" json:"descriptionAr"`
	ContentEn     string                      `gorm:"type:text" json:"contentEn"`
	ContentAr     string                      `gorm:"type:text" json:"contentAr"`
	LocationEn    string                      `gorm:"size:255" json:"locationEn"`
	LocationAr    string                      `gorm:"size:255" json:"locationAr"`
	CoverImageURL string                      `gorm:"size:2048" json:"coverImageUrl" validate:"omitempty,url|startswith=/"`
	Status        ProjectStatus               `gorm:"size:20;default:'planned'" json:"status" validate:"omitempty,oneof=planned ongoing completed"`
	StartDate     *time.Time                  `json:"startDate"`
	EndDate       *time.Time                  `json:"endDate"`
	GoalAmount    float64                     `gorm:"default:0" json:"goalAmount" validate:"min=0"`
	RaisedAmount  float64                     `gorm:"default:0" json:"raisedAmount" validate:"min=0"`
	Beneficiaries int                         `gorm:"default:0" json:"beneficiaries" validate:"min=0"`
	KeywordsEn    datatypes.JSONSlice[string] `json:"keywordsEn"`
	KeywordsAr    datatypes.JSONSlice[string] `json:"keywordsAr"`
	IsFeatured    bool                        `gorm:"default:false" json:"isFeatured"`
	PageViews     int                         `gorm:"not null;default:0" json:"pageViews" validate:"min=0"`

	ProgramID  *uint            `gorm:"index" json:"programId"`
	Program    *Program         `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CategoryID *uint            `gorm:"index" json:"categoryId"`
	Category   *ProjectCategory `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

// Activity is a dated event run under a program. Deleting the program removes its activities.
type Activity struct {
	Model
	PublishState
	TitleEn       string     `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr       string     `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SlugEn        string     `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr        string     `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	DescriptionEn string     `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr string     `gorm:"type:text" json:"descriptionAr"`
	ContentEn     string     `gorm:"type:text" json:"contentEn"`
	ContentAr     string     `gorm:"type:text" json:"contentAr"`
	LocationEn    string     `gorm:"size:255" json:"locationEn"`
	LocationAr    string     `gorm:"size:255" json:"locationAr"`
	CoverImageURL string     `gorm:"size:2048" json:"coverImageUrl" validate:"omitempty,url|startswith=/"`
	ActivityDate  *time.Time `gorm:"index" json:"activityDate"`
	PageViews     int        `gorm:"not null;default:0" json:"pageViews" validate:"min=0"`

	ProgramID *uint    `gorm:"index" json:"programId"`
	Program   *Program `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProjectID *uint    `gorm:"index" json:"projectId"`
	Project   *Project `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

type SuccessStory struct {
	Model
	PublishState
	TitleEn           string `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr           string `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SlugEn            string `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr            string `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	ExcerptEn         string `gorm:"size:1000" json:"excerptEn" validate:"max=1000"`
	ExcerptAr         string `gorm:"size:1000" json:"excerptAr" validate:"max=1000"`
	ContentEn         string `gorm:"type:text" json:"contentEn"`
	ContentAr         string `gorm:"type:text" json:"contentAr"`
	BeneficiaryNameEn string `gorm:"size:255" json:"beneficiaryNameEn"`
	BeneficiaryNameAr string `gorm:"size:255" json:"beneficiaryNameAr"`
	CoverImageURL     string `gorm:"size:2048" json:"coverImageUrl" validate:"omitempty,url|startswith=/"`
	IsFeatured        bool   `gorm:"default:false" json:"isFeatured"`
	PageViews         int    `gorm:"not null;default:0" json:"pageViews" validate:"min=0"`

	ProgramID *uint    `gorm:"index" json:"programId"`
	Program   *Program `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ProjectID *uint    `gorm:"index" json:"projectId"`
	Project   *Project `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (Program) TableName() string {
	return "programs"
}

func (News) TableName() string {
	return "news"
}

func (Project) TableName() string {
	return "projects"
}

func (Activity) TableName() string {
	return "activities"
}

func (SuccessStory) TableName() string {
	return "success_stories"
}

package entities

type FAQ struct {
	Model
	PublishState
	QuestionEn string `gorm:"size:500;not null" json:"questionEn" validate:"required,max=500"`
	QuestionAr string `gorm:"size:500;not null" json:"questionAr" validate:"required,max=500"`
	AnswerEn   string `gorm:"type:text" json:"answerEn" validate:"required"`
	AnswerAr   string `gorm:"type:text" json:"answerAr" validate:"required"`
	Category   string `gorm:"size:100;index" json:"category" validate:"max=100"`
	SortOrder  int    `gorm:"default:0" json:"sortOrder"`
}

type HeroSlide struct {
	Model
	PublishState
	TitleEn      string `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr      string `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SubtitleEn   string `gorm:"size:500" json:"subtitleEn" validate:"max=500"`
	SubtitleAr   string `gorm:"size:500" json:"subtitleAr" validate:"max=500"`
	ImageURL     string `gorm:"size:2048;not null" json:"imageUrl" validate:"required,url|startswith=/"`
	ButtonTextEn string `gorm:"size:100" json:"buttonTextEn" validate:"max=100"`
	ButtonTextAr string `gorm:"size:100" json:"buttonTextAr" validate:"max=100"`
	ButtonLink   string `gorm:"size:2048" json:"buttonLink" validate:"omitempty,url|startswith=/"`
	SortOrder    int    `gorm:"default:0" json:"sortOrder"`
}

// BankAccount is a receiving account shown on the donation page for bank deposits.
type BankAccount struct {
	Model
	PublishState
	BankNameEn    string `gorm:"size:255;not null" json:"bankNameEn" validate:"required,max=255"`
	BankNameAr    string `gorm:"size:255;not null" json:"bankNameAr" validate:"required,max=255"`
	AccountNameEn string `gorm:"size:255" json:"accountNameEn" validate:"max=255"`
	AccountNameAr string `gorm:"size:255" json:"accountNameAr" validate:"max=255"`
	AccountNumber string `gorm:"size:64;not null" json:"accountNumber" validate:"required,max=64"`
	IBAN          string `gorm:"size:34" json:"iban" validate:"max=34"`
	SwiftCode     string `gorm:"size:11" json:"swiftCode" validate:"max=11"`
	Currency      string `gorm:"size:3;default:'USD'" json:"currency" validate:"omitempty,len=3"`
	SortOrder     int    `gorm:"default:0" json:"sortOrder"`
}

// FoundationProfile is a singleton row describing the foundation itself.
type FoundationProfile struct {
	Model
	NameEn       string `gorm:"size:255;not null" json:"nameEn" validate:"required,max=255"`
	NameAr       string `gorm:"size:255;not null" json:"nameAr" validate:"required,max=255"`
	AboutEn      string `gorm:"type:text" json:"aboutEn"`
	AboutAr      string `gorm:"type:text" json:"aboutAr"`
	MissionEn    string `gorm:"type:text" json:"missionEn"`
	MissionAr    string `gorm:"type:text" json:"missionAr"`
	VisionEn     string `gorm:"type:text" json:"visionEn"`
	VisionAr     string `gorm:"type:text" json:"visionAr"`
	ValuesEn     string `gorm:"type:text" json:"valuesEn"`
	ValuesAr     string `gorm:"type:text" json:"valuesAr"`
	AddressEn    string `gorm:"size:500" json:"addressEn" validate:"max=500"`
	AddressAr    string `gorm:"size:500" json:"addressAr" validate:"max=500"`
	Email        string `gorm:"size:255" json:"email" validate:"omitempty,email"`
	Phone        string `gorm:"size:50" json:"phone" validate:"max=50"`
	LogoURL      string `gorm:"size:2048" json:"logoUrl" validate:"omitempty,url|startswith=/"`
	FacebookURL  string `gorm:"size:2048" json:"facebookUrl" validate:"omitempty,url"`
	TwitterURL   string `gorm:"size:2048" json:"twitterUrl" validate:"omitempty,url"`
	InstagramURL string `gorm:"size:2048" json:"instagramUrl" validate:"omitempty,url"`
	YoutubeURL   string `gorm:"size:2048" json:"youtubeUrl" validate:"omitempty,url"`
	LinkedinURL  string `gorm:"size:2048" json:"linkedinUrl" validate:"omitempty,url"`
	FoundedYear  int    `json:"foundedYear" validate:"omitempty,min=1900,max=2100"`
}

// Person shape shared by team and board members.
type Person struct {
	NameEn     string `gorm:"size:255;not null" json:"nameEn" validate:"required,max=255"`
	NameAr     string `gorm:"size:255;not null" json:"nameAr" validate:"required,max=255"`
	PositionEn string `gorm:"size:255" json:"positionEn" validate:"max=255"`
	PositionAr string `gorm:"size:255" json:"positionAr" validate:"max=255"`
	BioEn      string `gorm:"type:text" json:"bioEn"`
	BioAr      string `gorm:"type:text" json:"bioAr"`
	PhotoURL   string `gorm:"size:2048" json:"photoUrl" validate:"omitempty,url|startswith=/"`
	Email      string `gorm:"size:255" json:"email" validate:"omitempty,email"`
	SortOrder  int    `gorm:"default:0" json:"sortOrder"`
}

type TeamMember struct {
	Model
	PublishState
	Person
}

// DirectorMember is a member of the board of directors.
type DirectorMember struct {
	Model
	PublishState
	Person
}

type Partner struct {
	Model
	PublishState
	NameEn        string `gorm:"size:255;not null" json:"nameEn" validate:"required,max=255"`
	NameAr        string `gorm:"size:255;not null" json:"nameAr" validate:"required,max=255"`
	DescriptionEn string `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr string `gorm:"type:text" json:"descriptionAr"`
	LogoURL       string `gorm:"size:2048" json:"logoUrl" validate:"omitempty,url|startswith=/"`
	WebsiteURL    string `gorm:"size:2048" json:"websiteUrl" validate:"omitempty,url"`
	SortOrder     int    `gorm:"default:0" json:"sortOrder"`
}

func (FAQ) TableName() string {
	return "faqs"
}

func (HeroSlide) TableName() string {
	return "hero_slides"
}

func (BankAccount) TableName() string {
	return "bank_accounts"
}

func (FoundationProfile) TableName() string {
	return "foundation_profiles"
}

func (TeamMember) TableName() string {
	return "team_members"
}

func (DirectorMember) TableName() string {
	return "director_members"
}

func (Partner) TableName() string {
	return "partners"
}

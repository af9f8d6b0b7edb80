package entities

import "time"

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentVolunteer  EmploymentType = "volunteer"
	EmploymentInternship EmploymentType = "internship"
)

type DonationMethod string

const (
	// DonationMethodStripe is the online card method. The wire value is kept
	// as "stripe" for frontend compatibility whichever gateway processes it.
	DonationMethodStripe       DonationMethod = "stripe"
	DonationMethodCashTransfer DonationMethod = "cash_transfer"
	DonationMethodBankDeposit  DonationMethod = "bank_deposit"
)

type DonationFrequency string

const (
	DonationOnce    DonationFrequency = "once"
	DonationMonthly DonationFrequency = "monthly"
	DonationYearly  DonationFrequency = "yearly"
)

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
	DonationStatusExpired   DonationStatus = "expired"
	DonationStatusCancelled DonationStatus = "cancelled"
)

type RequestStatus string

const (
	RequestStatusNew      RequestStatus = "new"
	RequestStatusReviewed RequestStatus = "reviewed"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

type Job struct {
	Model
	PublishState
	TitleEn          string         `gorm:"size:255;not null" json:"titleEn" validate:"required,max=255"`
	TitleAr          string         `gorm:"size:255;not null" json:"titleAr" validate:"required,max=255"`
	SlugEn           string         `gorm:"uniqueIndex;size:255" json:"slugEn" validate:"max=255"`
	SlugAr           string         `gorm:"uniqueIndex;size:255" json:"slugAr" validate:"max=255"`
	DescriptionEn    string         `gorm:"type:text" json:"descriptionEn"`
	DescriptionAr    string         `gorm:"type:text" json:"descriptionAr"`
	RequirementsEn   string         `gorm:"type:text" json:"requirementsEn"`
	RequirementsAr   string         `gorm:"type:text" json:"requirementsAr"`
	LocationEn       string         `gorm:"size:255" json:"locationEn"`
	LocationAr       string         `gorm:"size:255" json:"locationAr"`
	EmploymentType   EmploymentType `gorm:"size:20;default:'full_time'" json:"employmentType" validate:"omitempty,oneof=full_time part_time contract volunteer internship"`
	Deadline         *time.Time     `gorm:"index" json:"deadline"`
	PageViews        int            `gorm:"not null;default:0" json:"pageViews" validate:"min=0"`
	ApplicationCount int            `gorm:"not null;default:0" json:"applicationCount" validate:"min=0"`
}

type JobApplication struct {
	Model
	JobID       uint          `gorm:"index;not null" json:"jobId" validate:"required"`
	Job         *Job          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FullName    string        `gorm:"size:255;not null" json:"fullName" validate:"required,max=255"`
	Email       string        `gorm:"size:255;not null" json:"email" validate:"required,email,max=255"`
	Phone       string        `gorm:"size:50" json:"phone" validate:"max=50"`
	CoverLetter string        `gorm:"type:text" json:"coverLetter" validate:"max=10000"`
	ResumeURL   string        `gorm:"size:2048" json:"resumeUrl" validate:"omitempty,url|startswith=/"`
	Status      RequestStatus `gorm:"size:20;default:'new'" json:"status" validate:"omitempty,oneof=new reviewed accepted rejected"`
}

// Donation records a pledge or payment. Method-specific evidence is required
// per method: a transfer receipt for cash transfers, a deposit slip and the
// receiving bank account for bank deposits.
type Donation struct {
	Model
	DonorName             string            `gorm:"size:255" json:"donorName" validate:"required_unless=IsAnonymous true,max=255"`
	Email                 string            `gorm:"size:255;index" json:"email" validate:"required,email,max=255"`
	Phone                 string            `gorm:"size:50" json:"phone" validate:"max=50"`
	Amount                float64           `gorm:"not null" json:"amount" validate:"required,gt=0"`
	Currency              string            `gorm:"size:3;default:'USD'" json:"currency" validate:"omitempty,len=3"`
	Method                DonationMethod    `gorm:"size:20;not null;index" json:"method" validate:"required,oneof=stripe cash_transfer bank_deposit"`
	Frequency             DonationFrequency `gorm:"size:20;default:'once'" json:"frequency" validate:"omitempty,oneof=once monthly yearly"`
	Status                DonationStatus    `gorm:"size:20;not null;index" json:"status" validate:"omitempty,oneof=pending completed failed expired cancelled"`
	TransferAttachmentURL string            `gorm:"size:2048" json:"transferAttachmentUrl" validate:"required_if=Method cash_transfer,omitempty,url|startswith=/"`
	DepositAttachmentURL  string            `gorm:"size:2048" json:"depositAttachmentUrl" validate:"required_if=Method bank_deposit,omitempty,url|startswith=/"`
	Message               string            `gorm:"type:text" json:"message" validate:"max=2000"`
	IsAnonymous           bool              `gorm:"default:false" json:"isAnonymous"`
	PaymentReference      string            `gorm:"size:255;index" json:"paymentReference"`
	CheckoutURL           string            `gorm:"size:2048" json:"checkoutUrl"`

	BankAccountID *uint        `gorm:"index" json:"bankAccountId" validate:"required_if=Method bank_deposit"`
	BankAccount   *BankAccount `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ProgramID     *uint        `gorm:"index" json:"programId"`
	Program       *Program     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ProjectID     *uint        `gorm:"index" json:"projectId"`
	Project       *Project     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

type NewsletterMember struct {
	Model
	Email          string     `gorm:"uniqueIndex;size:255;not null" json:"email" validate:"required,email,max=255"`
	Name           string     `gorm:"size:255" json:"name" validate:"max=255"`
	Language       string     `gorm:"size:2;default:'en'" json:"language" validate:"omitempty,oneof=en ar"`
	IsActive       bool       `gorm:"index" json:"isActive"`
	SubscribedAt   time.Time  `json:"subscribedAt"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt"`
}

type VolunteerRequest struct {
	Model
	FullName     string        `gorm:"size:255;not null" json:"fullName" validate:"required,max=255"`
	Email        string        `gorm:"size:255;not null" json:"email" validate:"required,email,max=255"`
	Phone        string        `gorm:"size:50" json:"phone" validate:"max=50"`
	City         string        `gorm:"size:100" json:"city" validate:"max=100"`
	Skills       string        `gorm:"type:text" json:"skills" validate:"max=2000"`
	Availability string        `gorm:"size:255" json:"availability" validate:"max=255"`
	Message      string        `gorm:"type:text" json:"message" validate:"max=2000"`
	Status       RequestStatus `gorm:"size:20;default:'new'" json:"status" validate:"omitempty,oneof=new reviewed accepted rejected"`

	ProgramID *uint    `gorm:"index" json:"programId"`
	Program   *Program `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}

func (JobApplication) TableName() string {
	return "job_applications"
}

func (Donation) TableName() string {
	return "donations"
}

func (NewsletterMember) TableName() string {
	return "newsletter_members"
}

func (VolunteerRequest) TableName() string {
	return "volunteer_requests"
}

package entities

// All returns one zero value of every persisted entity, parents before
// children, for schema migration.
func All() []any {
	return []any{
		&User{},
		&AuditEvent{},
		&FoundationProfile{},
		&MediaCategory{},
		&NewsCategory{},
		&ProjectCategory{},
		&Program{},
		&Project{},
		&Activity{},
		&News{},
		&SuccessStory{},
		&Publication{},
		&Report{},
		&Video{},
		&Image{},
		&Job{},
		&JobApplication{},
		&BankAccount{},
		&Donation{},
		&NewsletterMember{},
		&VolunteerRequest{},
		&FAQ{},
		&HeroSlide{},
		&TeamMember{},
		&DirectorMember{},
		&Partner{},
	}
}

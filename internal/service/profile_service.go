package service

import (
	"context"
	"strings"

	"workconnect/internal/model"
	"workconnect/internal/validate"
)

type ProfileStore interface {
	JobSeeker(ctx context.Context, userID int64) (model.JobSeekerProfile, error)
	Employer(ctx context.Context, userID int64) (model.EmployerProfile, error)
	UpdateJobSeeker(ctx context.Context, p model.JobSeekerProfile) error
	UpdateEmployer(ctx context.Context, p model.EmployerProfile) error
}

type ProfileService struct {
	profiles ProfileStore
}

func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) JobSeeker(ctx context.Context, userID int64) (model.JobSeekerProfile, error) {
	return s.profiles.JobSeeker(ctx, userID)
}

func (s *ProfileService) Employer(ctx context.Context, userID int64) (model.EmployerProfile, error) {
	return s.profiles.Employer(ctx, userID)
}

func nameRules() []validate.FieldRules {
	return []validate.FieldRules{
		validate.Field("first_name", validate.Required(), validate.MaxLength(100)),
		validate.Field("last_name", validate.Required(), validate.MaxLength(100)),
		validate.Field("phone", validate.Custom(validPhone, "Invalid phone number")),
	}
}

func (s *ProfileService) UpdateJobSeeker(ctx context.Context, userID int64, req model.JobSeekerProfileRequest) (model.JobSeekerProfile, error) {
	in := validate.Input{
		"first_name":       strings.TrimSpace(req.FirstName),
		"last_name":        strings.TrimSpace(req.LastName),
		"phone":            strings.TrimSpace(req.Phone),
		"headline":         strings.TrimSpace(req.Headline),
		"bio":              strings.TrimSpace(req.Bio),
		"location":         strings.TrimSpace(req.Location),
		"expected_salary":  req.ExpectedSalary.String(),
		"experience_level": req.ExperienceLevel,
	}
	rules := append(nameRules(),
		validate.Field("headline", validate.MaxLength(200)),
		validate.Field("bio", validate.MaxLength(2000)),
		validate.Field("location", validate.MaxLength(100)),
		validate.Field("expected_salary", validate.Numeric()),
		validate.Field("experience_level", validate.OneOf(model.ExperienceLevels...)),
	)
	if errs := validate.Check(in, rules...); errs.Fails() {
		return model.JobSeekerProfile{}, errs.Err()
	}

	if err := s.profiles.UpdateJobSeeker(ctx, model.JobSeekerProfile{
		UserID:          userID,
		FirstName:       in["first_name"],
		LastName:        in["last_name"],
		Phone:           in["phone"],
		Headline:        in["headline"],
		Bio:             in["bio"],
		Location:        in["location"],
		ExpectedSalary:  req.ExpectedSalary.Float(),
		ExperienceLevel: req.ExperienceLevel,
	}); err != nil {
		return model.JobSeekerProfile{}, err
	}
	return s.profiles.JobSeeker(ctx, userID)
}

func (s *ProfileService) UpdateEmployer(ctx context.Context, userID int64, req model.EmployerProfileRequest) (model.EmployerProfile, error) {
	in := validate.Input{
		"first_name":          strings.TrimSpace(req.FirstName),
		"last_name":           strings.TrimSpace(req.LastName),
		"phone":               strings.TrimSpace(req.Phone),
		"company_name":        strings.TrimSpace(req.CompanyName),
		"company_description": strings.TrimSpace(req.CompanyDescription),
		"industry":            strings.TrimSpace(req.Industry),
		"website_url":         strings.TrimSpace(req.WebsiteURL),
		"company_size":        req.CompanySize,
		"location":            strings.TrimSpace(req.Location),
	}
	rules := append(nameRules(),
		validate.Field("company_name", validate.Required(), validate.MaxLength(200)),
		validate.Field("company_description", validate.MaxLength(5000)),
		validate.Field("industry", validate.MaxLength(100)),
		validate.Field("website_url", validate.URL(), validate.MaxLength(255)),
		validate.Field("company_size", validate.OneOf(model.CompanySizes...)),
		validate.Field("location", validate.MaxLength(100)),
	)
	if errs := validate.Check(in, rules...); errs.Fails() {
		return model.EmployerProfile{}, errs.Err()
	}

	if err := s.profiles.UpdateEmployer(ctx, model.EmployerProfile{
		UserID:             userID,
		FirstName:          in["first_name"],
		LastName:           in["last_name"],
		Phone:              in["phone"],
		CompanyName:        in["company_name"],
		CompanyDescription: in["company_description"],
		Industry:           in["industry"],
		WebsiteURL:         in["website_url"],
		CompanySize:        req.CompanySize,
		Location:           in["location"],
	}); err != nil {
		return model.EmployerProfile{}, err
	}
	return s.profiles.Employer(ctx, userID)
}

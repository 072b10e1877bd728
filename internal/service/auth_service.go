package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"workconnect/internal/mail"
	"workconnect/internal/model"
	"workconnect/internal/util"
	"workconnect/internal/validate"
	"workconnect/pkg/apierror"
)

const (
	bcryptCost       = 12
	resetTokenTTL    = time.Hour
	minPasswordChars = 8
)

// ForgotPasswordMessage is returned whether or not the address exists.
const ForgotPasswordMessage = "If an account exists for that email, a password reset link has been sent."

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	CreateWithProfile(ctx context.Context, nu model.NewUser) (model.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	MarkEmailVerified(ctx context.Context, userID int64) error
}

type ResetTokenStore interface {
	ReplaceReset(ctx context.Context, reset model.PasswordReset) error
	ConsumeReset(ctx context.Context, token string, passwordHash string, now time.Time) (int64, error)
}

type AuthService struct {
	users  UserStore
	resets ResetTokenStore
	signer *TokenSigner
	mailer mail.Sender
	appURL string
	cost   int
	now    func() time.Time
	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash []byte
}

func NewAuthService(users UserStore, resets ResetTokenStore, signer *TokenSigner, mailer mail.Sender, appURL string) *AuthService {
	s := &AuthService{
		users:  users,
		resets: resets,
		signer: signer,
		mailer: mailer,
		appURL: strings.TrimRight(appURL, "/"),
		cost:   bcryptCost,
		now:    time.Now,
	}
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("workconnect-dummy-password"), s.cost)
	return s
}

func invalidCredentials() error {
	return apierror.New("INVALID_CREDENTIALS", "Invalid email or password.", "", http.StatusUnauthorized)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthUser, error) {
	errs := validate.Check(validate.Input{"email": req.Email, "password": req.Password},
		validate.Field("email", validate.Required(), validate.Email()),
		validate.Field("password", validate.Required()),
	)
	if errs.Fails() {
		return model.AuthUser{}, errs.Err()
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return model.AuthUser{}, invalidCredentials()
	}
	if err != nil {
		return model.AuthUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthUser{}, invalidCredentials()
	}
	if !user.IsActive {
		return model.AuthUser{}, invalidCredentials()
	}

	logBestEffort("update last login failed", s.users.UpdateLastLogin(ctx, user.ID), "user_id", user.ID)
	return user.AuthUser(), nil
}

func registerRules(req model.RegisterRequest) []validate.FieldRules {
	rules := []validate.FieldRules{
		validate.Field("email", validate.Required(), validate.Email(), validate.MaxLength(255)),
		validate.Field("password", validate.Required(), validate.MinLength(minPasswordChars), validate.MaxLength(72)),
		validate.Field("confirm_password", validate.Required(), validate.Matches("password").WithMessage("Passwords do not match")),
		validate.Field("first_name", validate.Required(), validate.MaxLength(100)),
		validate.Field("last_name", validate.Required(), validate.MaxLength(100)),
		validate.Field("phone", validate.Custom(validPhone, "Invalid phone number")),
		validate.Field("user_type", validate.Required(),
			validate.OneOf(string(model.RoleJobSeeker), string(model.RoleEmployer)).WithMessage("Invalid user type")),
	}
	if model.Role(req.UserType) == model.RoleEmployer {
		rules = append(rules, validate.Field("company_name",
			validate.Required().WithMessage("Company name is required for employers"), validate.MaxLength(200)))
	}
	return rules
}

// Register creates the account and its role profile, then mails a
// verification link best-effort.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.CompanyName = strings.TrimSpace(req.CompanyName)

	errs := validate.Check(validate.Input{
		"email":            req.Email,
		"password":         req.Password,
		"confirm_password": req.ConfirmPassword,
		"first_name":       req.FirstName,
		"last_name":        req.LastName,
		"phone":            req.Phone,
		"user_type":        req.UserType,
		"company_name":     req.CompanyName,
	}, registerRules(req)...)
	if errs.Fails() {
		return model.User{}, errs.Err()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateWithProfile(ctx, model.NewUser{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         model.Role(req.UserType),
		CompanyName:  req.CompanyName,
	})
	if errors.Is(err, model.ErrEmailTaken) {
		return model.User{}, apierror.FieldError("email", "Email already registered.")
	}
	if err != nil {
		return model.User{}, err
	}

	logBestEffort("verification mail failed", s.sendVerification(ctx, user), "user_id", user.ID)
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user model.User) error {
	token, err := s.signer.Sign(user.ID, tokenTypeEmailVerify)
	if err != nil {
		return fmt.Errorf("sign verification token: %w", err)
	}

	msg, err := mail.VerificationEmail(user.Email, user.FirstName, s.appURL+"/verify-email?token="+url.QueryEscape(token))
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

func (s *AuthService) VerifyEmail(ctx context.Context, req model.VerifyEmailRequest) error {
	if strings.TrimSpace(req.Token) == "" {
		return apierror.FieldError("token", "Token is required")
	}

	userID, err := s.signer.Parse(strings.TrimSpace(req.Token), tokenTypeEmailVerify)
	if err != nil {
		return apierror.BadRequest("Invalid or expired verification token.")
	}

	if err := s.users.MarkEmailVerified(ctx, userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return apierror.BadRequest("Invalid or expired verification token.")
		}
		return err
	}
	return nil
}

func (s *AuthService) ResendVerification(ctx context.Context, userID int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return apierror.BadRequest("Email is already verified.")
	}
	if err := s.sendVerification(ctx, user); err != nil {
		return fmt.Errorf("resend verification: %w", err)
	}
	return nil
}

// ForgotPassword never reveals whether the address is registered.
func (s *AuthService) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error {
	errs := validate.Check(validate.Input{"email": req.Email},
		validate.Field("email", validate.Required(), validate.Email()),
	)
	if errs.Fails() {
		return errs.Err()
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	token, err := util.RandomHex(32)
	if err != nil {
		return err
	}
	if err := s.resets.ReplaceReset(ctx, model.PasswordReset{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(resetTokenTTL),
	}); err != nil {
		return err
	}

	msg, err := mail.PasswordResetEmail(user.Email, user.FirstName, s.appURL+"/reset-password?token="+token)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	logBestEffort("password reset mail failed", err, "user_id", user.ID)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	errs := validate.Check(validate.Input{
		"token":            req.Token,
		"password":         req.Password,
		"confirm_password": req.ConfirmPassword,
	},
		validate.Field("token", validate.Required()),
		validate.Field("password", validate.Required(), validate.MinLength(minPasswordChars), validate.MaxLength(72)),
		validate.Field("confirm_password", validate.Required(), validate.Matches("password").WithMessage("Passwords do not match")),
	)
	if errs.Fails() {
		return errs.Err()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.resets.ConsumeReset(ctx, strings.TrimSpace(req.Token), string(hash), s.now())
	if errors.Is(err, model.ErrTokenNotFound) || errors.Is(err, model.ErrTokenExpired) {
		return apierror.BadRequest("Invalid or expired reset token.")
	}
	return err
}

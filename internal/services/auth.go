package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"mycabinet-backend/internal/middleware"
	"mycabinet-backend/internal/models"
	"mycabinet-backend/internal/repository"
)

const (
	codeTTL         = 10 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	userRepo *repository.UserRepo
	redis    *redis.Client
	jwt      *middleware.JWTAuth
	email    *EmailService
}

func NewAuthService(userRepo *repository.UserRepo, redisClient *redis.Client, jwt *middleware.JWTAuth, email *EmailService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		redis:    redisClient,
		jwt:      jwt,
		email:    email,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	fieldErrors := make(map[string]string)

	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if err := validatePassword(req.Password); err != nil {
		fieldErrors["password"] = err.Error()
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already in use"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Hash password (bcrypt cost 12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	user := &models.User{
		Email:          req.Email,
		HashedPassword: &hashStr,
		IsVerified:     false,
	}
	if req.FullName != "" {
		user.FullName = &req.FullName
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	code, err := s.storeCode(ctx, "verify", user.Email)
	if err != nil {
		return nil, err
	}
	go s.email.SendVerifyCode(context.Background(), user.Email, code)

	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*models.AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, &NotFoundError{Message: "Account not found"}
	}

	if err := s.redeemCode(ctx, "verify", email, code); err != nil {
		return nil, err
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}

	if user.HashedPassword == nil {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}

	if !user.IsVerified {
		return nil, &ForbiddenError{Message: "Email not verified"}
	}

	return s.issueTokens(ctx, user)
}

// RequestLoginCode emails a one-time sign-in code.
func (s *AuthService) RequestLoginCode(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return &NotFoundError{Message: "Account not found"}
	}

	code, err := s.storeCode(ctx, "login", user.Email)
	if err != nil {
		return err
	}
	go s.email.SendLoginCode(context.Background(), user.Email, code)
	return nil
}

func (s *AuthService) LoginWithCode(ctx context.Context, email, code string) (*models.AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid email or code"}
	}

	if err := s.redeemCode(ctx, "login", email, code); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return &NotFoundError{Message: "Account not found"}
	}

	code, err := s.storeCode(ctx, "reset", user.Email)
	if err != nil {
		return err
	}
	go s.email.SendResetCode(context.Background(), user.Email, code)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := validatePassword(req.NewPassword); err != nil {
		return &ValidationError{Fields: map[string]string{"new_password": err.Error()}}
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return &NotFoundError{Message: "Account not found"}
	}

	if err := s.redeemCode(ctx, "reset", req.Email, req.Code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	go s.email.SendPasswordChangedNotice(context.Background(), user.Email)
	return nil
}

// RequestAccountDeletion emails a confirmation code to the account owner.
func (s *AuthService) RequestAccountDeletion(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return &NotFoundError{Message: "Account not found"}
	}

	code, err := s.storeCode(ctx, "delete", user.Email)
	if err != nil {
		return err
	}
	go s.email.SendDeleteCode(context.Background(), user.Email, code)
	return nil
}

func (s *AuthService) ConfirmAccountDeletion(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return &NotFoundError{Message: "Account not found"}
	}

	if err := s.redeemCode(ctx, "delete", user.Email, code); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	go s.email.SendAccountDeletedNotice(context.Background(), user.Email)
	return nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	userIDStr, err := s.redis.Get(ctx, "refresh:"+refreshToken).Result()
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token"}
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, &UnauthorizedError{Message: "Account no longer exists"}
	}

	// Rotate: old token is single use
	s.redis.Del(ctx, "refresh:"+refreshToken)

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	s.redis.Del(ctx, "refresh:"+refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := generateToken(32)
	if err != nil {
		return nil, err
	}

	err = s.redis.Set(ctx, "refresh:"+refresh, user.ID.String(), refreshTokenTTL).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int((15 * time.Minute).Seconds()),
	}, nil
}

// storeCode generates a 6-digit code for the given intent and stores it in
// Redis with a short TTL, replacing any previous code for the same intent.
func (s *AuthService) storeCode(ctx context.Context, intent, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	err = s.redis.Set(ctx, intent+"_code:"+email, code, codeTTL).Err()
	if err != nil {
		return "", fmt.Errorf("failed to store %s code: %w", intent, err)
	}
	return code, nil
}

// redeemCode checks a submitted code and deletes it on success (single use).
func (s *AuthService) redeemCode(ctx context.Context, intent, email, code string) error {
	key := intent + "_code:" + email
	stored, err := s.redis.Get(ctx, key).Result()
	if err != nil || stored != code {
		return &UnauthorizedError{Message: "Invalid or expired code"}
	}
	s.redis.Del(ctx, key)
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("Password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsLetter(ch):
			hasLetter = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("Password must contain at least one letter and one digit")
	}
	return nil
}

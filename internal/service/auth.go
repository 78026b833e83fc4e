package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

// AuthService registers residents together with their address and issues
// JWT access tokens.
type AuthService interface {
	Register(ctx context.Context, user *models.User, address *models.Address, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ParseToken(token string) (*TokenClaims, error)
}

// TokenClaims is the authenticated identity carried by an access token.
type TokenClaims struct {
	UserID       uuid.UUID `json:"userId"`
	CivilDefense bool      `json:"isCivilDefense"`
	jwt.RegisteredClaims
}

type authService struct {
	users  UserRepository
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clockwork.Clock
	logger *logrus.Logger
}

func NewAuthService(users UserRepository, secret, issuer string, ttl time.Duration, clock clockwork.Clock, logger *logrus.Logger) AuthService {
	return &authService{
		users:  users,
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		clock:  clock,
		logger: logger,
	}
}

// Register creates the user and their address in one transaction, so a half
// registered resident never exists.
func (s *authService) Register(ctx context.Context, user *models.User, address *models.Address, password string) error {
	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return e.Wrap("service.auth.Register: check email", err)
	}
	if exists {
		return e.Wrap("service.auth.Register: email already registered", e.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return e.Wrap("service.auth.Register: hash password", err)
	}
	user.PasswordHash = string(hash)

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	user.AddressID = address.ID

	if err := s.users.CreateWithAddress(ctx, user, address); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"user_id": user.ID,
	}).Info("user registered")
	return nil
}

// Login checks the credentials and returns a signed access token. Unknown
// emails and wrong passwords are both reported as forbidden, without
// distinguishing which one failed.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return "", e.Wrap("service.auth.Login: invalid credentials", e.ErrForbidden)
		}
		return "", e.Wrap("service.auth.Login: load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", e.Wrap("service.auth.Login: invalid credentials", e.ErrForbidden)
	}

	now := s.clock.Now()
	claims := TokenClaims{
		UserID:       user.ID,
		CivilDefense: user.IsCivilDefense,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", e.Wrap("service.auth.Login: sign token", err)
	}
	return token, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ParseToken validates the signature and expiry of an access token and
// returns its claims.
func (s *authService) ParseToken(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, e.Wrap("unexpected signing method", e.ErrForbidden)
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, e.Wrap("service.auth.ParseToken", e.ErrForbidden)
	}
	if !parsed.Valid {
		return nil, e.Wrap("service.auth.ParseToken: invalid token", e.ErrForbidden)
	}
	return claims, nil
}

// Package admin authenticates dashboard operators and issues access
// tokens for the admin API.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanikapatil01/chakali-store/internal/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingSecret      = errors.New("JWT_SECRET is not set")
)

type Credential struct {
	ID           int64
	Username     string
	PasswordHash string
}

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Credential, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*Credential, error) {
	var c Credential
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password FROM admin WHERE username=$1", username).
		Scan(&c.ID, &c.Username, &c.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
	ParseToken(tokenStr string) (*Claims, error)
}

type service struct {
	repo   Repository
	secret []byte
}

func NewService(repo Repository, secret string) Service {
	return &service{repo: repo, secret: []byte(secret)}
}

// Login verifies the credential and issues a 24h HS256 token. A wrong
// password and an unknown username are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}

	cred, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			logger.FromCtx(ctx).Error("admin credential lookup failed",
				zap.String("layer", "admin"),
				zap.String("method", "Login"),
				zap.Error(err))
		}
		return "", err
	}
	if !CheckPasswordHash(password, cred.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	claims := Claims{
		Username: cred.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *service) ParseToken(tokenStr string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.secret, nil
		})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

package services

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// Claims is the JWT payload; the principal name drives operator ownership checks.
type Claims struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users  UserStore
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.TrimSpace(in.Role)
	if in.Role == "" {
		in.Role = domain.RoleCommuter
	}

	switch {
	case in.Name == "":
		return models.User{}, domain.ValidationError{Field: "name", Msg: "is required"}
	case !validEmail(in.Email):
		return models.User{}, domain.ValidationError{Field: "email", Msg: "is invalid"}
	case len(in.Password) < minPasswordLen:
		return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	case !domain.ValidRole(in.Role):
		return models.User{}, domain.ValidationError{Field: "role", Msg: "must be Admin, Operator or Commuter"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "hash password", Err: err}
	}

	u, err := s.Users.CreateUser(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    clock(s.Now).now(),
	})
	if err != nil {
		if domain.IsConflict(err) {
			return models.User{}, domain.ConflictError{Resource: "user", Msg: "user already exists", Err: err}
		}
		return models.User{}, err
	}
	utils.LogEventCtx(ctx, "auth", "register", "user_id="+strconv.FormatInt(u.ID, 10)+" role="+u.Role)
	return u, nil
}

// Login verifies the credentials and issues a bearer token.
func (s AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	invalid := domain.AuthenticationError{Msg: "invalid email or password"}

	u, err := s.Users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if domain.IsNotFound(err) {
			return "", models.User{}, invalid
		}
		return "", models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, invalid
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return "", models.User{}, err
	}
	utils.LogEventCtx(ctx, "auth", "login", "user_id="+strconv.FormatInt(u.ID, 10))
	return token, u, nil
}

func (s AuthService) IssueToken(u models.User) (string, error) {
	now := clock(s.Now).now()
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 240 * time.Hour
	}
	claims := Claims{
		ID:   u.ID,
		Name: u.Name,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "sign token", Err: err}
	}
	return signed, nil
}

// ParseToken resolves a bearer token into the caller principal.
func (s AuthService) ParseToken(token string) (domain.Principal, error) {
	var claims Claims
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(s.Now))
	}
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, opts...)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token expired"
		}
		return domain.Principal{}, domain.AuthenticationError{Msg: msg, Err: err}
	}
	if claims.ID <= 0 || !domain.ValidRole(claims.Role) {
		return domain.Principal{}, domain.AuthenticationError{Msg: "invalid token"}
	}
	return domain.Principal{ID: claims.ID, Name: claims.Name, Role: claims.Role}, nil
}

func (s AuthService) Profile(ctx context.Context, userID int64) (models.User, error) {
	return s.Users.GetUserByID(ctx, userID)
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

package sandbox

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/midsquest/midsquest/internal/common/apperrors"
	"github.com/midsquest/midsquest/internal/common/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = apperrors.New("Username already registered").SetStatusCode(http.StatusBadRequest)
	ErrInvalidCredentials = apperrors.New("Invalid username or password").SetStatusCode(http.StatusUnauthorized)
	ErrInvalidSession     = apperrors.New("Invalid or expired session token").SetStatusCode(http.StatusUnauthorized)
	ErrSessionIssue       = apperrors.New("unable to create session").SetStatusCode(http.StatusInternalServerError)
	ErrInvalidPassword    = apperrors.New("Password cannot be used").SetStatusCode(http.StatusBadRequest)
)

// Accounts stores bcrypt password hashes by username.
type Accounts struct {
	cost  int
	users map[string][]byte
}

// NewAccounts creates an empty account table hashing with cost.
func NewAccounts(cost int) *Accounts {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Accounts{cost: cost, users: make(map[string][]byte)}
}

// Register adds a user. Usernames are unique.
func (a *Accounts) Register(username, password string) apperrors.Error {
	if _, ok := a.users[username]; ok {
		return ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return ErrInvalidPassword.Err(err)
	}
	a.users[username] = hash
	return nil
}

// Verify checks a username/password pair.
func (a *Accounts) Verify(username, password string) apperrors.Error {
	hash, ok := a.users[username]
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials.Err(err)
	}
	return nil
}

// Sessions issues and verifies HS256 session tokens whose subject is the
// username.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

const sessionIssuer = "midsquest-sandbox"

// NewSessions creates a token issuer. A zero ttl means tokens never expire.
func NewSessions(secret []byte, ttl time.Duration) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a signed session token for username.
func (s *Sessions) Issue(username string) (string, apperrors.Error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:   sessionIssuer,
		Subject:  username,
		ID:       uuid.New().String(),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", ErrSessionIssue.Err(err)
	}
	return token, nil
}

// Verify returns the username a token was issued to.
func (s *Sessions) Verify(token string) (string, apperrors.Error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", ErrInvalidSession.Err(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidSession.Err(errors.New("token has no subject"))
	}
	return claims.Subject, nil
}

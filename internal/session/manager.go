package session

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/croftbar/member-portal/internal/common/clock"
	"github.com/croftbar/member-portal/internal/common/logger"
	"github.com/croftbar/member-portal/internal/observability/metrics"
	"github.com/croftbar/member-portal/internal/user/domain"
)

const CookieName = "portal_session"

// UserResolver restores a full user record from the identifier carried in the
// session token.
type UserResolver interface {
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
}

// Manager maps an authenticated identity to a signed cookie. The cookie value
// is an HS256 token; tampering invalidates the signature and the request is
// treated as anonymous.
type Manager struct {
	users  UserResolver
	secret []byte
	ttl    time.Duration
	secure bool
	clock  clock.Clock
	log    *logger.Logger
}

func NewManager(
	users UserResolver,
	secret string,
	ttl time.Duration,
	secure bool,
	clk clock.Clock,
	log *logger.Logger,
) *Manager {
	return &Manager{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		clock:  clk,
		log:    log,
	}
}

func (m *Manager) Issue(w http.ResponseWriter, user domain.User) error {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(int64(user.ID), 10),
		"usr": user.Username,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   m.secure,
	})

	metrics.SessionsIssued.Inc()
	return nil
}

func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   m.secure,
	})

	metrics.SessionsCleared.Inc()
}

// CurrentUser resolves the identity for the request. Missing, tampered and
// expired cookies all report anonymous.
func (m *Manager) CurrentUser(r *http.Request) (domain.User, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return domain.User{}, false
	}

	id, err := m.parseToken(cookie.Value)
	if err != nil {
		m.log.WithFields(r.Context(), logger.Fields{
			"action": "session_parse_failed",
		}).Warnf("session rejected: %v", err)
		return domain.User{}, false
	}

	user, err := m.users.FindByID(r.Context(), id)
	if err != nil {
		m.log.WithFields(r.Context(), logger.Fields{
			"user_id": int64(id),
			"action":  "session_user_lookup_failed",
		}).Warnf("session rejected: %v", err)
		return domain.User{}, false
	}

	return user, true
}

// RequireAuthenticated redirects anonymous requests to the login page instead
// of executing the wrapped handler.
func (m *Manager) RequireAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.CurrentUser(r); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

func (m *Manager) parseToken(tokenString string) (domain.ID, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return 0, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return 0, errors.New("missing sub claim")
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("malformed sub claim")
	}

	return domain.ID(id), nil
}

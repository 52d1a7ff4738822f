package core

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const defaultDatabaseRole = "authenticated"

// SessionClaims mirrors the access token issued by the backend's auth service.
type SessionClaims struct {
	Email       string         `json:"email,omitempty"`
	Role        string         `json:"role,omitempty"`
	AppMetadata map[string]any `json:"app_metadata,omitempty"`
	jwt.RegisteredClaims
}

type Session struct {
	Claims SessionClaims
}

func (s *Session) UserID() string {
	return s.Claims.Subject
}

func (s *Session) Email() string {
	return s.Claims.Email
}

// DatabaseRole is the Postgres role the session's queries run as.
func (s *Session) DatabaseRole() string {
	if s.Claims.Role == "" {
		return defaultDatabaseRole
	}

	return s.Claims.Role
}

// AppRole is the application-level role from app_metadata.
func (s *Session) AppRole() string {
	role, _ := s.Claims.AppMetadata["role"].(string)
	return role
}

type sessionKey struct{}

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func SessionFrom(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*Session)
	return session, ok && session != nil
}

type SessionParser struct {
	secret []byte
}

func NewSessionParser(secret string) *SessionParser {
	return &SessionParser{secret: []byte(secret)}
}

func (p *SessionParser) Parse(tokenStr string) (*Session, error) {
	if len(p.secret) == 0 {
		return nil, errors.New("session secret is not configured")
	}

	claims := SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid session token")
	}

	return &Session{Claims: claims}, nil
}

// SessionMiddleware attaches the bearer session, if any, to the request context.
// Requests without a valid session continue anonymously and fail at the data client.
func SessionMiddleware(parser *SessionParser) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()

		header := gctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			gctx.Next()
			return
		}

		session, err := parser.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Msg("ignoring invalid session token")
			gctx.Next()

			return
		}

		gctx.Request = gctx.Request.WithContext(WithSession(ctx, session))
		gctx.Next()
	}
}

// RequireAdmin rejects signed-in users whose app role is not the admin role.
func RequireAdmin(adminRole string) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		session, ok := SessionFrom(gctx.Request.Context())
		if ok && adminRole != "" && session.AppRole() != adminRole {
			log.Ctx(gctx.Request.Context()).Warn().Str("user", session.UserID()).Msg("non-admin user rejected")
			gctx.AbortWithStatusJSON(http.StatusForbidden, NewError(msgNotAdmin))

			return
		}

		gctx.Next()
	}
}

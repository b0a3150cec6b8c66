package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/audit-chat-service/internal/domain"
	"github.com/spec-kit/audit-chat-service/internal/events"
	"github.com/spec-kit/audit-chat-service/internal/observability"
	"github.com/spec-kit/audit-chat-service/internal/repository"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

const (
	principalKey = "auth_principal"
	outcomeKey   = "auth_outcome"
)

// AuthorityUser is the single authority granted to authenticated callers.
const AuthorityUser = "ROLE_USER"

// Principal is the request-scoped security context. It exists only in the
// request's locals and is never shared across requests.
type Principal struct {
	UserID    uuid.UUID
	User      *domain.User
	Authority string
}

// Authenticator resolves the caller's identity once per request. It only
// ever binds a principal or leaves the request unauthenticated; rejection is
// the job of the RequireAuth gate.
type Authenticator struct {
	codec      *TokenCodec
	users      repository.UserRepository
	policy     *PublicPathPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuthenticator constructs the middleware.
func NewAuthenticator(codec *TokenCodec, users repository.UserRepository, policy *PublicPathPolicy, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *Authenticator {
	return &Authenticator{codec: codec, users: users, policy: policy, dispatcher: dispatcher, logger: logger, metrics: metrics}
}

// Handle extracts the token cookie, verifies it and binds the resolved
// identity. Any ambiguity -- missing cookie, invalid or expired token,
// unknown subject, identity store fault -- leaves the request
// unauthenticated; nothing here ever elevates privilege or fails the
// request.
func (a *Authenticator) Handle(c *fiber.Ctx) error {
	if a.policy.IsPublic(c.Path()) {
		return c.Next()
	}

	token := c.Cookies(TokenCookieName)
	if token == "" {
		a.record(c, "no_credential")
		return c.Next()
	}

	subjectID, ok := a.codec.Verify(token)
	if !ok {
		a.record(c, "invalid_token")
		return c.Next()
	}

	user, err := a.users.FindByID(c.UserContext(), subjectID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			a.record(c, "unknown_subject")
		} else {
			// Infrastructure fault: fail closed, but keep it observable.
			a.logger.Warn("authentication indeterminate",
				zap.String("path", c.Path()),
				zap.Error(err))
			a.record(c, "indeterminate")
		}
		return c.Next()
	}

	a.record(c, "authenticated")
	c.Locals(principalKey, &Principal{
		UserID:    user.ID,
		User:      user,
		Authority: AuthorityUser,
	})
	return c.Next()
}

// record counts the outcome and stashes it in the request's locals so the
// RequireAuth gate can attach it to a rejection audit event.
func (a *Authenticator) record(c *fiber.Ctx, outcome string) {
	c.Locals(outcomeKey, outcome)
	if a.metrics != nil {
		a.metrics.RecordAuthOutcome(outcome)
	}
}

// PrincipalFromContext retrieves the authenticated caller, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireAuth rejects requests that reach a protected handler without a
// bound principal, leaving an audit record of the rejection.
func (a *Authenticator) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			a.publishRejected(c)
			return apperrors.NewUnauthorized("User not authenticated")
		}
		return c.Next()
	}
}

func (a *Authenticator) publishRejected(c *fiber.Ctx) {
	if a.dispatcher == nil {
		return
	}
	detail := map[string]string{"path": c.Path()}
	if outcome, ok := c.Locals(outcomeKey).(string); ok {
		detail["outcome"] = outcome
	}
	_ = a.dispatcher.Publish(c.UserContext(), events.New(events.EventAuthRejected, uuid.Nil, detail))
}

package auth

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"anistream/pkg/models"
)

// SessionCookie names the signed cookie. It carries an opaque session
// id plus the user id, nothing else.
const SessionCookie = "anistream_session"

const (
	sessionIDKey = "sid"
	userIDKey    = "user_id"
)

// Session lifetime: 30 days.
const SessionMaxAge = 30 * 24 * 60 * 60

// dummyHash keeps the login path doing one bcrypt comparison whether or
// not the username exists, so the two failures cost the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func SignIn(c *gin.Context, u *models.User) error {
	sess := sessions.Default(c)
	sess.Set(sessionIDKey, uuid.NewString())
	sess.Set(userIDKey, u.ID)
	return sess.Save()
}

func SignOut(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}

// CurrentUser resolves the session to a stored user. (nil, nil) means
// no valid session.
func CurrentUser(c *gin.Context, repo *Repo) (*models.User, error) {
	sess := sessions.Default(c)
	id, ok := sess.Get(userIDKey).(int)
	if !ok || id <= 0 {
		return nil, nil
	}
	return repo.Get(c.Request.Context(), id)
}

// Authenticate verifies a username/password pair. (nil, nil) means the
// credentials did not match.
func Authenticate(ctx context.Context, repo *Repo, username, password string) (*models.User, error) {
	u, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	hash := dummyHash
	if u != nil {
		hash = u.Password
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil || u == nil {
		return nil, nil
	}
	return u, nil
}

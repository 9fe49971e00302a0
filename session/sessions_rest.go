package session

import (
	"net/http"
	"time"

	"docuflow/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// LoginUserFunc authenticates a name/password pair and yields the identity
// and perms to bind to the new session. Bound by the account package at
// startup to avoid an import cycle.
var LoginUserFunc func(name, password string) (*Identity, []string, error)

func RegisterSessionsHandler(r *gin.Engine) {
	g := r.Group("/v1/sessions")
	g.POST("", handleLogin)
	g.DELETE("", handleLogout)
}

func handleLogin(c *gin.Context) {
	login := LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	identity, perms, err := LoginUserFunc(login.Name, login.Password)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	token := uuid.New().String()
	s := Session{Token: token, Identity: *identity, Perms: perms, SigningTime: time.Now()}
	TokenCache.Set(token, &s, cache.DefaultExpiration)

	c.SetCookie(KeySecToken, token, int(TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, &s)
}

func handleLogout(c *gin.Context) {
	token, _ := c.Cookie(KeySecToken) // ErrNoCookie
	if token != "" {
		TokenCache.Delete(token)
	}
	c.SetCookie(KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

package session_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"docuflow/bizerror"
	"docuflow/session"
	"docuflow/testinfra"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/patrickmn/go-cache"
)

func TestLoginRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	session.RegisterSessionsHandler(router)

	t.Run("should be able to handle bind error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"EOF","data":null}`))
	})

	t.Run("should reject bad credentials", func(t *testing.T) {
		session.LoginUserFunc = func(name, password string) (*session.Identity, []string, error) {
			return nil, nil, bizerror.ErrUnauthenticated
		}
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader([]byte(
			`{"name":"ann","password":"wrong"}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))
	})

	t.Run("should issue a token cookie on success", func(t *testing.T) {
		session.LoginUserFunc = func(name, password string) (*session.Identity, []string, error) {
			Expect(name).To(Equal("ann"))
			Expect(password).To(Equal("abc123"))
			return &session.Identity{ID: 10, Name: "ann", Nickname: "Ann"}, []string{session.RoleManager}, nil
		}
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader([]byte(
			`{"name":"ann","password":"abc123"}`)))
		status, _, resp := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))

		var token string
		for _, c := range resp.Cookies() {
			if c.Name == session.KeySecToken {
				token = c.Value
			}
		}
		Expect(token).ToNot(BeEmpty())

		cached, found := session.TokenCache.Get(token)
		Expect(found).To(BeTrue())
		s := cached.(*session.Session)
		Expect(s.Identity).To(Equal(session.Identity{ID: 10, Name: "ann", Nickname: "Ann"}))
		Expect(s.Perms).To(Equal([]string{session.RoleManager}))
	})
}

func TestLogoutRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	session.RegisterSessionsHandler(router)

	t.Run("should drop the cached token", func(t *testing.T) {
		token := uuid.New().String()
		session.TokenCache.Set(token, &session.Session{Token: token}, cache.DefaultExpiration)

		req := httptest.NewRequest(http.MethodDelete, "/v1/sessions", nil)
		req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: token})
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(body).To(BeZero())

		_, found := session.TokenCache.Get(token)
		Expect(found).To(BeFalse())
	})

	t.Run("should succeed without a cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/v1/sessions", nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
	})
}

func TestSimpleAuthFilter(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	router.GET("/secured", session.SimpleAuthFilter(), func(c *gin.Context) {
		s := session.ExtractSessionFromGinContext(c)
		c.JSON(http.StatusOK, &s.Identity)
	})

	t.Run("should reject requests without a valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/secured", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))

		req = httptest.NewRequest(http.MethodGet, "/secured", nil)
		req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: "unknown token"})
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))
	})

	t.Run("should inject the session for a valid token", func(t *testing.T) {
		token := uuid.New().String()
		session.TokenCache.Set(token, &session.Session{Token: token,
			Identity: session.Identity{ID: 10, Name: "ann", Nickname: "Ann"}}, cache.DefaultExpiration)

		req := httptest.NewRequest(http.MethodGet, "/secured", nil)
		req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: token})
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"id":"10","name":"ann","nickname":"Ann"}`))
	})
}

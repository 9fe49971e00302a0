package testinfra

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSession builds an authenticated session for direct domain-function
// calls in tests.
func BuildSession(uid types.ID, perms ...string) *session.Session {
	if perms == nil {
		perms = []string{}
	}
	return &session.Session{
		Context:  context.Background(),
		Token:    "test_token_" + uid.String(),
		Identity: session.Identity{ID: uid, Name: fmt.Sprintf("user%d", uid), Nickname: fmt.Sprintf("User %d", uid)},
		Perms:    perms,
	}
}

func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Result()
	defer resp.Body.Close()
	bodyBytes, _ := ioutil.ReadAll(resp.Body)
	return resp.StatusCode, string(bodyBytes), resp
}

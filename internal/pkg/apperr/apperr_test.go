package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"go-messenger/internal/infrastructure/auth"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: bad token", auth.ErrUnauthorized), http.StatusUnauthorized, "unauthorized"},
		{Forbidden(errors.New("not a member")), http.StatusForbidden, "forbidden"},
		{Validation("limit must be positive"), http.StatusBadRequest, "bad_request"},
		{NotFound("conversation"), http.StatusNotFound, "not_found"},
		{Persistence(errors.New("conn refused")), http.StatusInternalServerError, "internal_error"},
		{errors.New("surprise"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, code := Classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestForbiddenKeepsCause(t *testing.T) {
	cause := errors.New("blocked")
	err := Forbidden(cause)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrForbidden, Forbidden(nil))
}

func TestRespondHidesPersistenceDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Respond(c, Persistence(errors.New("password=hunter2")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.Contains(t, w.Body.String(), `"code":"internal_error"`)
}

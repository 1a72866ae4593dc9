package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-messenger/internal/infrastructure/auth"
	chat "go-messenger/internal/pkg/chat/application/domain"
	"go-messenger/internal/pkg/chat/application/usecase"
	"go-messenger/internal/pkg/chat/persistence/repository/adapter"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"app.example.org", "*.example.net"}
	cases := map[string]bool{
		"":                           true,
		"https://app.example.org":    true,
		"http://APP.example.org:443": true,
		"https://chat.example.net":   true,
		"https://example.org":        false,
		"https://evil.org":           false,
		"https://example.net.evil":   false,
	}
	for origin, want := range cases {
		assert.Equal(t, want, OriginAllowed(origin, allowed), "origin %q", origin)
	}
	assert.True(t, OriginAllowed("https://anything", nil))
	assert.True(t, OriginAllowed("https://anything", []string{"*"}))
}

type noopPublisher struct{}

func (noopPublisher) PublishToConversation(context.Context, string, string, any, string) error {
	return nil
}

type names struct{}

func (names) DisplayName(_ context.Context, id string) string         { return id }
func (names) IsBlocked(context.Context, string, string) (bool, error) { return false, nil }

type controllerFixture struct {
	engine *gin.Engine
	token  string
	userID string
	convID string
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := adapter.NewMemoryChatRepository()
	userID, peer := uuid.NewString(), uuid.NewString()
	conv := repo.SeedConversation(chat.Conversation{
		ID:            uuid.NewString(),
		Members:       []string{userID, peer},
		LastMessageAt: time.Now(),
		CreatedAt:     time.Now(),
	})

	verifier := auth.NewVerifier("secret")
	token, err := verifier.Issue(auth.Identity{UserID: userID}, time.Hour)
	require.NoError(t, err)

	send := usecase.NewSendMessageUseCase(repo, names{}, noopPublisher{}, nil, time.Second, zap.NewNop())
	r := gin.New()
	g := r.Group("", auth.Middleware(verifier))
	g.POST("/messages", NewSendMessageController(send).Handle())
	g.GET("/conversations/:id/messages", NewGetMessageController(usecase.NewGetMessageUseCase(repo)).Handle())
	return &controllerFixture{engine: r, token: token, userID: userID, convID: conv.ID}
}

func (f *controllerFixture) serve(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSendMessageController(t *testing.T) {
	f := newControllerFixture(t)

	w := f.serve(http.MethodPost, "/messages", `{"conversationId":"`+f.convID+`","text":"hi","nonce":"n1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	msg := decodeBody(t, w)["message"].(map[string]any)
	assert.Equal(t, "hi", msg["text"])
	assert.Equal(t, "n1", msg["nonce"])
	assert.Equal(t, f.userID, msg["senderId"])

	w = f.serve(http.MethodPost, "/messages", `{"text":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", decodeBody(t, w)["code"])

	w = f.serve(http.MethodPost, "/messages", `{"conversationId":"`+uuid.NewString()+`","text":"hi"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMessageControllerQueryValidation(t *testing.T) {
	f := newControllerFixture(t)
	base := "/conversations/" + f.convID + "/messages"

	assert.Equal(t, http.StatusBadRequest, f.serve(http.MethodGet, base+"?limit=ten", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.serve(http.MethodGet, base+"?limit=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.serve(http.MethodGet, base+"?limit=0", "").Code)
	assert.Equal(t, http.StatusOK, f.serve(http.MethodGet, base, "").Code)
	assert.Equal(t, http.StatusBadRequest, f.serve(http.MethodGet, base+"?before=yesterday", "").Code)

	w := f.serve(http.MethodGet, base+"?limit=5&before="+time.Now().Add(time.Hour).Format(time.RFC3339Nano), "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["hasMore"])
	assert.Empty(t, body["messages"])
}

func TestControllersRequireToken(t *testing.T) {
	f := newControllerFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/conversations/"+f.convID+"/messages", nil)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

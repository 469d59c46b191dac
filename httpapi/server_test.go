package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/errors"
	"pairchat/mocks"
	"pairchat/runtime"
	"pairchat/services"
)

func newTestServer(t *testing.T) (*Server, *mocks.MockIAuthService, *mocks.MockIChatService, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	authService := mocks.NewMockIAuthService(ctrl)
	chatService := mocks.NewMockIChatService(ctrl)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	hub := runtime.NewHub(slog.Default(), runtime.NewRegistry(), 16)

	server := NewServer(slog.Default(), hub, authService, chatService, tokens,
		16, time.Second, t.TempDir())
	return server, authService, chatService, tokens
}

func sessionCookie(t *testing.T, tokens *auth.TokenManager, id string) *http.Cookie {
	t.Helper()
	token, err := tokens.Generate(id)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookie, Value: token}
}

func TestSignupEndpoint(t *testing.T) {
	t.Run("should create the account and set the session cookie", func(t *testing.T) {
		req := require.New(t)
		server, authService, _, _ := newTestServer(t)

		user := domain.User{ID: "uuid-123", FullName: "Alice Doe", Email: "alice@example.com"}
		authService.EXPECT().
			Register("Alice Doe", "alice@example.com", "Secret123456!").
			Return(user, "signed-token", nil).
			Times(1)

		body, _ := json.Marshal(map[string]string{
			"fullName": "Alice Doe",
			"email":    "alice@example.com",
			"password": "Secret123456!",
		})
		r := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, r)

		req.Equal(http.StatusCreated, w.Code)

		cookies := w.Result().Cookies()
		req.Len(cookies, 1)
		req.Equal(auth.SessionCookie, cookies[0].Name)
		req.Equal("signed-token", cookies[0].Value)
		req.True(cookies[0].HttpOnly)
	})

	t.Run("should map duplicate accounts to 409", func(t *testing.T) {
		req := require.New(t)
		server, authService, _, _ := newTestServer(t)

		authService.EXPECT().
			Register(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.User{}, "", errors.ErrUserAlreadyExists).
			Times(1)

		body, _ := json.Marshal(map[string]string{
			"fullName": "Alice Doe",
			"email":    "alice@example.com",
			"password": "Secret123456!",
		})
		r := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, r)

		req.Equal(http.StatusConflict, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	req := require.New(t)
	server, authService, _, _ := newTestServer(t)

	authService.EXPECT().
		Login("alice@example.com", "wrong").
		Return(domain.User{}, "", errors.ErrInvalidCredentials).
		Times(1)

	body, _ := json.Marshal(map[string]string{"email": "alice@example.com", "password": "wrong"})
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, r)

	req.Equal(http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireASession(t *testing.T) {
	req := require.New(t)
	server, _, _, _ := newTestServer(t)

	for _, path := range []string{"/api/auth/check", "/api/message/users", "/api/message/chats/bob"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, r)
		req.Equal(http.StatusUnauthorized, w.Code, path)
	}
}

func TestContactsEndpoint(t *testing.T) {
	req := require.New(t)
	server, _, chatService, tokens := newTestServer(t)

	contacts := []domain.User{{ID: "bob", FullName: "Bob"}, {ID: "clara", FullName: "Clara"}}
	chatService.EXPECT().ListContacts(domain.Identity("uuid-123")).Return(contacts, nil).Times(1)

	r := httptest.NewRequest(http.MethodGet, "/api/message/users", nil)
	r.AddCookie(sessionCookie(t, tokens, "uuid-123"))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, r)

	req.Equal(http.StatusOK, w.Code)

	var payload struct {
		SidebarUsers []domain.User `json:"sidebarUsers"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &payload))
	req.Len(payload.SidebarUsers, 2)
}

func TestConversationEndpoint(t *testing.T) {
	req := require.New(t)
	server, _, chatService, tokens := newTestServer(t)

	history := []domain.Message{{SenderID: "bob", ReceiverID: "uuid-123", Text: "hello"}}
	chatService.EXPECT().
		GetConversation(domain.Identity("uuid-123"), domain.Identity("bob")).
		Return(history, nil).
		Times(1)

	r := httptest.NewRequest(http.MethodGet, "/api/message/chats/bob", nil)
	r.AddCookie(sessionCookie(t, tokens, "uuid-123"))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, r)

	req.Equal(http.StatusOK, w.Code)
}

func TestSendMessageEndpoint(t *testing.T) {
	t.Run("should forward the multipart fields to the service", func(t *testing.T) {
		req := require.New(t)
		server, _, chatService, tokens := newTestServer(t)

		sent := domain.Message{SenderID: "uuid-123", ReceiverID: "bob", Text: "hello"}
		chatService.EXPECT().
			SendMessage(gomock.Any(), domain.Identity("uuid-123"), services.SendMessageCommand{
				Receiver: "bob",
				Text:     "hello",
			}).
			Return(sent, nil).
			Times(1)

		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		req.NoError(form.WriteField("text", "hello"))
		req.NoError(form.Close())

		r := httptest.NewRequest(http.MethodPost, "/api/message/send/bob", &body)
		r.Header.Set("Content-Type", form.FormDataContentType())
		r.AddCookie(sessionCookie(t, tokens, "uuid-123"))
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)

		var payload struct {
			NewMessage domain.Message `json:"newMessage"`
		}
		req.NoError(json.Unmarshal(w.Body.Bytes(), &payload))
		req.Equal("hello", payload.NewMessage.Text)
	})

	t.Run("should map an empty payload to 400", func(t *testing.T) {
		req := require.New(t)
		server, _, chatService, tokens := newTestServer(t)

		chatService.EXPECT().
			SendMessage(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.Message{}, errors.ErrEmptyPayload).
			Times(1)

		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		req.NoError(form.Close())

		r := httptest.NewRequest(http.MethodPost, "/api/message/send/bob", &body)
		r.Header.Set("Content-Type", form.FormDataContentType())
		r.AddCookie(sessionCookie(t, tokens, "uuid-123"))
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, r)

		req.Equal(http.StatusBadRequest, w.Code)
	})
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/ws"
)

// Client talks to one server: authentication and messaging over HTTP,
// live events over the websocket. All exported methods are safe for
// concurrent use once Connect has returned.
type Client struct {
	baseURL string
	http    *http.Client

	mu         sync.Mutex
	identity   domain.Identity
	online     []domain.Identity
	reconciler *Reconciler
	conn       *websocket.Conn

	// PresenceUpdated and MessageApplied, when set before Connect, are
	// called from the listen goroutine after each applied event.
	PresenceUpdated func([]domain.Identity)
	MessageApplied  func(domain.Message)
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

// Signup creates an account and leaves the client authenticated.
func (c *Client) Signup(fullName, email, password string) (domain.User, error) {
	return c.authenticate("/api/auth/signup", map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	})
}

// Login authenticates an existing account.
func (c *Client) Login(email, password string) (domain.User, error) {
	return c.authenticate("/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) authenticate(path string, payload map[string]string) (domain.User, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.User{}, err
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return domain.User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.User{}, apiError(resp)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return domain.User{}, err
	}

	c.mu.Lock()
	c.identity = user.ID
	c.reconciler = NewReconciler(user.ID)
	c.mu.Unlock()
	return user, nil
}

// Connect opens the websocket and starts the listen goroutine. The
// session token is carried as a query parameter because the websocket
// library does not share the HTTP client's cookie jar.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.reconciler == nil {
		c.mu.Unlock()
		return fmt.Errorf("connect before login")
	}
	c.mu.Unlock()

	wsURL, err := c.socketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", wsURL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.listen(conn)
	return nil
}

// Select fetches the conversation with the counterpart and makes it the
// active view.
func (c *Client) Select(counterpart domain.Identity) (View, error) {
	resp, err := c.http.Get(c.baseURL + "/api/message/chats/" + url.PathEscape(string(counterpart)))
	if err != nil {
		return View{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return View{}, apiError(resp)
	}

	var payload struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return View{}, err
	}

	c.mu.Lock()
	reconciler := c.reconciler
	c.mu.Unlock()
	reconciler.Select(counterpart, payload.Messages)
	return reconciler.Current(), nil
}

// SendMessage posts a message to the active counterpart and appends the
// persisted result to the view.
func (c *Client) SendMessage(receiver domain.Identity, text string, image []byte) (domain.Message, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("text", text); err != nil {
		return domain.Message{}, err
	}
	if len(image) > 0 {
		part, err := form.CreateFormFile("image", "upload")
		if err != nil {
			return domain.Message{}, err
		}
		if _, err := part.Write(image); err != nil {
			return domain.Message{}, err
		}
	}
	if err := form.Close(); err != nil {
		return domain.Message{}, err
	}

	resp, err := c.http.Post(c.baseURL+"/api/message/send/"+url.PathEscape(string(receiver)),
		form.FormDataContentType(), &body)
	if err != nil {
		return domain.Message{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Message{}, apiError(resp)
	}

	var payload struct {
		NewMessage domain.Message `json:"newMessage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Message{}, err
	}

	c.mu.Lock()
	reconciler := c.reconciler
	c.mu.Unlock()
	reconciler.AppendLocal(payload.NewMessage)
	return payload.NewMessage, nil
}

// Contacts returns every other account on the server.
func (c *Client) Contacts() ([]domain.User, error) {
	resp, err := c.http.Get(c.baseURL + "/api/message/users")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var payload struct {
		SidebarUsers []domain.User `json:"sidebarUsers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.SidebarUsers, nil
}

// Online returns the identities from the latest presence snapshot.
func (c *Client) Online() []domain.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Identity(nil), c.online...)
}

// Conversation returns the current view.
func (c *Client) Conversation() View {
	c.mu.Lock()
	reconciler := c.reconciler
	c.mu.Unlock()
	if reconciler == nil {
		return View{}
	}
	return reconciler.Current()
}

// Identity returns the authenticated identity, empty before login.
func (c *Client) Identity() domain.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Close tears down the websocket. The listen goroutine exits on the read
// error that follows.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (c *Client) listen(conn *websocket.Conn) {
	for {
		var frame ws.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Type {
		case ws.FramePresence:
			c.mu.Lock()
			c.online = frame.Online
			callback := c.PresenceUpdated
			c.mu.Unlock()
			if callback != nil {
				callback(frame.Online)
			}
		case ws.FrameMessage:
			if frame.Message == nil {
				continue
			}
			c.mu.Lock()
			reconciler := c.reconciler
			callback := c.MessageApplied
			c.mu.Unlock()
			if reconciler.ApplyPush(*frame.Message) && callback != nil {
				callback(*frame.Message)
			}
		}
	}
}

// socketURL derives ws(s)://host/ws?token=... from the base URL and the
// session cookie stored by login.
func (c *Client) socketURL() (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	token := ""
	for _, cookie := range c.http.Jar.Cookies(base) {
		if cookie.Name == auth.SessionCookie {
			token = cookie.Value
		}
	}
	if token == "" {
		return "", fmt.Errorf("no session cookie, login first")
	}

	scheme := "ws"
	if base.Scheme == "https" {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/ws?token=%s", scheme, base.Host, url.QueryEscape(token)), nil
}

func apiError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, payload.Message)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}

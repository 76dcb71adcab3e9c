package vk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/zhubert/vkterm/internal/errors"
	"github.com/zhubert/vkterm/internal/logger"
)

// ErrCodeTooManyRequests is returned when the per-second request quota is exhausted.
const ErrCodeTooManyRequests = 6

const (
	defaultBaseURL    = "https://api.vk.com/method"
	defaultVersion    = "5.199"
	defaultRetryDelay = 400 * time.Millisecond

	// userFields are requested wherever presence is needed.
	userFields = "online,online_mobile,last_seen"
)

// APIError is an error object returned by the API in place of a response.
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk error %d: %s", e.Code, e.Message)
}

// Client calls the VK HTTP API.
type Client struct {
	token      string
	baseURL    string
	version    string
	retryDelay time.Duration
	http       *http.Client
	log        *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithVersion sets the API version sent with every call.
func WithVersion(v string) ClientOption {
	return func(c *Client) { c.version = v }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithRetryDelay sets the pause before retrying a rate-limited call.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.retryDelay = d }
}

// NewClient creates a client authenticated with the given access token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		version:    defaultVersion,
		retryDelay: defaultRetryDelay,
		http:       &http.Client{},
		log:        logger.WithComponent("vk"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ API = (*Client)(nil)

// envelope is the top-level shape of every API reply.
type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *APIError       `json:"error"`
}

// call invokes method and decodes the response into out. A rate-limited call is retried once.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	err := c.do(ctx, method, params, out)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == ErrCodeTooManyRequests {
		c.log.Debug("rate limited, retrying", "method", method, "delay", c.retryDelay)
		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return pkgerrors.APITimeout(method, ctx.Err())
		}
		err = c.do(ctx, method, params, out)
	}
	return err
}

func (c *Client) do(ctx context.Context, method string, params url.Values, out any) error {
	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("access_token", c.token)
	form.Set("v", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.APIRequestFailed(method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return pkgerrors.APITimeout(method, err)
		}
		return pkgerrors.APIRequestFailed(method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.APIRequestFailed(method, err)
	}
	c.log.Debug("api call", "method", method, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.APIRequestFailed(method, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return pkgerrors.APIRequestFailed(method, fmt.Errorf("decode envelope: %w", err))
	}
	if env.Error != nil {
		return pkgerrors.APIFailed(method, env.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return pkgerrors.APIRequestFailed(method, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// Wire formats

type lastSeenDTO struct {
	Time int64 `json:"time"`
}

type userDTO struct {
	ID           int64        `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Online       int          `json:"online"`
	OnlineMobile int          `json:"online_mobile"`
	LastSeen     *lastSeenDTO `json:"last_seen"`
}

func (u userDTO) name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u userDTO) user() User {
	p := Presence{
		ID:     u.ID,
		Online: u.Online == 1,
		Mobile: u.Online == 1 && u.OnlineMobile == 1,
	}
	if u.LastSeen != nil {
		p.LastSeen = u.LastSeen.Time
	}
	return User{Peer: Peer{ID: u.ID, Name: u.name()}, Presence: p}
}

type groupDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type messageDTO struct {
	ID     int64  `json:"id"`
	FromID int64  `json:"from_id"`
	Text   string `json:"text"`
	Date   int64  `json:"date"`
	Out    int    `json:"out"`
}

func (m messageDTO) message() Message {
	return Message{ID: m.ID, FromID: m.FromID, Text: m.Text, Date: m.Date, Out: m.Out == 1}
}

type conversationItemDTO struct {
	Conversation struct {
		Peer struct {
			ID   int64  `json:"id"`
			Type string `json:"type"`
		} `json:"peer"`
		ChatSettings *struct {
			Title string `json:"title"`
		} `json:"chat_settings"`
	} `json:"conversation"`
	LastMessage *messageDTO `json:"last_message"`
}

// Friends implements API.
func (c *Client) Friends(ctx context.Context) ([]Peer, error) {
	var resp struct {
		Items []userDTO `json:"items"`
	}
	params := url.Values{"fields": {"first_name,last_name"}}
	if err := c.call(ctx, MethodFriends, params, &resp); err != nil {
		return nil, err
	}
	peers := make([]Peer, 0, len(resp.Items))
	for _, u := range resp.Items {
		peers = append(peers, Peer{ID: u.ID, Name: u.name()})
	}
	return peers, nil
}

// Conversations implements API. Names are resolved from the extended profiles,
// groups and chat settings returned alongside the items.
func (c *Client) Conversations(ctx context.Context, count int) ([]Conversation, error) {
	var resp struct {
		Items    []conversationItemDTO `json:"items"`
		Profiles []userDTO             `json:"profiles"`
		Groups   []groupDTO            `json:"groups"`
	}
	params := url.Values{
		"count":    {strconv.Itoa(count)},
		"extended": {"1"},
	}
	if err := c.call(ctx, MethodConversations, params, &resp); err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(resp.Profiles)+len(resp.Groups))
	for _, u := range resp.Profiles {
		names[u.ID] = u.name()
	}
	for _, g := range resp.Groups {
		names[-g.ID] = g.Name
	}

	convs := make([]Conversation, 0, len(resp.Items))
	for _, item := range resp.Items {
		peerID := item.Conversation.Peer.ID
		name := names[peerID]
		if name == "" && item.Conversation.ChatSettings != nil {
			name = item.Conversation.ChatSettings.Title
		}
		conv := Conversation{Peer: Peer{ID: peerID, Name: name}}
		if item.LastMessage != nil {
			msg := item.LastMessage.message()
			conv.LastMessage = &msg
		}
		convs = append(convs, conv)
	}
	return convs, nil
}

// Users implements API. An empty id list returns immediately without a request.
func (c *Client) Users(ctx context.Context, ids []int64) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.FormatInt(id, 10)
	}

	var resp []userDTO
	params := url.Values{
		"user_ids": {strings.Join(strIDs, ",")},
		"fields":   {userFields},
	}
	if err := c.call(ctx, MethodUsers, params, &resp); err != nil {
		return nil, err
	}
	users := make([]User, 0, len(resp))
	for _, u := range resp {
		users = append(users, u.user())
	}
	return users, nil
}

// History implements API.
func (c *Client) History(ctx context.Context, peerID int64, count int) ([]Message, error) {
	var resp struct {
		Items []messageDTO `json:"items"`
	}
	params := url.Values{
		"peer_id": {strconv.FormatInt(peerID, 10)},
		"count":   {strconv.Itoa(count)},
	}
	if err := c.call(ctx, MethodHistory, params, &resp); err != nil {
		return nil, err
	}
	msgs := make([]Message, 0, len(resp.Items))
	for _, m := range resp.Items {
		msgs = append(msgs, m.message())
	}
	return msgs, nil
}

// Send implements API.
func (c *Client) Send(ctx context.Context, peerID int64, randomID int32, text string) (int64, error) {
	var id int64
	params := url.Values{
		"peer_id":   {strconv.FormatInt(peerID, 10)},
		"random_id": {strconv.FormatInt(int64(randomID), 10)},
		"message":   {text},
	}
	if err := c.call(ctx, MethodSend, params, &id); err != nil {
		return 0, err
	}
	return id, nil
}

package zabbix

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const apiPath = "/api_jsonrpc.php"

// ErrNotAuthorized reports a failed login or an expired session.
var ErrNotAuthorized = errors.New("zabbix: not authorized")

// APIError is a JSON-RPC error returned by the monitoring API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("zabbix: %s %s", e.Message, e.Data)
	}
	return "zabbix: " + e.Message
}

// Observer is notified about every API call, for metrics.
type Observer func(method string, err error)

// Client is a minimal JSON-RPC client for the monitoring API. A client is
// bound to one server and, after Login, to one session; it holds no other
// state and is built per request.
type Client struct {
	baseURL  string
	client   *http.Client
	session  string
	observer Observer
	nextID   atomic.Int64
}

// Option configures the client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		if skip {
			c.client.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}
}

// WithObserver registers a call observer.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient constructs a client for one API endpoint.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("zabbix: empty base url")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login opens an API session. Credentials are used for this single call and
// are not retained.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var session string
	params := map[string]any{"username": username, "password": password}
	if err := c.call(ctx, "user.login", params, &session); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w: %s", ErrNotAuthorized, apiErr.errorText())
		}
		return err
	}
	if session == "" {
		return ErrNotAuthorized
	}
	c.session = session
	return nil
}

func (e *APIError) errorText() string {
	if e.Data != "" {
		return e.Data
	}
	return e.Message
}

// Logout closes the API session.
func (c *Client) Logout(ctx context.Context) error {
	if c.session == "" {
		return nil
	}
	err := c.call(ctx, "user.logout", []any{}, nil)
	c.session = ""
	return err
}

// HostGet fetches hosts by id.
func (c *Client) HostGet(ctx context.Context, hostIDs []string) ([]Host, error) {
	var hosts []Host
	params := map[string]any{
		"hostids": hostIDs,
		"output":  []string{"hostid", "name"},
	}
	if err := c.call(ctx, "host.get", params, &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// TriggerGet fetches the triggers of the given hosts with the relations the
// routing pass needs.
func (c *Client) TriggerGet(ctx context.Context, hostIDs []string) ([]Trigger, error) {
	var triggers []Trigger
	params := map[string]any{
		"hostids":             hostIDs,
		"selectTags":          "extend",
		"selectHosts":         []string{"hostid"},
		"selectHostGroups":    []string{"groupid"},
		"selectDiscoveryRule": []string{"templateid"},
		"output":              "extend",
	}
	if err := c.call(ctx, "trigger.get", params, &triggers); err != nil {
		return nil, err
	}
	return triggers, nil
}

// TemplateGet fetches templates owning the given triggers.
func (c *Client) TemplateGet(ctx context.Context, triggerIDs []string) ([]Template, error) {
	var templates []Template
	params := map[string]any{
		"triggerids":        triggerIDs,
		"selectTriggers":    []string{"triggerid"},
		"selectDiscoveries": []string{"itemid"},
		"output":            []string{"templateid"},
	}
	if err := c.call(ctx, "template.get", params, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// ActionGet fetches enabled trigger actions with their filters and all three
// operation lists.
func (c *Client) ActionGet(ctx context.Context) ([]Action, error) {
	var actions []Action
	params := map[string]any{
		"selectFilter":             "extend",
		"selectOperations":         "extend",
		"selectRecoveryOperations": "extend",
		"selectUpdateOperations":   "extend",
		"filter":                   map[string]any{"eventsource": 0, "status": 0},
		"output":                   []string{"actionid", "esc_period", "eval_formula", "name"},
	}
	if err := c.call(ctx, "action.get", params, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// MediaTypeGet fetches enabled media types with their message templates.
func (c *Client) MediaTypeGet(ctx context.Context) ([]MediaType, error) {
	var mediaTypes []MediaType
	params := map[string]any{
		"selectMessageTemplates": "extend",
		"filter":                 map[string]any{"status": 0},
		"output":                 []string{"mediatypeid", "name"},
	}
	if err := c.call(ctx, "mediatype.get", params, &mediaTypes); err != nil {
		return nil, err
	}
	return mediaTypes, nil
}

// UserGroupGet fetches all user groups with members and host group rights.
func (c *Client) UserGroupGet(ctx context.Context) ([]UserGroup, error) {
	var groups []UserGroup
	params := map[string]any{
		"selectUsers":           []string{"userid"},
		"selectHostGroupRights": "extend",
		"output":                []string{"usrgrpid"},
	}
	if err := c.call(ctx, "usergroup.get", params, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// UserGet fetches enabled users with their groups, media and role.
func (c *Client) UserGet(ctx context.Context) ([]User, error) {
	var users []User
	params := map[string]any{
		"selectUsrgrps": []string{"usrgrpid"},
		"selectMedias":  []string{"mediatypeid", "active", "sendto"},
		"selectRole":    []string{"roleid", "type"},
		"filter":        map[string]any{"status": 0},
		"output":        []string{"userid", "username", "name", "surname"},
	}
	if err := c.call(ctx, "user.get", params, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *APIError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params any, out any) (err error) {
	defer func() {
		if c.observer != nil {
			c.observer(method, err)
		}
	}()

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json-rpc")
	if c.session != "" && method != "user.login" {
		req.Header.Set("Authorization", "Bearer "+c.session)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("zabbix: %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("zabbix: %s: http %d", method, resp.StatusCode)
	}

	var rpc rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		return fmt.Errorf("zabbix: %s: %w", method, err)
	}
	if rpc.Error != nil {
		return rpc.Error
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(rpc.Result, out)
}

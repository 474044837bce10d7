package openlaw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"petitionsigner/internal/petition/models"
	"petitionsigner/internal/platform/metrics"
	"petitionsigner/pkg/platform/circuit"
)

// TokenHeader is the header the contract-hosting service reads the session token from.
// It is set verbatim since the service matches it case-sensitively.
const TokenHeader = "OPENLAW_JWT"

const (
	contentTypeText = "text/plain;charset=UTF-8"
	contentTypeForm = "application/x-www-form-urlencoded"
	maxBodyBytes    = 32 << 20
)

// Operation names used for errors, metrics and logs.
const (
	OpLogin          = "login"
	OpGetTemplate    = "get_template"
	OpSaveTemplate   = "save_template"
	OpUploadContract = "upload_contract"
	OpContractStatus = "contract_status"
	OpExport         = "export"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RedirectPolicy selects how Upload treats 3xx answers.
type RedirectPolicy int

const (
	// RedirectFollow lets the HTTP client follow redirects to the final resource.
	RedirectFollow RedirectPolicy = iota
	// RedirectManual returns the redirect response itself, Location header intact.
	RedirectManual
)

func (p RedirectPolicy) String() string {
	if p == RedirectManual {
		return "manual"
	}
	return "follow"
}

// RawResponse is an HTTP answer handed back uninterpreted.
type RawResponse struct {
	Status   int
	Header   http.Header
	Body     []byte
	FinalURL *url.URL // set only when a followed redirect moved the request elsewhere
}

// Template is the subset of a template record the petition flow relies on.
type Template struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// Document is an exported contract rendition.
type Document struct {
	ContentType string
	Body        []byte
}

// UploadPayload is the contract envelope accepted by the upload endpoint.
type UploadPayload struct {
	TemplateID           string            `json:"templateId"`
	Title                string            `json:"title"`
	Text                 string            `json:"text"`
	Creator              string            `json:"creator"`
	Parameters           map[string]string `json:"parameters"`
	OverriddenParagraphs map[string]string `json:"overriddenParagraphs"`
	Agreements           map[string]string `json:"agreements"`
	ReadonlyEmails       []string          `json:"readonlyEmails"`
	EditEmails           []string          `json:"editEmails"`
	Options              UploadOptions     `json:"options"`
}

// UploadOptions carries per-upload service flags.
type UploadOptions struct {
	SendNotification bool `json:"sendNotification"`
}

// NewUploadPayload fills the envelope's fixed empty collections.
func NewUploadPayload(templateID, title, text, creator string, params map[string]string, notify bool) UploadPayload {
	if params == nil {
		params = map[string]string{}
	}
	return UploadPayload{
		TemplateID:           templateID,
		Title:                title,
		Text:                 text,
		Creator:              creator,
		Parameters:           params,
		OverriddenParagraphs: map[string]string{},
		Agreements:           map[string]string{},
		ReadonlyEmails:       []string{},
		EditEmails:           []string{},
		Options:              UploadOptions{SendNotification: notify},
	}
}

// Client talks to the contract-hosting service's REST API.
type Client struct {
	root    string
	timeout time.Duration
	follow  HTTPDoer
	manual  HTTPDoer
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient derives both redirect flavours from a base client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client == nil {
			return
		}
		manual := *client
		manual.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		c.follow = client
		c.manual = &manual
	}
}

// WithDoers sets the redirect-following and redirect-preserving doers directly (for testing).
func WithDoers(follow, manual HTTPDoer) Option {
	return func(c *Client) {
		c.follow = follow
		c.manual = manual
	}
}

// WithBreaker records every call outcome on b. The breaker never blocks calls.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the given API root, e.g. https://lib.openlaw.io/api/v1/default.
func New(root string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		root:    strings.TrimRight(root, "/"),
		timeout: timeout,
		logger:  slog.Default(),
	}
	WithHTTPClient(&http.Client{})(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the default API root.
func (c *Client) Root() string {
	return c.root
}

// RootFor returns the API root a session talks to.
func (c *Client) RootFor(session *models.Session) string {
	if session != nil && session.Root != "" {
		return strings.TrimRight(session.Root, "/")
	}
	return c.root
}

// Login posts the user's credentials and returns the raw answer for token extraction.
// Non-2xx answers are returned as errors.
func (c *Client) Login(ctx context.Context, root, email, password string) (*RawResponse, error) {
	if root == "" {
		root = c.root
	}
	form := url.Values{}
	form.Set("userId", email)
	form.Set("password", password)

	resp, err := c.do(ctx, OpLogin, RedirectFollow, http.MethodPost, strings.TrimRight(root, "/")+"/app/login", "", contentTypeForm, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return resp, classifyStatus(OpLogin, resp.Status)
	}
	return resp, nil
}

// GetTemplate fetches a template by title.
func (c *Client) GetTemplate(ctx context.Context, session *models.Session, title string) (*Template, error) {
	endpoint := fmt.Sprintf("%s/template/%s", c.RootFor(session), url.PathEscape(title))
	resp, err := c.do(ctx, OpGetTemplate, RedirectFollow, http.MethodGet, endpoint, tokenOf(session), "", nil)
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, classifyStatus(OpGetTemplate, resp.Status)
	}
	id, ok := ParseIdentifier(resp.Body, "id", "templateId")
	if !ok {
		return nil, NewRemoteError(ErrorBadData, OpGetTemplate, resp.Status, "template has no identifier", nil)
	}
	return &Template{ID: id, Title: title}, nil
}

// SaveTemplate creates or overwrites a template with the given markup.
func (c *Client) SaveTemplate(ctx context.Context, session *models.Session, title, text string) (*Template, error) {
	endpoint := fmt.Sprintf("%s/upload/template/%s", c.RootFor(session), url.PathEscape(title))
	resp, err := c.do(ctx, OpSaveTemplate, RedirectFollow, http.MethodPost, endpoint, tokenOf(session), contentTypeText, strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, classifyStatus(OpSaveTemplate, resp.Status)
	}
	id, ok := ParseIdentifier(resp.Body, "id", "templateId")
	if !ok {
		return nil, NewRemoteError(ErrorBadData, OpSaveTemplate, resp.Status, "saved template has no identifier", nil)
	}
	return &Template{ID: id, Title: title}, nil
}

// Upload posts a contract envelope. Any HTTP answer, including 3xx and 4xx,
// is returned uninterpreted; only transport failures produce an error.
func (c *Client) Upload(ctx context.Context, session *models.Session, payload UploadPayload, policy RedirectPolicy) (*RawResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewRemoteError(ErrorInternal, OpUploadContract, 0, "failed to marshal request", err)
	}
	endpoint := c.RootFor(session) + "/upload/contract"
	return c.do(ctx, OpUploadContract, policy, http.MethodPost, endpoint, tokenOf(session), contentTypeText, bytes.NewReader(body))
}

// ContractStatus returns the remote signature status document for a contract.
func (c *Client) ContractStatus(ctx context.Context, session *models.Session, contractID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/contract/sign/status?id=%s", c.RootFor(session), url.QueryEscape(contractID))
	resp, err := c.do(ctx, OpContractStatus, RedirectFollow, http.MethodGet, endpoint, tokenOf(session), "", nil)
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, classifyStatus(OpContractStatus, resp.Status)
	}
	if !json.Valid(resp.Body) {
		return nil, NewRemoteError(ErrorBadData, OpContractStatus, resp.Status, "status is not JSON", nil)
	}
	return json.RawMessage(resp.Body), nil
}

// Export downloads a contract rendition. format is "pdf" or "docx".
func (c *Client) Export(ctx context.Context, session *models.Session, contractID, format string) (*Document, error) {
	if format != "pdf" && format != "docx" {
		return nil, NewRemoteError(ErrorInternal, OpExport, 0, fmt.Sprintf("unsupported format %q", format), nil)
	}
	endpoint := fmt.Sprintf("%s/contract/%s/%s", c.RootFor(session), format, url.PathEscape(contractID))
	resp, err := c.do(ctx, OpExport, RedirectFollow, http.MethodGet, endpoint, tokenOf(session), "", nil)
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, classifyStatus(OpExport, resp.Status)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = exportContentType(format)
	}
	return &Document{ContentType: contentType, Body: resp.Body}, nil
}

func exportContentType(format string) string {
	if format == "docx" {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

func tokenOf(session *models.Session) string {
	if session == nil {
		return ""
	}
	return session.AuthToken
}

// do executes one bounded request and reads the whole body.
func (c *Client) do(ctx context.Context, op string, policy RedirectPolicy, method, endpoint, token, contentType string, body io.Reader) (*RawResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, NewRemoteError(ErrorInternal, op, 0, "failed to create request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header[TokenHeader] = []string{token}
	}

	doer := c.follow
	if policy == RedirectManual {
		doer = c.manual
	}

	start := time.Now()
	resp, err := doer.Do(req)
	if c.metrics != nil {
		c.metrics.ObserveRemoteCall(op, time.Since(start))
	}
	if err != nil {
		rerr := classifyTransport(ctx, op, err)
		c.record(op, false)
		c.logger.WarnContext(ctx, "remote call failed",
			"operation", op,
			"redirects", policy.String(),
			"category", string(rerr.Category),
			"error", err,
		)
		return nil, rerr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		rerr := classifyTransport(ctx, op, err)
		c.record(op, false)
		return nil, rerr
	}
	c.record(op, resp.StatusCode < 500)

	var final *url.URL
	if resp.Request != nil && resp.Request.URL != nil && resp.Request.URL.String() != req.URL.String() {
		final = resp.Request.URL
	}

	c.logger.DebugContext(ctx, "remote call completed",
		"operation", op,
		"redirects", policy.String(),
		"status", resp.StatusCode,
	)
	return &RawResponse{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     data,
		FinalURL: final,
	}, nil
}

func classifyTransport(ctx context.Context, op string, err error) *RemoteError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return NewRemoteError(ErrorTimeout, op, 0, "request timeout", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewRemoteError(ErrorCanceled, op, 0, "request canceled", err)
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return NewRemoteError(ErrorTimeout, op, 0, "request timeout", err)
	}
	return NewRemoteError(ErrorNetwork, op, 0, "failed to execute request", err)
}

// record feeds the breaker and keeps the open gauge in sync on transitions.
func (c *Client) record(op string, ok bool) {
	if c.breaker == nil {
		return
	}
	change := c.breaker.Observe(ok)
	switch {
	case change.Opened:
		c.logger.Warn("remote circuit opened", "breaker", c.breaker.Name(), "operation", op)
	case change.Closed:
		c.logger.Info("remote circuit closed", "breaker", c.breaker.Name(), "operation", op)
	}
	if c.metrics != nil && change.Changed() {
		c.metrics.SetBreakerOpen(change.Opened)
	}
}

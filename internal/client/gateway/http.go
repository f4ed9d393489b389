package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oz-main-09-team3/emodiary/internal/client/models"
	"github.com/oz-main-09-team3/emodiary/internal/common"
	"github.com/oz-main-09-team3/emodiary/internal/logging"
)

const defaultTimeout = 10 * time.Second

// HTTPGateway implements Gateway over the backend's JSON REST API.
type HTTPGateway struct {
	baseURL string
	token   string
	timeout time.Duration
	client  *http.Client
	log     logging.Logger
}

type Option func(*HTTPGateway)

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(g *HTTPGateway) { g.token = token }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *HTTPGateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGateway) { g.client = c }
}

func WithLogger(l logging.Logger) Option {
	return func(g *HTTPGateway) { g.log = l }
}

func NewHTTPGateway(baseURL string, opts ...Option) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		client:  &http.Client{},
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *HTTPGateway) Ping(ctx context.Context) error {
	// The contract defines no health endpoint; the emotion catalog is the
	// cheapest collection to probe.
	return g.do(ctx, http.MethodGet, "/emotions", nil, nil)
}

func (g *HTTPGateway) ListDiaries(ctx context.Context) ([]models.Diary, error) {
	var raw []models.RawDiary
	if err := g.do(ctx, http.MethodGet, "/diaries", nil, &raw); err != nil {
		return nil, err
	}

	out := make([]models.Diary, 0, len(raw))
	for _, r := range raw {
		d, err := r.Normalize()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (g *HTTPGateway) GetDiary(ctx context.Context, id string) (*models.Diary, []models.Comment, error) {
	var raw models.RawDiary
	if err := g.do(ctx, http.MethodGet, "/diaries/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, nil, err
	}

	d, err := raw.Normalize()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	return &d, raw.NormalizeComments(), nil
}

func (g *HTTPGateway) CreateDiary(ctx context.Context, draft models.Draft) (*models.Diary, error) {
	body := struct {
		EmotionID  int    `json:"emotion_id"`
		Content    string `json:"content"`
		Visibility bool   `json:"visibility"`
	}{EmotionID: draft.EmotionID, Content: draft.Content, Visibility: draft.Visible}

	var raw models.RawDiary
	if err := g.do(ctx, http.MethodPost, "/diaries", body, &raw); err != nil {
		return nil, err
	}

	d, err := raw.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	return &d, nil
}

func (g *HTTPGateway) UpdateDiary(ctx context.Context, id string, patch models.Patch) (*models.Diary, error) {
	body := map[string]any{}
	if patch.EmotionID != nil {
		body["emotion_id"] = *patch.EmotionID
	}
	if patch.Content != nil {
		body["content"] = *patch.Content
	}
	if patch.Visible != nil {
		body["visibility"] = *patch.Visible
	}

	var raw models.RawDiary
	if err := g.do(ctx, http.MethodPatch, "/diaries/"+url.PathEscape(id), body, &raw); err != nil {
		return nil, err
	}

	d, err := raw.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	return &d, nil
}

func (g *HTTPGateway) DeleteDiary(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodDelete, "/diaries/"+url.PathEscape(id), nil, nil)
}

func (g *HTTPGateway) AddLike(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodPost, "/diaries/"+url.PathEscape(id)+"/like", nil, nil)
}

func (g *HTTPGateway) RemoveLike(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodDelete, "/diaries/"+url.PathEscape(id)+"/like", nil, nil)
}

func (g *HTTPGateway) ListEmotions(ctx context.Context) ([]models.Emotion, error) {
	var raw []models.RawEmotion
	if err := g.do(ctx, http.MethodGet, "/emotions", nil, &raw); err != nil {
		return nil, err
	}

	out := make([]models.Emotion, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.Normalize())
	}
	return out, nil
}

// do issues one request under the gateway timeout, unwraps the response
// envelope and decodes the payload into out (which may be nil).
func (g *HTTPGateway) do(ctx context.Context, method, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set(common.AuthHeaderName, "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		// Timeouts surface here as context errors and are an ordinary
		// network failure from the cache's point of view.
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	g.log.Debug(ctx, "gateway request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return mapStatus(resp.StatusCode, method, path)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", common.ErrNetwork, err)
	}
	if err := json.Unmarshal(unwrapEnvelope(data), out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", common.ErrNetwork, err)
	}
	return nil
}

// unwrapEnvelope returns the innermost payload of a response body. The
// backend variants wrap payloads directly, under "data", or under
// "data.results".
func unwrapEnvelope(body []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Data) == 0 {
		return body
	}
	var inner struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(env.Data, &inner); err == nil && len(inner.Results) > 0 {
		return inner.Results
	}
	return env.Data
}

func mapStatus(code int, method, path string) error {
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", common.ErrNotFound, method, path)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s %s", common.ErrValidation, method, path)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s %s", common.ErrConflict, method, path)
	default:
		return fmt.Errorf("%w: %s %s returned status %d", common.ErrNetwork, method, path, code)
	}
}

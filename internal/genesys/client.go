// Package genesys is a thin HTTP client for the four platform surfaces the
// pipeline consumes: the analytics conversation-details query, per-conversation
// recording metadata, batch download jobs, and identity/routing point lookups.
package genesys

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

	"github.com/cenkalti/backoff/v4"

	"recording-extract-go/internal/logger"
)

// Client talks to one Genesys Cloud region with a bearer token obtained via
// the client-credentials grant.
type Client struct {
	apiBase    string
	loginBase  string
	httpClient *http.Client
	token      string
	log        *logger.Logger
}

// NewClient builds an unauthenticated client for a region such as
// "mypurecloud.de". Call Login before any API method.
func NewClient(region string) *Client {
	return &Client{
		apiBase:    "https://api." + region,
		loginBase:  "https://login." + region,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        logger.New(),
	}
}

// Login performs the OAuth client-credentials handshake and stores the token.
func (c *Client) Login(ctx context.Context, clientID, clientSecret string) error {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.loginBase+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("oauth token request: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oauth token request: status %d: %s", resp.StatusCode, string(body))
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return fmt.Errorf("oauth token request: bad response body")
	}
	c.token = tok.AccessToken
	return nil
}

// QueryConversations runs one page of the analytics conversation-details query.
func (c *Client) QueryConversations(ctx context.Context, query *ConversationQuery) (*ConversationQueryResponse, error) {
	var out ConversationQueryResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v2/analytics/conversations/details/query", query, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ConversationRecordings fetches the recording descriptors for one conversation.
func (c *Client) ConversationRecordings(ctx context.Context, conversationID string) ([]RecordingMetadata, error) {
	var out []RecordingMetadata
	path := "/api/v2/conversations/" + url.PathEscape(conversationID) + "/recordingmetadata"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitBatchDownload submits one batch download job and returns its job ID.
func (c *Client) SubmitBatchDownload(ctx context.Context, pairs []BatchDownloadRequest) (string, error) {
	var out BatchJobSubmission
	body := batchSubmitBody{BatchDownloadRequestList: pairs}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v2/recording/batchrequests", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("batch submit: no job id in response")
	}
	return out.ID, nil
}

// BatchDownloadStatus polls one batch job.
func (c *Client) BatchDownloadStatus(ctx context.Context, jobID string) (*BatchJobStatus, error) {
	var out BatchJobStatus
	path := "/api/v2/recording/batchrequests/" + url.PathEscape(jobID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches one user with the manager reference expanded.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var out User
	path := "/api/v2/users/" + url.PathEscape(userID) + "?expand=manager"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers fetches one page of active users.
func (c *Client) ListUsers(ctx context.Context, pageSize, pageNumber int) (*UsersPage, error) {
	var out UsersPage
	path := fmt.Sprintf("/api/v2/users?pageSize=%d&pageNumber=%d&state=active", pageSize, pageNumber)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWrapupCode resolves one wrap-up code.
func (c *Client) GetWrapupCode(ctx context.Context, codeID string) (*WrapupCode, error) {
	var out WrapupCode
	path := "/api/v2/routing/wrapupcodes/" + url.PathEscape(codeID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON issues one JSON request with retry on transport and 5xx errors.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	ebo := backoff.NewExponentialBackOff()
	ebo.MaxElapsedTime = 30 * time.Second
	bo := backoff.WithContext(ebo, ctx)
	var lastErr error
	op := func() error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncate(data))
			c.log.WithField("path", path).WithField("status", resp.StatusCode).Warn("platform call will be retried")
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncate(data))
			return backoff.Permanent(lastErr)
		}
		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			lastErr = fmt.Errorf("%s %s: decode response: %w", method, path, err)
			return backoff.Permanent(lastErr)
		}
		return nil
	}
	if err := backoff.Retry(op, bo); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}

func truncate(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

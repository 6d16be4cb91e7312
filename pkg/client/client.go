// Package client is a small Go SDK for the enquiry service. It mirrors
// the console workflows: staff load a candidate, move them through the
// pipeline and edit their details, with the same role gates the server
// enforces reflected back through the pipeline view.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Stage is a pipeline position, matching the server's canonical values.
type Stage string

// Canonical stages in funnel order.
const (
	StageEnquiry        Stage = "enquiry stage"
	StageDemo           Stage = "demo"
	StageQualifiedDemo  Stage = "qualified demo"
	StageClass          Stage = "class"
	StageClassQualified Stage = "class qualified"
	StagePlacement      Stage = "placement"
)

// DemoStatus is the demo phase outcome.
type DemoStatus string

// Demo status values.
const (
	DemoNotStarted    DemoStatus = "Not yet started"
	DemoInProgress    DemoStatus = "In Progress"
	DemoCompleted     DemoStatus = "Completed"
	DemoNotInterested DemoStatus = "Not interested"
)

// Error is a typed API failure decoded from the server's error envelope.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("enquiry sdk error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
}

// Enquiry is one candidate record as returned by the API.
type Enquiry struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Location      string     `json:"current_location"`
	PackageID     *string    `json:"package_id"`
	SubjectIDs    []string   `json:"subject_ids"`
	TrainingMode  string     `json:"training_mode"`
	TrainingTime  string     `json:"training_time"`
	StartTime     string     `json:"start_time"`
	Profession    string     `json:"profession"`
	Qualification string     `json:"qualification"`
	Experience    string     `json:"experience"`
	Referral      string     `json:"referral"`
	Consent       bool       `json:"consent"`
	Stage         Stage      `json:"candidate_status"`
	StageIndex    int        `json:"stage_index"`
	DemoStatus    DemoStatus `json:"demo_status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of the enquiry.
func (e Enquiry) Clone() Enquiry {
	out := e
	if e.PackageID != nil {
		id := *e.PackageID
		out.PackageID = &id
	}
	if e.SubjectIDs != nil {
		out.SubjectIDs = make([]string, len(e.SubjectIDs))
		copy(out.SubjectIDs, e.SubjectIDs)
	}
	return out
}

// Pipeline describes what the caller's role may see and do.
type Pipeline struct {
	Stages             []Stage `json:"stages"`
	VisibleStages      []Stage `json:"visible_stages"`
	DemoStatusEditable bool    `json:"demo_status_editable"`
	BillingAuthorized  bool    `json:"billing_authorized"`
}

// EnquiryDetail bundles a candidate with the role-scoped pipeline view.
type EnquiryDetail struct {
	Enquiry
	Pipeline Pipeline `json:"pipeline"`
}

// EnquiryUpdate carries partial field changes; nil means unchanged.
type EnquiryUpdate struct {
	Name          *string     `json:"name,omitempty"`
	Email         *string     `json:"email,omitempty"`
	Phone         *string     `json:"phone,omitempty"`
	Location      *string     `json:"current_location,omitempty"`
	PackageID     *string     `json:"package_id,omitempty"`
	SubjectIDs    *[]string   `json:"subject_ids,omitempty"`
	TrainingMode  *string     `json:"training_mode,omitempty"`
	TrainingTime  *string     `json:"training_time,omitempty"`
	StartTime     *string     `json:"start_time,omitempty"`
	Profession    *string     `json:"profession,omitempty"`
	Qualification *string     `json:"qualification,omitempty"`
	Experience    *string     `json:"experience,omitempty"`
	Referral      *string     `json:"referral,omitempty"`
	DemoStatus    *DemoStatus `json:"demo_status,omitempty"`
}

// Billing holds payment figures in minor units plus the derived balance.
type Billing struct {
	EnquiryID string    `json:"enquiry_id"`
	Total     int64     `json:"total"`
	Paid      int64     `json:"paid"`
	Discount  int64     `json:"discount"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BillingUpdate carries partial figure changes in minor units.
type BillingUpdate struct {
	Total    *int64 `json:"total,omitempty"`
	Paid     *int64 `json:"paid,omitempty"`
	Discount *int64 `json:"discount,omitempty"`
}

// Client talks to the enquiry service REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a client for baseURL authenticating with the given
// bearer token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetEnquiry fetches one candidate together with the caller's pipeline view.
func (c *Client) GetEnquiry(ctx context.Context, id string) (*EnquiryDetail, error) {
	var detail EnquiryDetail
	if err := c.do(ctx, http.MethodGet, "/enquiries/"+url.PathEscape(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateEnquiry sends partial field changes and returns the stored record.
func (c *Client) UpdateEnquiry(ctx context.Context, id string, update EnquiryUpdate) (*Enquiry, error) {
	var enquiry Enquiry
	if err := c.do(ctx, http.MethodPut, "/enquiries/"+url.PathEscape(id), update, &enquiry); err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// ChangeStatus moves a candidate to a new pipeline stage.
func (c *Client) ChangeStatus(ctx context.Context, id string, stage Stage) (*Enquiry, error) {
	body := map[string]any{"enquiry_id": id, "new_status": stage}
	var enquiry Enquiry
	if err := c.do(ctx, http.MethodPost, "/enquiries/change-status", body, &enquiry); err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// GetBilling fetches the billing figures for a candidate. A nil result
// with nil error means billing has not been initialized yet.
func (c *Client) GetBilling(ctx context.Context, enquiryID string) (*Billing, error) {
	var billing *Billing
	if err := c.do(ctx, http.MethodGet, "/enquiries/"+url.PathEscape(enquiryID)+"/billing", nil, &billing); err != nil {
		return nil, err
	}
	return billing, nil
}

// CreateBilling initializes the billing record for a candidate.
func (c *Client) CreateBilling(ctx context.Context, enquiryID string) (*Billing, error) {
	var billing Billing
	if err := c.do(ctx, http.MethodPost, "/enquiries/"+url.PathEscape(enquiryID)+"/billing", nil, &billing); err != nil {
		return nil, err
	}
	return &billing, nil
}

// UpdateBilling sends partial figure changes and returns the stored record.
func (c *Client) UpdateBilling(ctx context.Context, enquiryID string, update BillingUpdate) (*Billing, error) {
	var billing Billing
	if err := c.do(ctx, http.MethodPut, "/enquiries/"+url.PathEscape(enquiryID)+"/billing", update, &billing); err != nil {
		return nil, err
	}
	return &billing, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, respBody)
	}
	if dest == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return err
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	return json.Unmarshal(envelope.Data, dest)
}

func parseAPIError(status int, body []byte) error {
	out := &Error{StatusCode: status}
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Code == "" && envelope.Error.Message == "" {
		out.Message = strings.TrimSpace(string(body))
		if out.Message == "" {
			out.Message = http.StatusText(status)
		}
		return out
	}
	out.Code = envelope.Error.Code
	out.Message = envelope.Error.Message
	out.Details = envelope.Error.Details
	return out
}

// IsForbidden reports whether err is a 403 API error.
func IsForbidden(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 API error.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/api"
	"github.com/dmitrijs2005/tillpoint/internal/common"
	"resty.dev/v3"
)

// RestClient is the HTTP implementation of Backend, built on resty.
type RestClient struct {
	c *resty.Client
}

// NewRestClient builds a Backend talking to the given base URL. All calls
// share the same per-request timeout.
func NewRestClient(baseURL string, timeout time.Duration) *RestClient {
	c := resty.New().
		SetBaseURL(baseURL + "/api/v1").
		SetTimeout(timeout)
	return &RestClient{c: c}
}

func (r *RestClient) SetAccessToken(token string) {
	r.c.SetAuthToken(token)
}

func (r *RestClient) Close() error {
	return r.c.Close()
}

// do runs one request and folds transport and HTTP errors into the shared
// taxonomy. result may be nil for calls without a response body.
func (r *RestClient) do(ctx context.Context, method string, url string, body any, result any) error {
	var apiErr api.ErrorResponse

	req := r.c.R().
		SetContext(ctx).
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	res, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	if res.IsError() {
		return mapAPIError(res.StatusCode(), &apiErr)
	}
	return nil
}

func (r *RestClient) Ping(ctx context.Context) error {
	return r.do(ctx, resty.MethodGet, "/ping", nil, nil)
}

func (r *RestClient) Login(ctx context.Context, username string, pin string) (*api.LoginResponse, error) {
	var out api.LoginResponse
	req := &api.LoginRequest{Username: username, PIN: pin}
	if err := r.do(ctx, resty.MethodPost, "/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RestClient) Authorize(ctx context.Context, username string, pin string, operation string) (*api.AuthorizeResponse, error) {
	var out api.AuthorizeResponse
	req := &api.AuthorizeRequest{Username: username, PIN: pin, Operation: operation}
	if err := r.do(ctx, resty.MethodPost, "/supervisor/authorize", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RestClient) OpenTerminal(ctx context.Context, terminalID string, req *api.OpenTerminalRequest) (*api.Session, error) {
	var out api.Session
	url := fmt.Sprintf("/terminals/%s/open", terminalID)
	if err := r.do(ctx, resty.MethodPost, url, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RestClient) CloseTerminal(ctx context.Context, terminalID string, req *api.CloseTerminalRequest) (*api.Session, error) {
	var out api.Session
	url := fmt.Sprintf("/terminals/%s/close", terminalID)
	if err := r.do(ctx, resty.MethodPost, url, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RestClient) RecordMovement(ctx context.Context, shiftID string, req *api.RecordMovementRequest) (*api.Movement, error) {
	var out api.Movement
	url := fmt.Sprintf("/shifts/%s/movements", shiftID)
	if err := r.do(ctx, resty.MethodPost, url, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RestClient) ListMovements(ctx context.Context, shiftID string) ([]api.Movement, error) {
	var out []api.Movement
	url := fmt.Sprintf("/shifts/%s/movements", shiftID)
	if err := r.do(ctx, resty.MethodGet, url, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RestClient) RecordSale(ctx context.Context, req *api.RecordSaleRequest) (*api.Sale, error) {
	var out api.Sale
	if err := r.do(ctx, resty.MethodPost, "/sales", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RestClient) CalculateHandover(ctx context.Context, terminalID string, req *api.CalculateHandoverRequest) (*api.HandoverSummary, error) {
	var out api.HandoverSummary
	url := fmt.Sprintf("/terminals/%s/handover/calculate", terminalID)
	if err := r.do(ctx, resty.MethodPost, url, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *RestClient) ExecuteHandover(ctx context.Context, terminalID string, req *api.ExecuteHandoverRequest) (*api.HandoverSummary, error) {
	var out api.HandoverSummary
	url := fmt.Sprintf("/terminals/%s/handover/execute", terminalID)
	if err := r.do(ctx, resty.MethodPost, url, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

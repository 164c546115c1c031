package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	coreapi "github.com/planvik/rosterd/core/api"
	"github.com/planvik/rosterd/core/logger"
	infralogger "github.com/planvik/rosterd/infra/logger"
)

// Client talks to the remote scheduling service over HTTP. It implements
// both coreapi.Store and coreapi.Generator.
type Client struct {
	http    *http.Client
	genHTTP *http.Client
	base    string
	log     logger.Logger
}

// NewClient creates a Client from the configuration.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return &Client{
		http:    &http.Client{Timeout: timeout},
		genHTTP: &http.Client{Timeout: 4 * timeout},
		base:    cfg.BaseURL,
		log:     infralogger.New("api-client"),
	}
}

// List fetches all schedule records for a facility.
func (c *Client) List(ctx context.Context, facilityID string) ([]coreapi.RawScheduleRecord, error) {
	var out []coreapi.RawScheduleRecord
	path := fmt.Sprintf("/facilities/%s/schedules", url.PathEscape(facilityID))
	if err := c.do(ctx, c.http, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create persists a new schedule record.
func (c *Client) Create(ctx context.Context, facilityID string, periodStart time.Time, assignments []coreapi.RawAssignment) (coreapi.RawScheduleRecord, error) {
	body := map[string]any{
		"period_start": periodStart.Format("2006-01-02"),
		"assignments":  assignments,
	}
	var out coreapi.RawScheduleRecord
	path := fmt.Sprintf("/facilities/%s/schedules", url.PathEscape(facilityID))
	if err := c.do(ctx, c.http, http.MethodPost, path, body, &out); err != nil {
		return coreapi.RawScheduleRecord{}, err
	}
	return out, nil
}

// Update replaces the assignments of an existing schedule record.
func (c *Client) Update(ctx context.Context, id string, assignments []coreapi.RawAssignment) (coreapi.RawScheduleRecord, error) {
	body := map[string]any{"assignments": assignments}
	var out coreapi.RawScheduleRecord
	path := fmt.Sprintf("/schedules/%s", url.PathEscape(id))
	if err := c.do(ctx, c.http, http.MethodPut, path, body, &out); err != nil {
		return coreapi.RawScheduleRecord{}, err
	}
	return out, nil
}

// Delete removes a schedule record.
func (c *Client) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/schedules/%s", url.PathEscape(id))
	return c.do(ctx, c.http, http.MethodDelete, path, nil, nil)
}

// Generate calls the external optimization service for a schedule proposal.
func (c *Client) Generate(ctx context.Context, req coreapi.GenerateRequest) (coreapi.GenerateResult, error) {
	body := map[string]any{
		"facility_id":  req.FacilityID,
		"period_start": req.PeriodStart.Format("2006-01-02"),
		"period_type":  req.PeriodType,
		"zones":        req.Zones,
		"constraints":  req.Constraints,
	}
	var out coreapi.GenerateResult
	if err := c.do(ctx, c.genHTTP, http.MethodPost, "/schedules/generate", body, &out); err != nil {
		return coreapi.GenerateResult{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warnf("%s %s: status %d", method, path, resp.StatusCode)
		return coreapi.NewRemoteError(resp.StatusCode, string(bytes.TrimSpace(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

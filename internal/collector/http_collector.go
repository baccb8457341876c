package collector

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/OldStager01/traffic-extrema/internal/logger"
	"github.com/OldStager01/traffic-extrema/pkg/models"
)

const (
	propertyPath = "/api/getobjectproperty.htm"
	historicPath = "/api/historicdata.csv"
	statusPath   = "/api/status.json"
)

var limitPattern = regexp.MustCompile(`<result>(\d+)</result>`)

type HTTPCollector struct {
	client   *http.Client
	baseURL  string
	username string
	passhash string
}

type HTTPCollectorConfig struct {
	BaseURL            string
	Username           string
	Passhash           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

func NewHTTPCollector(cfg HTTPCollectorConfig) *HTTPCollector {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &HTTPCollector{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		passhash: cfg.Passhash,
	}
}

func (c *HTTPCollector) Thresholds(ctx context.Context, objectID models.ObjectID) models.Limits {
	// Sequential on purpose: one request in flight per object.
	return models.Limits{
		Warning: c.fetchLimit(ctx, objectID, PropertyLimitMaxWarning),
		Error:   c.fetchLimit(ctx, objectID, PropertyLimitMaxError),
	}
}

func (c *HTTPCollector) fetchLimit(ctx context.Context, objectID models.ObjectID, name string) *float64 {
	params := url.Values{}
	params.Set("subtype", "channel")
	params.Set("subid", "-1")
	params.Set("name", name)
	params.Set("show", "nohtmlencode")
	params.Set("username", c.username)
	params.Set("passhash", c.passhash)
	params.Set("id", string(objectID))

	status, body, err := c.get(ctx, propertyPath, params)
	if err != nil {
		logger.WithObjectCtx(ctx, objectID).Warnf("Lookup of %s failed: %v", name, err)
		return nil
	}
	if status != http.StatusOK {
		logger.WithObjectCtx(ctx, objectID).Warnf("Lookup of %s returned status %d", name, status)
		return nil
	}

	match := limitPattern.FindSubmatch(body)
	if match == nil {
		logger.WithObjectCtx(ctx, objectID).Debugf("No %s configured", name)
		return nil
	}

	raw, err := strconv.ParseFloat(string(match[1]), 64)
	if err != nil {
		logger.WithObjectCtx(ctx, objectID).Warnf("Unusable %s value %q: %v", name, match[1], err)
		return nil
	}

	mbps := models.BytesPerSecondToMbps(raw)
	return &mbps
}

func (c *HTTPCollector) Series(ctx context.Context, objectID models.ObjectID, q SeriesQuery) (*models.Table, error) {
	params := url.Values{}
	params.Set("id", string(objectID))
	params.Set("avg", q.Average)
	params.Set("sdate", q.StartDate)
	params.Set("edate", q.EndDate)
	params.Set("username", c.username)
	params.Set("passhash", c.passhash)

	status, body, err := c.get(ctx, historicPath, params)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, &StatusError{Code: status, Body: string(body)}
	}

	table, err := ParseTable(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	logger.WithObjectCtx(ctx, objectID).Debugf("Fetched %d historic rows", len(table.Rows))

	return table, nil
}

// get issues a GET and returns status and body. The query string carries
// credentials, so only the path is logged.
func (c *HTTPCollector) get(ctx context.Context, path string, params url.Values) (int, []byte, error) {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to create request: %v", ErrCollectionFailed, err)
	}

	logger.WithField("path", path).Debug("Requesting monitoring server")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, nil, ErrTimeout
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrCollectionFailed, redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to read response body: %v", ErrCollectionFailed, err)
	}

	return resp.StatusCode, body, nil
}

// redact strips the query string from url errors so credentials do not end
// up in logs or report notices.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, perr := url.Parse(urlErr.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
		}
	}
	return err
}

func (c *HTTPCollector) HealthCheck(ctx context.Context) error {
	params := url.Values{}
	params.Set("username", c.username)
	params.Set("passhash", c.passhash)

	status, _, err := c.get(ctx, statusPath, params)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if status != http.StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}

	return nil
}

func (c *HTTPCollector) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

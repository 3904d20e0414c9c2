package feed

import (
	"context"
	"crypto/tls"
	"fmt"
	"mensa-go-worker/services"
	"mensa-go-worker/structs"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// FetchError reports a transport failure or a non-success response from the
// feed or image host.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Err.Error())
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client talks to the Speiseplan feed host. Nothing is retried or cached.
type Client struct {
	baseURL string
	plan    *http.Client
	image   *http.Client
}

// NewClient builds a client for baseURL. A zero timeout means no timeout.
//
// When imageInsecureSkipVerify is set, image downloads skip certificate chain
// verification. Image bytes fetched that way must not be treated as authentic.
func NewClient(baseURL string, timeout time.Duration, imageInsecureSkipVerify bool) *Client {
	imageTransport := http.DefaultTransport.(*http.Transport).Clone()
	if imageInsecureSkipVerify {
		imageTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- configured via feed.image_insecure_skip_verify
	}
	return NewClientWithHTTP(baseURL,
		&http.Client{Timeout: timeout},
		&http.Client{Timeout: timeout, Transport: imageTransport},
	)
}

// NewClientWithHTTP uses the given clients for plan and image requests.
func NewClientWithHTTP(baseURL string, plan, image *http.Client) *Client {
	if plan == nil {
		plan = http.DefaultClient
	}
	if image == nil {
		image = plan
	}
	return &Client{baseURL: baseURL, plan: plan, image: image}
}

// PlanURL returns the feed address of one plan document.
func (c *Client) PlanURL(req structs.PlanRequest) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("plan", strconv.FormatInt(req.LocationID, 10))
	q.Set("tag", strconv.Itoa(req.Date.Day()))
	q.Set("monat", strconv.Itoa(int(req.Date.Month())))
	q.Set("jahr", strconv.Itoa(req.Date.Year()))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchPlan downloads the raw XML for one location and date.
func (c *Client) FetchPlan(ctx context.Context, req structs.PlanRequest) ([]byte, error) {
	planURL, err := c.PlanURL(req)
	if err != nil {
		return nil, &FetchError{URL: c.baseURL, Err: err}
	}
	return c.get(ctx, c.plan, planURL)
}

// FetchImage downloads an image payload. An empty URL yields no data and no error.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if imageURL == "" {
		return nil, nil
	}
	return c.get(ctx, c.image, imageURL)
}

func (c *Client) get(ctx context.Context, client *http.Client, target string) ([]byte, error) {
	status, body, err := services.HttpRequest(ctx, client, http.MethodGet, target, nil, nil)
	if err != nil {
		return nil, &FetchError{URL: target, StatusCode: status, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &FetchError{URL: target, StatusCode: status}
	}
	return body, nil
}

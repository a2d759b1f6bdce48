// Package client is a Go client for the TravelLog REST API.
package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: cli}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if tok := c.Token(); tok != "" {
		req.SetAuthToken(tok)
	}
	return req
}

func (c *Client) SignUp(ctx context.Context, in SignUpInput) (User, error) {
	var out User
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(&out).
		Post("/users/signup")
	if err != nil {
		return User{}, fmt.Errorf("signup request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return User{}, err
	}

	return out, nil
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}

	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/users/login")
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	c.SetToken(out.Token)
	return out.Token, nil
}

func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (Page[User], error) {
	return list[User](ctx, c, "/users", opts, nil)
}

func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var out User
	err := c.get(ctx, "/users/"+strconv.FormatInt(id, 10), &out)
	return out, err
}

func (c *Client) PatchUser(ctx context.Context, id int64, fields map[string]any) (User, error) {
	var out User
	err := c.send(ctx, "PATCH", "/users/"+strconv.FormatInt(id, 10), fields, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", "/users/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) CreateTrip(ctx context.Context, in TripInput) (Trip, error) {
	var out Trip
	err := c.send(ctx, "POST", "/trips", in, &out)
	return out, err
}

// ListTrips lists trips, optionally only those created by creator (0 = all).
func (c *Client) ListTrips(ctx context.Context, creator int64, opts ListOptions) (Page[Trip], error) {
	var filter map[string]string
	if creator > 0 {
		filter = map[string]string{"tripCreator": strconv.FormatInt(creator, 10)}
	}
	return list[Trip](ctx, c, "/trips", opts, filter)
}

func (c *Client) GetTrip(ctx context.Context, id int64) (Trip, error) {
	var out Trip
	err := c.get(ctx, "/trips/"+strconv.FormatInt(id, 10), &out)
	return out, err
}

func (c *Client) PatchTrip(ctx context.Context, id int64, fields map[string]any) (Trip, error) {
	var out Trip
	err := c.send(ctx, "PATCH", "/trips/"+strconv.FormatInt(id, 10), fields, &out)
	return out, err
}

func (c *Client) ReplaceTrip(ctx context.Context, id int64, in TripInput) (Trip, error) {
	var out Trip
	err := c.send(ctx, "PUT", "/trips/"+strconv.FormatInt(id, 10), in, &out)
	return out, err
}

func (c *Client) DeleteTrip(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", "/trips/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ListTripPlaces(ctx context.Context, tripID int64, opts ListOptions) (Page[Place], error) {
	return list[Place](ctx, c, "/trips/"+strconv.FormatInt(tripID, 10)+"/places", opts, nil)
}

func (c *Client) CreatePlace(ctx context.Context, in PlaceInput) (Place, error) {
	var out Place
	err := c.send(ctx, "POST", "/places", in, &out)
	return out, err
}

func (c *Client) ListPlaces(ctx context.Context, tripID int64, opts ListOptions) (Page[Place], error) {
	var filter map[string]string
	if tripID > 0 {
		filter = map[string]string{"placeCorrTrip": strconv.FormatInt(tripID, 10)}
	}
	return list[Place](ctx, c, "/places", opts, filter)
}

func (c *Client) GetPlace(ctx context.Context, id int64) (Place, error) {
	var out Place
	err := c.get(ctx, "/places/"+strconv.FormatInt(id, 10), &out)
	return out, err
}

func (c *Client) PatchPlace(ctx context.Context, id int64, fields map[string]any) (Place, error) {
	var out Place
	err := c.send(ctx, "PATCH", "/places/"+strconv.FormatInt(id, 10), fields, &out)
	return out, err
}

func (c *Client) DeletePlace(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", "/places/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.request(ctx).SetResult(out).Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return mapHTTPError(resp)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	req := c.request(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return mapHTTPError(resp)
}

func list[T any](ctx context.Context, c *Client, path string, opts ListOptions, filter map[string]string) (Page[T], error) {
	items := make([]T, 0)

	req := c.request(ctx).SetResult(&items)
	if opts.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		req.SetQueryParam("pageSize", strconv.Itoa(opts.PageSize))
	}
	if len(filter) > 0 {
		req.SetQueryParams(filter)
	}

	resp, err := req.Get(path)
	if err != nil {
		return Page[T]{}, fmt.Errorf("GET %s: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return Page[T]{}, err
	}

	h := resp.Header()
	page, _ := strconv.Atoi(h.Get("Pagination-Page"))
	size, _ := strconv.Atoi(h.Get("Pagination-PageSize"))
	total, _ := strconv.ParseInt(h.Get("Pagination-Total"), 10, 64)

	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: size,
		Total:    total,
		Link:     h.Get("Link"),
	}, nil
}

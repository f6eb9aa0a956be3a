package backend

import (
	"context"
	"encoding/json"
	"log"

	"restaurant-dashboard/models"
)

const (
	customerLoginPath    = "/api/v1/customers/login"
	customerRegisterPath = "/api/v1/customers/register"
	logoutPath           = "/api/logout"
)

// tokenPaths are the field paths tried, in order, against a parsed login
// response. Backends in the wild disagree on where the token lives.
var tokenPaths = [][]string{
	{"accessToken"},
	{"token"},
	{"access_token"},
	{"data", "accessToken"},
	{"data", "token"},
	{"data", "access_token"},
}

var rolePaths = [][]string{
	{"role"},
	{"user", "role"},
	{"data", "role"},
}

// LoginResult is what a successful login yields after extraction.
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// RegisterRequest is the customer registration payload. Age is optional and
// already numeric by the time it reaches the client.
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Age      *int   `json:"age,omitempty"`
	Contact  string `json:"contact"`
	Address  string `json:"address,omitempty"`
	Password string `json:"password"`
}

// RegisterResponse keeps whatever the backend returned alongside the two
// fields the dashboard cares about.
type RegisterResponse struct {
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
	Raw     map[string]any `json:"-"`
}

// Login authenticates against the role-appropriate endpoint. Admins use the
// auth endpoint, everyone else the customer endpoint; this split is a
// backend contract, not an accident. On success the token and role are
// written to the session store, which notifies all subscribers.
func (c *Client) Login(ctx context.Context, username, password, role string) (LoginResult, error) {
	var res map[string]any
	if models.IsAdmin(role) {
		body := map[string]string{"username": username, "password": password}
		if role != "" {
			body["role"] = role
		}
		if err := c.Post(ctx, adminLoginPath, body, &res); err != nil {
			return LoginResult{}, err
		}
	} else {
		if role == "" {
			role = "customer"
		}
		body := map[string]string{"username": username, "password": password, "role": "customer"}
		if err := c.Post(ctx, customerLoginPath, body, &res); err != nil {
			return LoginResult{}, err
		}
	}

	token, ok := extract(res, tokenPaths)
	if !ok {
		raw, _ := json.Marshal(res)
		log.Printf("auth: login returned no token: %s", raw)
		return LoginResult{}, &LoginError{Response: string(raw)}
	}
	// prefer the role the server reports, fall back to the requested one;
	// the fallback is deliberate leniency for backends that omit it
	respRole, ok := extract(res, rolePaths)
	if !ok {
		respRole = role
	}

	c.store.SetAccessToken(token, respRole)
	return LoginResult{Token: token, Role: respRole}, nil
}

// RegisterCustomer creates a customer account. Single POST, no retry.
func (c *Client) RegisterCustomer(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var raw map[string]any
	if err := c.Post(ctx, customerRegisterPath, req, &raw); err != nil {
		return RegisterResponse{}, err
	}
	out := RegisterResponse{Raw: raw}
	if id, ok := extract(raw, [][]string{{"id"}}); ok {
		out.ID = id
	}
	if msg, ok := extract(raw, [][]string{{"message"}}); ok {
		out.Message = msg
	}
	return out, nil
}

// Logout tells the backend best-effort, then clears the local session.
// In-flight requests that already captured a token are unaffected.
func (c *Client) Logout(ctx context.Context) {
	if err := c.Post(ctx, logoutPath, nil, nil); err != nil {
		log.Printf("auth: logout notification failed: %v", err)
	}
	c.store.SetAccessToken("", "")
	c.store.SetCustomerUsername("")
}

// extract walks each candidate path through nested JSON objects and returns
// the first non-empty string (or stringified scalar) found.
func extract(m map[string]any, paths [][]string) (string, bool) {
	for _, path := range paths {
		cur := any(m)
		ok := true
		for _, key := range path {
			obj, isMap := cur.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			cur, isMap = obj[key]
			if !isMap {
				ok = false
				break
			}
		}
		if !ok || cur == nil {
			continue
		}
		switch v := cur.(type) {
		case string:
			if v != "" {
				return v, true
			}
		case json.Number:
			return v.String(), true
		case float64:
			b, _ := json.Marshal(v)
			return string(b), true
		}
	}
	return "", false
}

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

// Returned to callers on any credential-exchange failure. Upstream detail is
// logged but never surfaced.
var errAuthFailed = errors.New("authentication failed")

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// authenticate exchanges an organization code for a bearer token via a
// password grant against the identity host. It fails closed: transport
// errors, non-2xx statuses, and malformed bodies all collapse into
// errAuthFailed.
func (a *API) authenticate(ctx context.Context, org string) (string, error) {
	// Create span
	span, ctx := apm.StartSpan(ctx, "Token Exchange", "OAuth")
	defer span.End()

	// Derive the upstream username from the org
	username := a.cfg.UsernameBase + strings.ToLower(org)

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", a.cfg.Password)

	headers := map[string]string{
		"Content-Type":  "application/x-www-form-urlencoded",
		"Authorization": "Basic " + basicAuth(a.cfg.ClientID, a.cfg.ClientSecret),
	}

	body := strings.NewReader(form.Encode())
	resp, err := sendRequest(a.client, http.MethodPost, a.authURL(), nil, headers, body)
	if err != nil {
		logger(ctx, fmt.Errorf("token exchange failed for %s: %v", username, err))
		return "", errAuthFailed
	}

	respBody, err := readBody(resp)
	if err != nil {
		logger(ctx, fmt.Errorf("token exchange read failed for %s: %v", username, err))
		return "", errAuthFailed
	}

	// Verify status code
	if resp.StatusCode >= 400 {
		logger(ctx, fmt.Errorf("token exchange rejected for %s (%d)", username, resp.StatusCode))
		return "", errAuthFailed
	}

	var token tokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil || token.AccessToken == "" {
		logger(ctx, fmt.Errorf("token exchange returned an unusable body for %s", username))
		return "", errAuthFailed
	}

	a.logIssuedToken(org, token.AccessToken)

	return token.AccessToken, nil
}

func basicAuth(id, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(id + ":" + secret))
}

func parseToken(authHeader string) (*jwt.Token, error) {
	index := strings.Index(authHeader, "Bearer ")
	if index == 0 {
		authHeader = authHeader[len("Bearer "):]
	}

	// Parse the auth token
	token, _, err := new(jwt.Parser).ParseUnverified(authHeader, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	return token, nil
}

// logIssuedToken records the subject and expiry of a freshly issued token for
// audit purposes. The token is parsed unverified; the upstream is the one
// validating it on every call. Opaque (non-JWT) tokens are logged without
// claims.
func (a *API) logIssuedToken(org, accessToken string) {
	token, err := parseToken(accessToken)
	if err != nil {
		zapLogger.Info("issued token", zap.String("org", org))
		return
	}

	fields := []zap.Field{zap.String("org", org)}
	if sub, err := token.Claims.GetSubject(); err == nil && sub != "" {
		fields = append(fields, zap.String("subject", sub))
	}
	if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
		fields = append(fields, zap.Time("expires", exp.Time))
		fields = append(fields, zap.Duration("ttl", time.Until(exp.Time)))
	}
	zapLogger.Info("issued token", fields...)
}

package main

import (
	"compress/gzip"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API is the client for the upstream yard-management and identity hosts.
// One instance is built at startup and shared by all requests.
type API struct {
	cfg    *Config
	client *http.Client
}

func newAPI(cfg *Config) *API {
	transport := http.DefaultTransport
	if cfg.InsecureTLS {
		// Escape hatch for internal hosts with self-signed certificates.
		// See Config.InsecureTLS.
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &API{
		cfg: cfg,
		client: &http.Client{
			Timeout:   time.Duration(cfg.Timeout) * time.Second,
			Transport: transport,
		},
	}
}

func (a *API) authURL() string {
	return baseURL(a.cfg.AuthHost) + "/oauth/token"
}

func (a *API) apiURL(path string) string {
	return baseURL(a.cfg.APIHost) + path
}

// baseURL assumes HTTPS unless the host already carries a scheme
func baseURL(host string) string {
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}

// apiHeaders builds the header set required on every authenticated
// yard-management call. The location qualifier is derived from the org.
func apiHeaders(token, org string) map[string]string {
	return map[string]string{
		"Authorization":        "Bearer " + token,
		"Content-Type":         "application/json",
		"selectedOrganization": org,
		"selectedLocation":     org + "-DM1",
	}
}

func sendRequest(client *http.Client, method, url string, queryParams url.Values, headers map[string]string, body io.Reader) (*http.Response, error) {
	// Create a new request
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}

	// Set query parameters if provided
	if queryParams != nil {
		req.URL.RawQuery = queryParams.Encode()
	}

	// Set headers if provided
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	// Initiate request
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	// Initialize re-used variables
	var respBody []byte
	var err error

	// Read the body and set up a defer to close the body to avoid
	// leaking resources.
	defer resp.Body.Close()

	// Check for gzipped "Content-Encoding" header
	if resp.Header.Get("Content-Encoding") == "gzip" {
		// Decompress response body
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("error creating gzip reader: %s", err)
		}
		defer gzipReader.Close()

		// Read decompressed content
		respBody, err = io.ReadAll(gzipReader)
		if err != nil {
			return nil, fmt.Errorf("error reading decompressed data: %s", err)
		}
	} else {
		// Assume decompressed data
		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %s", err)
		}
	}
	return respBody, nil
}

func truncateBody(body []byte, limit int) []byte {
	if len(body) > limit {
		return body[:limit]
	}
	return body
}

// Package client provides a Go client for the stashd API and the
// optimistic reorder reconciler used by interactive frontends.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APITokenHeader carries the long-lived API access token
const APITokenHeader = "X-API-TOKEN"

// APIError is the error half of the response envelope
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Client talks to a stashd server using an API access token
type Client struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client
}

// New creates a client for the given server and API token
func New(baseURL, apiToken string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIToken:   apiToken,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Item mirrors the server's item representation
type Item struct {
	ID          uint   `json:"id"`
	GroupID     uint   `json:"group_id"`
	Kind        string `json:"kind"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Archived    bool   `json:"archived"`
	Position    int    `json:"position"`
}

// ItemBuckets mirrors the server's two-bucket listing
type ItemBuckets struct {
	Active   []Item `json:"active"`
	Archived []Item `json:"archived"`
}

// Group mirrors the server's group representation
type Group struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Archived    bool   `json:"archived"`
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APITokenHeader, c.APIToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error *APIError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if out != nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}

// ListGroups returns the caller's non-archived groups
func (c *Client) ListGroups() ([]Group, error) {
	var groups []Group
	if err := c.do(http.MethodGet, "/api/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListItems returns the active and archived buckets of a group
func (c *Client) ListItems(groupID uint) (*ItemBuckets, error) {
	var buckets ItemBuckets
	path := fmt.Sprintf("/api/groups/%d/items", groupID)
	if err := c.do(http.MethodGet, path, nil, &buckets); err != nil {
		return nil, err
	}
	return &buckets, nil
}

// CreateItem appends an item to a group's active bucket
func (c *Client) CreateItem(groupID uint, kind, value, description string) (*Item, error) {
	var item Item
	path := fmt.Sprintf("/api/groups/%d/items", groupID)
	body := map[string]string{
		"kind":        kind,
		"value":       value,
		"description": description,
	}
	if err := c.do(http.MethodPost, path, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Reorder commits an ordered id sequence and returns the ids the server
// actually updated
func (c *Client) Reorder(groupID uint, orderedIDs []uint) ([]uint, error) {
	var updated []uint
	path := fmt.Sprintf("/api/groups/%d/items/reorder", groupID)
	body := map[string][]uint{"ordered_ids": orderedIDs}
	if err := c.do(http.MethodPost, path, body, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

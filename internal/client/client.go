package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"todo-planner/internal/model"
	"todo-planner/internal/service"
)

// Client talks to the todo REST backend. Add and update parameters
// travel as query parameters, matching the server contract.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// AddParams carries the fields of a create call.
type AddParams struct {
	Name           string
	Category       string
	TaskDate       string
	Priority       int
	RepeatType     string
	RepeatDuration int
	LongTerm       bool
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, result any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend error: %s", resp.Status)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// GetGrouped fetches every task keyed by date.
func (c *Client) GetGrouped(ctx context.Context) (map[string][]model.Task, error) {
	var grouped service.GroupedTasks
	if err := c.doRequest(ctx, http.MethodGet, "/todo/allbydate", nil, &grouped); err != nil {
		return nil, err
	}
	if grouped.ItemsByDate == nil {
		return nil, fmt.Errorf("malformed response: missing itemsByDate")
	}
	return grouped.ItemsByDate, nil
}

// Add creates a task and returns the server-assigned object.
func (c *Client) Add(ctx context.Context, params AddParams) (*model.Task, error) {
	query := url.Values{}
	query.Set("name", params.Name)
	query.Set("category", params.Category)
	query.Set("taskDate", params.TaskDate)
	query.Set("priority", strconv.Itoa(params.Priority))
	if params.RepeatType != "" {
		query.Set("repeatType", params.RepeatType)
		query.Set("repeatDuration", strconv.Itoa(params.RepeatDuration))
	}
	if params.LongTerm {
		query.Set("longTerm", "true")
	}

	var result service.OperationResult
	if err := c.doRequest(ctx, http.MethodPost, "/todo/add", query, &result); err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, fmt.Errorf("add task: %s", result.Status)
	}
	return result.Item, nil
}

// UpdateField patches a single field and returns the saved task.
func (c *Client) UpdateField(ctx context.Context, id int64, field, value string) (*model.Task, error) {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(id, 10))
	query.Set("field", field)
	query.Set("value", value)

	var result service.OperationResult
	if err := c.doRequest(ctx, http.MethodPost, "/todo/update", query, &result); err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, fmt.Errorf("update task %d: %s", id, result.Status)
	}
	return result.Item, nil
}

// Delete removes a task and reports whether it had been complete.
func (c *Client) Delete(ctx context.Context, id int64) (bool, error) {
	var wasComplete bool
	path := fmt.Sprintf("/todo/delete/%d", id)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, &wasComplete); err != nil {
		return false, err
	}
	return wasComplete, nil
}

// GetScratchpad fetches the notes blob.
func (c *Client) GetScratchpad(ctx context.Context) (*model.Scratchpad, error) {
	var pad model.Scratchpad
	if err := c.doRequest(ctx, http.MethodGet, "/todo/scratchpad", nil, &pad); err != nil {
		return nil, err
	}
	return &pad, nil
}

// SaveScratchpad stores the notes blob.
func (c *Client) SaveScratchpad(ctx context.Context, content string) (*model.Scratchpad, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/todo/scratchpad", strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend error: %s", resp.Status)
	}

	var pad model.Scratchpad
	if err := json.NewDecoder(resp.Body).Decode(&pad); err != nil {
		return nil, err
	}
	return &pad, nil
}

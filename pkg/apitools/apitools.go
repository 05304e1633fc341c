package apitools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alif/naia/pkg/toolexecutor"
)

// Supported tool names. The tool surface is this explicit set; nothing
// else registers HTTP access.
const (
	ToolHTTPGet  = "http_get"
	ToolHTTPPost = "http_post"
)

// RegisterAPITools registers the GET and POST tools on the executor.
func RegisterAPITools(executor *toolexecutor.ToolExecutor, client *Client) error {
	if executor == nil {
		return errors.New("tool executor is required")
	}
	if client == nil {
		return errors.New("api client is required")
	}

	tools := []toolexecutor.ToolDefinition{
		getTool(client),
		postTool(client),
	}

	for _, tool := range tools {
		if err := executor.RegisterTool(tool); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", tool.Name, err)
		}
	}
	return nil
}

func getTool(client *Client) toolexecutor.ToolDefinition {
	return toolexecutor.ToolDefinition{
		Name:        ToolHTTPGet,
		Description: "Make an HTTP GET request to a URL and return the response data.",
		Parameters: []toolexecutor.ToolParameter{
			{Name: "url", Type: "string", Description: "Absolute URL to fetch", Required: true},
			{Name: "headers", Type: "object", Description: "Optional HTTP headers as name/value pairs", Required: false},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			url, err := urlParam(params)
			if err != nil {
				return nil, err
			}
			return client.Get(ctx, url, headerParam(params)), nil
		},
	}
}

func postTool(client *Client) toolexecutor.ToolDefinition {
	return toolexecutor.ToolDefinition{
		Name:        ToolHTTPPost,
		Description: "Make an HTTP POST request with a JSON body and return the response data.",
		Parameters: []toolexecutor.ToolParameter{
			{Name: "url", Type: "string", Description: "Absolute URL to post to", Required: true},
			{Name: "data", Type: "object", Description: "JSON payload to send as the request body", Required: true},
			{Name: "headers", Type: "object", Description: "Optional HTTP headers as name/value pairs", Required: false},
		},
		Handler: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			url, err := urlParam(params)
			if err != nil {
				return nil, err
			}
			return client.Post(ctx, url, params["data"], headerParam(params)), nil
		},
	}
}

func urlParam(params map[string]interface{}) (string, error) {
	url, _ := params["url"].(string)
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("url is required")
	}
	return url, nil
}

func headerParam(params map[string]interface{}) map[string]string {
	raw, ok := params["headers"].(map[string]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}

	headers := make(map[string]string, len(raw))
	for name, value := range raw {
		headers[name] = fmt.Sprintf("%v", value)
	}
	return headers
}

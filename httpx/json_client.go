package httpx

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONClient layers JSON marshal/unmarshal and status-code error handling
// over Client.
type JSONClient struct {
	Client *Client
}

func NewJSONClient(optionalBaseURL ...string) (*JSONClient, error) {
	c, err := NewClient(optionalBaseURL...)
	if err != nil {
		return nil, err
	}
	return &JSONClient{Client: c}, nil
}

func (j *JSONClient) Do(ctx context.Context, method, path string, reqObj, respObj any, headers map[string]string) error {
	if headers == nil {
		headers = make(map[string]string)
	}
	headers[ContentTypeHeader] = ContentTypeJSON

	var reqBytes []byte
	var err error
	if reqObj != nil {
		reqBytes, err = json.Marshal(reqObj)
		if err != nil {
			return err
		}
	}

	respBytes, status, err := j.Client.Do(ctx, method, path, headers, reqBytes)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("status code: %d, body: %s", status, string(respBytes))
	}
	if respObj != nil && len(respBytes) > 0 {
		return json.Unmarshal(respBytes, respObj)
	}
	return nil
}

func (j *JSONClient) Get(ctx context.Context, path string, respObj any, headers map[string]string) error {
	return j.Do(ctx, MethodGet, path, nil, respObj, headers)
}

func (j *JSONClient) Post(ctx context.Context, path string, reqObj, respObj any, headers map[string]string) error {
	return j.Do(ctx, MethodPost, path, reqObj, respObj, headers)
}

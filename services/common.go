package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
)

// HttpRequest sends one request and returns the status code and the full body.
// A nil client falls back to http.DefaultClient.
func HttpRequest(ctx context.Context, client *http.Client, method, url string, header map[string]string, data interface{}) (int, []byte, error) {

	var requestBody []byte
	var err error
	var req *http.Request

	// serialize the payload
	if data != nil {
		if requestBody, err = json.Marshal(data); err != nil {
			return 0, nil, err
		}
		if req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(requestBody)); err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		if req, err = http.NewRequestWithContext(ctx, method, url, nil); err != nil {
			return 0, nil, err
		}
	}

	if client == nil {
		client = http.DefaultClient
	}

	if header != nil {
		for key, element := range header {
			req.Header.Set(key, element)
		}
	}
	if resp, err := client.Do(req); err != nil {
		return 0, nil, err
	} else {

		// read the body
		defer resp.Body.Close()
		if body, err := ioutil.ReadAll(resp.Body); err != nil {
			return resp.StatusCode, nil, err
		} else {
			return resp.StatusCode, body, nil
		}
	}
}

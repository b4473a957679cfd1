package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type askRequest struct {
	Prompt string `json:"prompt"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask forwards prompt to POST /gemini/ask and returns the generated answer.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: empty prompt", ErrInvalidArgument)
	}

	resp, err := c.do(ctx, http.MethodPost, "/gemini/ask", nil, askRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !resp.ok() {
		return "", mapStatus(resp.status, errorMessage(resp.body))
	}

	var out askResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return "", fmt.Errorf("%w: ask: %v", ErrInvalidResponse, err)
	}
	if strings.TrimSpace(out.Answer) == "" {
		return "", fmt.Errorf("%w: empty answer", ErrInvalidResponse)
	}
	return out.Answer, nil
}

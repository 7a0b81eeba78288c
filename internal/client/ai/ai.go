// Package ai is the resource client for the backend's assistant surface.
//
// Chat follows the soft contract end to end: the assistant panel must
// always produce a reply, so every failure degrades to a simulated echo
// instead of an error. This is the one client whose fallback is content
// rather than an empty collection, since chat has no meaningful empty
// state.
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/arena/internal/transport"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

const sendPath = "/ai/message"

const resourceChat = "ai_chat"

// Reply is the normalized outcome of a chat exchange. Success is false when
// the text came from the local fallback rather than the backend.
type Reply struct {
	Success bool
	Reply   string
}

// Client exposes the AI chat operation.
type Client struct {
	api *transport.Client
	log logger.Logger
}

// New creates an AI client on top of the shared transport.
func New(api *transport.Client) *Client {
	return &Client{
		api: api,
		log: logger.Named("ai"),
	}
}

// sendRequest is the chat request body. Context carries optional grounding
// data (current tournament, standings) and stays absent when nil.
type sendRequest struct {
	Message string `json:"message"`
	Context any    `json:"context,omitempty"`
}

// SendMessage forwards a prompt and normalizes whichever reply shape comes
// back.
func (c *Client) SendMessage(ctx context.Context, message string) Reply {
	return c.send(ctx, sendRequest{Message: message})
}

// SendMessageWithContext is SendMessage with extra grounding data attached.
func (c *Client) SendMessageWithContext(ctx context.Context, message string, extra any) Reply {
	return c.send(ctx, sendRequest{Message: message, Context: extra})
}

func (c *Client) send(ctx context.Context, req sendRequest) Reply {
	payload, err := c.api.Post(ctx, sendPath, req)
	if err != nil {
		c.log.Warn(ctx, "chat request failed; using simulated reply", logger.Error(err))
		return c.simulated(req.Message)
	}

	if text, ok := normalize(payload); ok {
		return Reply{Success: true, Reply: text}
	}

	metrics.RecordShapeMismatch(resourceChat)
	c.log.Warn(ctx, "unexpected chat reply shape; using simulated reply")
	return c.simulated(req.Message)
}

// normalize matches the closed set of known reply shapes: {reply},
// {data: {reply}} and a bare JSON string.
func normalize(payload []byte) (string, bool) {
	var body struct {
		Reply string `json:"reply"`
		Data  *struct {
			Reply string `json:"reply"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Reply != "" {
			return body.Reply, true
		}
		if body.Data != nil && body.Data.Reply != "" {
			return body.Data.Reply, true
		}
	}

	var bare string
	if err := json.Unmarshal(payload, &bare); err == nil && bare != "" {
		return bare, true
	}
	return "", false
}

func (c *Client) simulated(message string) Reply {
	metrics.RecordFallback(resourceChat)
	return Reply{
		Success: false,
		Reply:   fmt.Sprintf("Simulated reply: I received %q", message),
	}
}

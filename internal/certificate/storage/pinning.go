package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/ipfs/go-cid"

	"academix/internal/certificate/models"
	"academix/internal/platform/config"
	dErrors "academix/pkg/domain-errors"
)

const (
	pinFilePath = "/pinning/pinFileToIPFS"
	pinJSONPath = "/pinning/pinJSONToIPFS"
)

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinMetadata struct {
	Name      string            `json:"name"`
	KeyValues map[string]string `json:"keyvalues,omitempty"`
}

type pinJSONRequest struct {
	Content  any         `json:"pinataContent"`
	Metadata pinMetadata `json:"pinataMetadata"`
}

// PinningGateway talks to a Pinata-compatible IPFS pinning API.
type PinningGateway struct {
	client     *resty.Client
	token      string
	gatewayURL string
	logger     *slog.Logger
}

type Option func(*PinningGateway)

func WithLogger(logger *slog.Logger) Option {
	return func(g *PinningGateway) {
		g.logger = logger
	}
}

// WithHTTPClient replaces the resty client, mostly for tests.
func WithHTTPClient(client *resty.Client) Option {
	return func(g *PinningGateway) {
		g.client = client
	}
}

func NewPinningGateway(cfg config.Storage, opts ...Option) *PinningGateway {
	g := &PinningGateway{
		client: resty.New().
			SetBaseURL(strings.TrimSuffix(cfg.APIURL, "/")).
			SetTimeout(cfg.Timeout).
			SetRetryCount(0),
		token:      cfg.APIToken,
		gatewayURL: strings.TrimSuffix(cfg.GatewayURL, "/"),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *PinningGateway) PutBlob(ctx context.Context, data []byte, name string) (string, error) {
	if g.token == "" {
		return "", dErrors.New(dErrors.CodeUnavailable, "content storage not configured")
	}

	var out pinResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(g.token).
		SetFileReader("file", name, bytes.NewReader(data)).
		SetMultipartFormData(map[string]string{
			"pinataMetadata": fmt.Sprintf(`{"name":%q}`, name),
		}).
		SetResult(&out).
		ForceContentType("application/json").
		Post(pinFilePath)
	return g.pinResult(ctx, "put_blob", name, resp, err, out)
}

func (g *PinningGateway) PutJSON(ctx context.Context, doc any, name string) (string, error) {
	if g.token == "" {
		return "", dErrors.New(dErrors.CodeUnavailable, "content storage not configured")
	}

	var out pinResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(g.token).
		SetBody(pinJSONRequest{Content: doc, Metadata: pinMetadata{Name: name}}).
		SetResult(&out).
		ForceContentType("application/json").
		Post(pinJSONPath)
	return g.pinResult(ctx, "put_json", name, resp, err, out)
}

func (g *PinningGateway) pinResult(ctx context.Context, op, name string, resp *resty.Response, err error, out pinResponse) (string, error) {
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "content storage request failed")
	}
	if resp.IsError() {
		g.logger.WarnContext(ctx, "content storage rejected upload",
			"op", op,
			"name", name,
			"status", resp.StatusCode(),
		)
		return "", dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("content storage returned %d", resp.StatusCode()))
	}

	parsed, err := cid.Decode(out.IpfsHash)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "content storage returned an invalid content identifier")
	}
	return parsed.String(), nil
}

// ResolveURL returns the gateway URL for a content identifier, or "" for an
// empty or placeholder identifier.
func (g *PinningGateway) ResolveURL(contentID string) string {
	if contentID == "" || models.IsPlaceholderCID(contentID) {
		return ""
	}
	return g.gatewayURL + "/ipfs/" + contentID
}

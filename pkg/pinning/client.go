// Package pinning uploads assets to a Pinata compatible IPFS pinning service.
package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/internal/metrics"
	"github.com/chainsafe/nft-minter/pkg/config"
	"github.com/chainsafe/nft-minter/pkg/mint"
)

const (
	pinFilePath     = "/pinning/pinFileToIPFS"
	headerAPIKey    = "pinata_api_key"
	headerSecretKey = "pinata_secret_api_key"
	maxErrorBody    = 4 << 10
)

// ErrAssetTooLarge is returned when an asset exceeds the configured limit.
var ErrAssetTooLarge = errors.New("asset exceeds maximum size")

// UploadError describes a failed upload. Status is zero for transport failures.
type UploadError struct {
	Status int
	Body   string
	Err    error
}

func (e *UploadError) Error() string {
	switch {
	case e.Status != 0 && e.Body != "":
		return fmt.Sprintf("pinning service returned status %d: %s", e.Status, e.Body)
	case e.Status != 0:
		return fmt.Sprintf("pinning service returned status %d", e.Status)
	case e.Err != nil:
		return "pinning request failed: " + e.Err.Error()
	default:
		return "pinning request failed"
	}
}

func (e *UploadError) Unwrap() error { return e.Err }

// StatusCode returns the upstream HTTP status.
func (e *UploadError) StatusCode() int { return e.Status }

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinMetadata struct {
	Name string `json:"name"`
}

// Client uploads assets with one request per call and no retry.
type Client struct {
	cfg        *config.PinningConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new pinning client
func NewClient(cfg *config.PinningConfig, opts ...Option) *Client {
	s := applyOptions(opts)
	httpClient := s.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     s.logger,
	}
}

// Upload pins asset and returns its content locator and gateway URL.
func (c *Client) Upload(ctx context.Context, asset *mint.Asset) (*mint.Upload, error) {
	if asset.Size() == 0 {
		return nil, &UploadError{Err: errors.New("empty asset")}
	}
	if c.cfg.MaxAssetBytes > 0 && int64(asset.Size()) > c.cfg.MaxAssetBytes {
		return nil, &UploadError{Err: fmt.Errorf("%w: %d > %d bytes", ErrAssetTooLarge, asset.Size(), c.cfg.MaxAssetBytes)}
	}

	body, contentType, err := encodeMultipart(asset)
	if err != nil {
		return nil, &UploadError{Err: err}
	}

	url := strings.TrimRight(c.cfg.APIURL, "/") + pinFilePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, &UploadError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	c.setCredentials(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return nil, &UploadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, &UploadError{Status: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
	}

	var pr pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return nil, &UploadError{Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	id, err := cid.Decode(pr.IpfsHash)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return nil, &UploadError{Status: resp.StatusCode, Err: fmt.Errorf("invalid content identifier %q: %w", pr.IpfsHash, err)}
	}

	metrics.UploadsTotal.WithLabelValues("success").Inc()
	metrics.UploadBytes.Observe(float64(asset.Size()))

	upload := &mint.Upload{
		Locator:    mint.ContentLocator("ipfs://" + pr.IpfsHash),
		GatewayURL: strings.TrimRight(c.cfg.GatewayURL, "/") + "/ipfs/" + pr.IpfsHash,
		CID:        pr.IpfsHash,
		Size:       pr.PinSize,
	}

	c.logger.Info("Asset pinned",
		zap.String("cid", pr.IpfsHash),
		zap.Uint64("cid_version", id.Version()),
		zap.Int64("pin_size", pr.PinSize),
		zap.String("gateway_url", upload.GatewayURL),
		zap.Duration("duration", time.Since(start)))

	return upload, nil
}

func (c *Client) setCredentials(req *http.Request) {
	if c.cfg.JWT != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.JWT)
		return
	}
	req.Header.Set(headerAPIKey, c.cfg.APIKey)
	req.Header.Set(headerSecretKey, c.cfg.SecretAPIKey)
}

func encodeMultipart(asset *mint.Asset) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := asset.Filename
	if filename == "" {
		filename = "asset"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	contentType := asset.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(asset.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}

	meta, err := json.Marshal(pinMetadata{Name: filename})
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("pinataMetadata", string(meta)); err != nil {
		return nil, "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

package upload

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

var (
	ErrUnauthorized = errors.New("imagehost: unauthorized")
	ErrRejected     = errors.New("imagehost: rejected")
)

// ImageHost uploads to a Cloudinary-compatible signed upload endpoint. A
// failed upload is reported once; callers resubmit.
type ImageHost struct {
	base   string
	cloud  string
	key    string
	secret string
	folder string
	hc     *http.Client
	rl     *rate.Limiter
	now    func() time.Time
}

type ImageHostConfig struct {
	Base      string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	RPS       int
}

func NewImageHost(c ImageHostConfig) (*ImageHost, error) {
	if c.APIKey == "" || c.APISecret == "" || c.CloudName == "" {
		return nil, fmt.Errorf("image host credentials are required")
	}
	if c.RPS <= 0 {
		c.RPS = 5
	}
	return &ImageHost{
		base:   strings.TrimRight(c.Base, "/"),
		cloud:  c.CloudName,
		key:    c.APIKey,
		secret: c.APISecret,
		folder: c.Folder,
		hc:     &http.Client{Timeout: 30 * time.Second},
		rl:     rate.NewLimiter(rate.Limit(c.RPS), c.RPS),
		now:    time.Now,
	}, nil
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Upload streams img as multipart form data and returns the stored public id.
func (c *ImageHost) Upload(ctx context.Context, img domain.ImageFile) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	params := map[string]string{"timestamp": strconv.FormatInt(c.now().Unix(), 10)}
	if c.folder != "" {
		params["folder"] = c.folder
	}
	sig := sign(params, c.secret)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, params, c.key, sig, img))
	}()

	url := fmt.Sprintf("%s/%s/image/upload", c.base, c.cloud)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		pr.Close()
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-booking/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("imagehost", "upload", 0, time.Since(start))
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("imagehost", "upload", resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var out uploadResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("imagehost decode: %w", err)
		}
		if out.PublicID == "" {
			return "", fmt.Errorf("%w: empty public id", ErrRejected)
		}
		return out.PublicID, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var out uploadResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&out)
		if out.Error != nil {
			return "", fmt.Errorf("%w: %s", ErrRejected, out.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

func writeForm(mw *multipart.Writer, params map[string]string, key, sig string, img domain.ImageFile) error {
	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := mw.WriteField("api_key", key); err != nil {
		return err
	}
	if err := mw.WriteField("signature", sig); err != nil {
		return err
	}
	name := img.Name
	if name == "" {
		name = "upload"
	}
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, img.Body); err != nil {
		return err
	}
	return mw.Close()
}

// sign is the host's request signature: sha1 over the sorted
// "k=v&k=v" parameter string followed by the secret.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}

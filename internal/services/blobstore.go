package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// styleFolder groups every uploaded style image under one remote folder.
const styleFolder = "styles"

// BlobStore persists style images and hands back a public URL. Records are
// only written after the upload confirms.
type BlobStore interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
	Destroy(ctx context.Context, publicID string) error
}

// CloudinaryStore uploads images to the Cloudinary HTTP API.
type CloudinaryStore struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client
}

// NewCloudinaryStore creates a new CloudinaryStore.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) *CloudinaryStore {
	return &CloudinaryStore{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload streams the file to Cloudinary and returns its secure URL.
func (s *CloudinaryStore) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	publicID := strings.TrimSuffix(filename, path.Ext(filename))
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := s.sign(map[string]string{
		"folder":    styleFolder,
		"public_id": publicID,
		"timestamp": timestamp,
	})

	var body strings.Builder
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"folder":    styleFolder,
		"public_id": publicID,
		"timestamp": timestamp,
		"api_key":   s.apiKey,
		"signature": signature,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return "", err
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", s.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Cloudinary] Upload failed: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK || result.SecureURL == "" {
		log.Printf("[Cloudinary] Upload rejected: status %d: %s", resp.StatusCode, result.Error.Message)
		return "", fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}

// Destroy removes an uploaded image by its public ID.
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := s.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	})

	form := fmt.Sprintf("public_id=%s&timestamp=%s&api_key=%s&signature=%s",
		publicID, timestamp, s.apiKey, signature)

	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/destroy", s.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(form))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Cloudinary] Destroy failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Cloudinary] Destroy rejected: status %d", resp.StatusCode)
		return fmt.Errorf("cloudinary destroy returned status %d", resp.StatusCode)
	}

	return nil
}

// sign produces the Cloudinary request signature: the SHA-1 of the sorted
// parameter string concatenated with the API secret.
func (s *CloudinaryStore) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}

// PublicIDFromURL derives the remote public ID from a stored image URL so
// deletes can release the blob.
func PublicIDFromURL(imageURL string) string {
	base := path.Base(imageURL)
	name := strings.TrimSuffix(base, path.Ext(base))
	return styleFolder + "/" + name
}

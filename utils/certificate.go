package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// CertificateDocument is what the external generator needs to render a certificate.
type CertificateDocument struct {
	Number      string    `json:"certificateNumber"`
	StudentName string    `json:"studentName"`
	CourseTitle string    `json:"courseTitle"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// CertificateClient talks to the certificate rendering service.
type CertificateClient struct {
	client *resty.Client
}

// Certificates is nil unless CERTIFICATE_SERVICE_URL is configured.
var Certificates *CertificateClient

func NewCertificateClient(baseURL string) *CertificateClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &CertificateClient{client: client}
}

// Generate renders doc and returns the URL of the produced file.
func (c *CertificateClient) Generate(ctx context.Context, doc CertificateDocument) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(doc).
		SetResult(&out).
		Post("/certificates")
	if err != nil {
		return "", fmt.Errorf("calling certificate service: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("certificate service returned %d: %s", resp.StatusCode(), resp.String())
	}
	if out.URL == "" {
		return "", fmt.Errorf("certificate service returned no url")
	}
	return out.URL, nil
}

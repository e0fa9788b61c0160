package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mento-services/marketplace-api/internal/config"
)

// MSG91Provider drives the MSG91 OTP API.
type MSG91Provider struct {
	httpClient *http.Client
	baseURL    string
	authKey    string
	templateID string
	otpLength  int
	otpExpiry  int // minutes
}

// NewMSG91Provider builds the provider from SMS configuration.
func NewMSG91Provider(cfg config.SMSConfig) *MSG91Provider {
	return &MSG91Provider{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL:    cfg.BaseURL,
		authKey:    cfg.AuthKey,
		templateID: cfg.TemplateID,
		otpLength:  cfg.OtpLength,
		otpExpiry:  cfg.OtpTTLMinutes,
	}
}

type msg91Response struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (p *MSG91Provider) SendOtp(ctx context.Context, mobile string) error {
	params := url.Values{}
	params.Set("template_id", p.templateID)
	params.Set("mobile", "91"+mobile)
	params.Set("otp_length", fmt.Sprintf("%d", p.otpLength))
	params.Set("otp_expiry", fmt.Sprintf("%d", p.otpExpiry))
	return p.call(ctx, "/api/v5/otp", params)
}

func (p *MSG91Provider) ResendOtp(ctx context.Context, mobile string) error {
	params := url.Values{}
	params.Set("mobile", "91"+mobile)
	params.Set("retrytype", "text")
	return p.call(ctx, "/api/v5/otp/retry", params)
}

func (p *MSG91Provider) VerifyOtp(ctx context.Context, mobile, code string) error {
	params := url.Values{}
	params.Set("mobile", "91"+mobile)
	params.Set("otp", code)
	return p.call(ctx, "/api/v5/otp/verify", params)
}

func (p *MSG91Provider) call(ctx context.Context, path string, params url.Values) error {
	endpoint := p.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("authkey", p.authKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var decoded msg91Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return err
	}
	if decoded.Type != "success" {
		return fmt.Errorf("sms provider: %s", decoded.Message)
	}
	return nil
}

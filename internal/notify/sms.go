package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SMSSender sends one text message.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// GatewaySMSSender posts messages to an HTTP SMS gateway.
type GatewaySMSSender struct {
	url    string
	apiKey string
	sender string
	client *http.Client
	logger *zap.Logger
}

type GatewayConfig struct {
	URL    string
	APIKey string
	Sender string
}

func NewGatewaySMSSender(cfg GatewayConfig, logger *zap.Logger) *GatewaySMSSender {
	return &GatewaySMSSender{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type gatewayResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (s *GatewaySMSSender) SendSMS(ctx context.Context, phone, message string) error {
	payload := map[string]string{
		"sender":  s.sender,
		"phone":   phone,
		"message": message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read sms response: %w", err)
	}

	var gw gatewayResponse
	if err := json.Unmarshal(respBody, &gw); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}

	if gw.Code != "" && gw.Code != "000" {
		return fmt.Errorf("sms gateway error: %s", gw.Detail)
	}

	s.logger.Info("sms sent", zap.String("phone", phone))
	return nil
}

// LogSMSSender logs instead of sending; used in development and tests.
type LogSMSSender struct {
	logger *zap.Logger
}

func NewLogSMSSender(logger *zap.Logger) *LogSMSSender {
	return &LogSMSSender{logger: logger}
}

func (s *LogSMSSender) SendSMS(ctx context.Context, phone, message string) error {
	s.logger.Info("sms suppressed (no sender configured)", zap.String("phone", phone))
	return nil
}

package alerting

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"farewatch/internal/fare"
)

// Alert 封装一次低价告警的上下文。
type Alert struct {
	Origin      string
	Destination string
	DealPrice   int64
	Record      fare.CycleRecord
}

// Notifier 定义告警输送接口。
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// TwilioNotifier 通过 Twilio Messages API 推送短信。
type TwilioNotifier struct {
	accountSID string
	authToken  string
	from       string
	to         string
	baseURL    string
	client     *http.Client
	logger     zerolog.Logger
}

// NewTwilioNotifier 构造 Twilio 短信告警器。
func NewTwilioNotifier(accountSID, authToken, from, to, baseURL string, timeout time.Duration, logger zerolog.Logger) *TwilioNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}

	return &TwilioNotifier{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "alert_twilio").Logger(),
	}
}

// Notify 调用 Messages API 推送文本。
func (n *TwilioNotifier) Notify(ctx context.Context, alert Alert) error {
	form := url.Values{}
	form.Set("From", n.from)
	form.Set("To", n.to)
	form.Set("Body", renderMessage(alert))

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.baseURL, n.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(n.accountSID, n.authToken)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twilio 响应码异常: %d", resp.StatusCode)
	}

	n.logger.Info().
		Str("timestamp", alert.Record.Timestamp).
		Str("route", alert.Origin+"-"+alert.Destination).
		Int64("outbound", alert.Record.OutboundLowest).
		Int64("return", alert.Record.ReturnLowest).
		Msg("告警已发送 (Twilio SMS)")
	return nil
}

func renderMessage(alert Alert) string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("Deal alert! %s -> %s\n", alert.Origin, alert.Destination))
	builder.WriteString(fmt.Sprintf("Outbound lowest: $%d\n", alert.Record.OutboundLowest))
	builder.WriteString(fmt.Sprintf("Return lowest: $%d\n", alert.Record.ReturnLowest))
	builder.WriteString(fmt.Sprintf("Deal price: $%d\n", alert.DealPrice))
	builder.WriteString(fmt.Sprintf("As of %s", alert.Record.Timestamp))
	return builder.String()
}

var _ Notifier = (*TwilioNotifier)(nil)

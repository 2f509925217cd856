package larknotify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"
)

// Config holds the Lark app credentials and the operations chat that
// receives bounce alerts
type Config struct {
	AppID     string
	AppSecret string
	ChatID    string
}

// Notifier implements port.BounceNotifier by posting a text message to the
// back-office operations chat
type Notifier struct {
	client *lark.Client
	chatID string
	logger *zap.Logger
}

// NewNotifier creates a new bounce notifier
func NewNotifier(cfg Config, logger *zap.Logger) *Notifier {
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)

	return &Notifier{
		client: client,
		chatID: cfg.ChatID,
		logger: logger,
	}
}

// NotifyBounce sends a bounce alert for the cheque. Delivery failures are
// returned to the caller, who treats them as best-effort.
func (n *Notifier) NotifyBounce(ctx context.Context, cheque *entity.Cheque) error {
	text := fmt.Sprintf(
		"Cheque bounced: #%s (%s, %.2f) from tenant %d. Reason: %s. Register a replacement cheque.",
		cheque.ChequeNumber, cheque.BankName, cheque.Amount, cheque.TenantID, cheque.BounceReason,
	)

	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("failed to marshal message content: %w", err)
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("chat_id").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(n.chatID).
			MsgType("text").
			Content(string(content)).
			Build()).
		Build()

	resp, err := n.client.Im.Message.Create(ctx, req)
	if err != nil {
		n.logger.Error("Failed to send bounce alert",
			zap.Int64("cheque_id", cheque.ID),
			zap.Error(err))
		return fmt.Errorf("failed to send bounce alert: %w", err)
	}

	if !resp.Success() {
		n.logger.Error("Bounce alert rejected",
			zap.Int64("cheque_id", cheque.ID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return fmt.Errorf("bounce alert rejected: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	n.logger.Info("Bounce alert sent",
		zap.Int64("cheque_id", cheque.ID),
		zap.String("cheque_number", cheque.ChequeNumber))
	return nil
}

// Verify interface compliance
var _ port.BounceNotifier = (*Notifier)(nil)

package telegram

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	tele "gopkg.in/telebot.v4"
)

type ChatNotifier struct {
	chatID int64
	sender Sender
}

func NewChatNotifier(chatID int64, sender Sender) *ChatNotifier {
	return &ChatNotifier{chatID: chatID, sender: sender}
}

func (n *ChatNotifier) Notify(ctx context.Context, notification model.Notification) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	_, err := n.sender.Send(tele.ChatID(n.chatID), telebotConverter.NotificationText(notification))
	if err != nil {
		slog.Error("can't send notification", slog.String("rqID", rqID), slog.Int64("chatID", n.chatID), slog.String("err", err.Error()))
	}
}

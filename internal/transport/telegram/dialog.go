package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Dialogs routes incoming chat text to the dialog waiting for it. A chat has at most one open dialog.
type Dialogs struct {
	timeout time.Duration

	mu      sync.Mutex
	waiters map[int64]chan string
}

func NewDialogs(timeout time.Duration) *Dialogs {
	return &Dialogs{
		timeout: timeout,
		waiters: make(map[int64]chan string),
	}
}

// Ask blocks until the chat answers. ok is false when the dialog was cancelled, replaced or timed out.
func (d *Dialogs) Ask(ctx context.Context, chatID int64) (answer string, ok bool, err error) {
	ch := make(chan string, 1)

	d.mu.Lock()
	if previous, exists := d.waiters[chatID]; exists {
		close(previous)
	}
	d.waiters[chatID] = ch
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		if d.waiters[chatID] == ch {
			delete(d.waiters, chatID)
		}
		d.mu.Unlock()
	}()

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case answer, ok = <-ch:
		return answer, ok, nil
	case <-timer.C:
		return "", false, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// Deliver hands text to the dialog of chatID and reports whether one was waiting.
func (d *Dialogs) Deliver(chatID int64, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, ok := d.waiters[chatID]
	if !ok {
		return false
	}
	delete(d.waiters, chatID)
	ch <- text
	return true
}

func (d *Dialogs) Cancel(chatID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, ok := d.waiters[chatID]
	if !ok {
		return false
	}
	delete(d.waiters, chatID)
	close(ch)
	return true
}

// ChatDialog asks the questions of the dashboard in a Telegram chat.
type ChatDialog struct {
	chatID  int64
	sender  Sender
	dialogs *Dialogs
}

func NewChatDialog(chatID int64, sender Sender, dialogs *Dialogs) *ChatDialog {
	return &ChatDialog{chatID: chatID, sender: sender, dialogs: dialogs}
}

var errPromptFailed = errors.New("can't send prompt")

func (d *ChatDialog) ask(ctx context.Context, prompt string) (string, bool, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	_, err := d.sender.Send(tele.ChatID(d.chatID), prompt)
	if err != nil {
		slog.Error("can't send prompt", slog.String("rqID", rqID), slog.Int64("chatID", d.chatID), slog.String("err", err.Error()))
		return "", false, errPromptFailed
	}

	answer, ok, err := d.dialogs.Ask(ctx, d.chatID)
	return strings.TrimSpace(answer), ok, err
}

func (d *ChatDialog) AskPortfolioName(ctx context.Context) (string, bool, error) {
	return d.ask(ctx, "Enter portfolio name (/cancel to abort):")
}

func (d *ChatDialog) AskTransaction(ctx context.Context, prefill model.DraftPrefill) (model.DraftInput, bool, error) {
	_, err := d.sender.Send(tele.ChatID(d.chatID), telebotConverter.TransactionPrompt(prefill))
	if err != nil {
		return model.DraftInput{}, false, errPromptFailed
	}

	input := model.DraftInput{Symbol: prefill.Symbol}

	if prefill.Symbol == "" {
		symbol, ok, err := d.ask(ctx, "Enter symbol, e.g. BTC:")
		if !ok || err != nil {
			return model.DraftInput{}, false, err
		}
		input.Symbol = symbol
	}

	quantity, ok, err := d.ask(ctx, "Enter quantity:")
	if !ok || err != nil {
		return model.DraftInput{}, false, err
	}
	input.Quantity = parseDecimal(quantity)

	amount, ok, err := d.ask(ctx, "Enter total amount:")
	if !ok || err != nil {
		return model.DraftInput{}, false, err
	}
	input.Amount = parseDecimal(amount)

	return input, true, nil
}

// parseDecimal accepts both decimal separators. Unparsable input is zero and fails validation later.
func parseDecimal(text string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(text), ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return value
}

package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

// scriptedSender answers every prompt with the next scripted reply. An empty reply leaves the prompt unanswered.
type scriptedSender struct {
	mu      sync.Mutex
	chatID  int64
	dialogs *Dialogs
	replies []string
	sent    []string
	err     error
}

func (s *scriptedSender) Send(_ tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	text, _ := what.(string)
	s.sent = append(s.sent, text)

	if s.dialogs != nil && len(s.replies) > 0 {
		reply := s.replies[0]
		s.replies = s.replies[1:]
		if reply != "" {
			go deliverWhenWaiting(s.dialogs, s.chatID, reply)
		}
	}
	return &tele.Message{}, nil
}

func (s *scriptedSender) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func deliverWhenWaiting(dialogs *Dialogs, chatID int64, text string) {
	for range 200 {
		if dialogs.Deliver(chatID, text) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDialogsDeliver(t *testing.T) {
	dialogs := NewDialogs(time.Second)
	go deliverWhenWaiting(dialogs, 1, "hello")

	answer, ok, err := dialogs.Ask(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", answer)

	assert.False(t, dialogs.Deliver(1, "late"))
}

func TestDialogsCancel(t *testing.T) {
	dialogs := NewDialogs(time.Second)
	go func() {
		for range 200 {
			if dialogs.Cancel(1) {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	_, ok, err := dialogs.Ask(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, dialogs.Cancel(1))
}

func TestDialogsTimeout(t *testing.T) {
	dialogs := NewDialogs(20 * time.Millisecond)

	_, ok, err := dialogs.Ask(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, dialogs.Deliver(1, "too late"))
}

func TestDialogsContextCancelled(t *testing.T) {
	dialogs := NewDialogs(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := dialogs.Ask(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestDialogsChatsAreIndependent(t *testing.T) {
	dialogs := NewDialogs(time.Second)
	go deliverWhenWaiting(dialogs, 2, "two")

	answer, ok, err := dialogs.Ask(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", answer)
	assert.False(t, dialogs.Deliver(1, "one"))
}

func TestAskPortfolioName(t *testing.T) {
	dialogs := NewDialogs(time.Second)
	sender := &scriptedSender{chatID: 7, dialogs: dialogs, replies: []string{"  Main  "}}

	name, ok, err := NewChatDialog(7, sender, dialogs).AskPortfolioName(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Main", name)
	assert.Len(t, sender.messages(), 1)
}

func TestAskTransactionWithoutPrefill(t *testing.T) {
	dialogs := NewDialogs(time.Second)
	sender := &scriptedSender{chatID: 7, dialogs: dialogs, replies: []string{"", "btc", "0,5", "15000.25"}}

	input, ok, err := NewChatDialog(7, sender, dialogs).AskTransaction(context.Background(), model.DraftPrefill{Side: model.SideBuy})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "btc", input.Symbol)
	assert.True(t, decimal.RequireFromString("0.5").Equal(input.Quantity))
	assert.True(t, decimal.RequireFromString("15000.25").Equal(input.Amount))
	assert.Len(t, sender.messages(), 4)
}

func TestAskTransactionWithPrefillSkipsSymbol(t *testing.T) {
	dialogs := NewDialogs(time.Second)
	sender := &scriptedSender{chatID: 7, dialogs: dialogs, replies: []string{"", "abc", "10"}}

	input, ok, err := NewChatDialog(7, sender, dialogs).AskTransaction(
		context.Background(),
		model.DraftPrefill{Side: model.SideSell, Symbol: "ETH"},
	)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ETH", input.Symbol)
	assert.True(t, input.Quantity.IsZero())
	assert.True(t, decimal.NewFromInt(10).Equal(input.Amount))
	assert.Len(t, sender.messages(), 3)
}

func TestAskTransactionSendFailure(t *testing.T) {
	dialogs := NewDialogs(time.Second)
	sender := &scriptedSender{err: errors.New("blocked by user")}

	_, ok, err := NewChatDialog(7, sender, dialogs).AskTransaction(context.Background(), model.DraftPrefill{Side: model.SideBuy})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestChatNotifier(t *testing.T) {
	sender := &scriptedSender{}

	NewChatNotifier(7, sender).Notify(context.Background(), model.Notification{
		Title:    "Portfolio",
		Message:  "created",
		Severity: model.SeveritySuccess,
	})

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "created")
}

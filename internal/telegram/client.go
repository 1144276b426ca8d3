// Package telegram provides a client for sending run-summary notifications
// via the Telegram Bot API.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kungsholmen-og/kogstats/internal/models"
)

// Client handles Telegram notifications.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     3,
		retryDelayBase: time.Second,
	}, nil
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry.
func (c *Client) sendMarkdownV2(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if _, err := c.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", c.maxRetries, lastErr)
}

// SendError sends a pipeline error notification.
func (c *Client) SendError(runErr error) error {
	text := fmt.Sprintf("⚠️ *Stats build failed*\n`%s`", escapeMarkdownV2(runErr.Error()))
	return c.sendMarkdownV2(text)
}

// SendRunSummary sends a notification describing a completed run.
func (c *Client) SendRunSummary(teamName string, gamesProcessed, playersTracked int, latest *models.GameMetrics) error {
	return c.sendMarkdownV2(formatRunSummary(teamName, gamesProcessed, playersTracked, latest))
}

// formatRunSummary formats a run summary into a Telegram MarkdownV2 message.
func formatRunSummary(teamName string, gamesProcessed, playersTracked int, latest *models.GameMetrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏀 *%s stats updated*\n\n", escapeMarkdownV2(teamName))
	fmt.Fprintf(&b, "📊 Games processed: %d\n", gamesProcessed)
	fmt.Fprintf(&b, "👥 Players tracked: %d\n", playersTracked)

	if latest != nil {
		resultEmoji := "🤝"
		switch {
		case latest.PointDiff > 0:
			resultEmoji = "✅"
		case latest.PointDiff < 0:
			resultEmoji = "❌"
		}
		score := escapeMarkdownV2(fmt.Sprintf("%d-%d", latest.KogPoints, latest.OpponentPoints))
		fmt.Fprintf(&b, "%s Latest: %s vs %s\n",
			resultEmoji, score, escapeMarkdownV2(latest.Opponent))
	}

	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4) // pre-allocate with room for escapes
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

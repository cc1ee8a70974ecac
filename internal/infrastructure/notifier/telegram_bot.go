package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"flea_market/internal/domain/entity"
	"flea_market/pkg/contextx"
	"flea_market/pkg/httpx"
	"flea_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const httpClientTimeout = 30 * time.Second

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

// NewHTTPClient returns a client that logs Bot API calls with the token masked.
func NewHTTPClient(logFieldMaxLen int) *http.Client {
	return &http.Client{
		Timeout: httpClientTimeout,
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(logFieldMaxLen),
		),
	}
}

func NewTelegramBot(token string, chatID int64, opts ...telego.BotOption) (*TelegramBot, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run отправляет события барахолки из канала, пока он не закрыт.
func (b *TelegramBot) Run(ctx context.Context, events <-chan entity.MarketEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}

			if err := b.SendEvent(ctx, ev); err != nil {
				logger(ctx).Error(
					"failed to send market event",
					slog.String("kind", string(ev.Kind)),
					logx.Error(err),
				)
			}
		}
	}
}

func (b *TelegramBot) SendEvent(ctx context.Context, ev entity.MarketEvent) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		FormatEvent(ev),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

// FormatEvent renders an event as a Telegram HTML message.
func FormatEvent(ev entity.MarketEvent) string {
	var sb strings.Builder

	switch ev.Kind {
	case entity.MarketEventGenerated:
		sb.WriteString("📦 <b>Offers generated</b>\n\n")
		fmt.Fprintf(&sb, "✅ <b>Created:</b> %d\n", ev.Created)
		fmt.Fprintf(&sb, "⏭ <b>Skipped:</b> %d\n", ev.Skipped)
	case entity.MarketEventExpired:
		sb.WriteString("⌛ <b>Offers expired</b>\n\n")
		fmt.Fprintf(&sb, "🗑 <b>Removed:</b> %d\n", ev.Removed)
		fmt.Fprintf(&sb, "♻ <b>Regenerated:</b> %d\n", ev.Created)
	case entity.MarketEventTraderSynced:
		sb.WriteString("🏪 <b>Trader synced</b>\n\n")
		fmt.Fprintf(&sb, "🆔 <code>%s</code>\n", html.EscapeString(ev.TraderID))
		fmt.Fprintf(&sb, "🗑 <b>Removed:</b> %d\n", ev.Removed)
		fmt.Fprintf(&sb, "✅ <b>Created:</b> %d\n", ev.Created)
	case entity.MarketEventTraderSyncFailed:
		sb.WriteString("🔥 <b>Trader sync failed</b>\n\n")
		fmt.Fprintf(&sb, "🆔 <code>%s</code>\n", html.EscapeString(ev.TraderID))

		if ev.Err != nil {
			fmt.Fprintf(&sb, "❗ %s\n", html.EscapeString(ev.Err.Error()))
		}
	default:
		fmt.Fprintf(&sb, "ℹ <b>%s</b>\n", html.EscapeString(string(ev.Kind)))
	}

	if !ev.At.IsZero() {
		fmt.Fprintf(&sb, "\n🕒 %s", ev.At.UTC().Format(time.DateTime))
	}

	return sb.String()
}

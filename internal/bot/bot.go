// Package bot serves the Telegram command surface: /start, /status, /run
// and /burn, over long-polling updates.
package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
	"github.com/DUSTBOT313/DUST-BOT/internal/observability"
	"github.com/DUSTBOT313/DUST-BOT/internal/queue"
	"github.com/DUSTBOT313/DUST-BOT/internal/stats"
)

// sender is the slice of the Telegram API the bot uses, pulled out so tests
// can capture outgoing messages.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot translates Telegram commands into queued jobs and status replies.
type Bot struct {
	api        *tgbotapi.BotAPI
	send       sender
	queue      queue.Queue
	counters   *stats.Counters
	metrics    *observability.Metrics
	miniAppURL string
	logger     *log.Logger
}

// Options configures a Bot.
type Options struct {
	Token      string
	Queue      queue.Queue
	Counters   *stats.Counters
	Metrics    *observability.Metrics // optional
	MiniAppURL string                 // optional dashboard web-app URL for /start
	Logger     *log.Logger
}

// New authenticates against the Telegram API and returns a ready bot.
func New(opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(opts.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("telegram bot authorized as @%s", api.Self.UserName)
	return &Bot{
		api:        api,
		send:       api,
		queue:      opts.Queue,
		counters:   opts.Counters,
		metrics:    opts.Metrics,
		miniAppURL: opts.MiniAppURL,
		logger:     logger,
	}, nil
}

// Run consumes updates until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)

	switch msg.Command() {
	case "start":
		b.replyStart(msg.Chat.ID)
	case "status":
		b.replyStatus(msg.Chat.ID)
	case "run":
		b.enqueue(ctx, msg.Chat.ID, userID, domain.ActionRun, "Queued a sweep run.")
	case "burn":
		b.enqueue(ctx, msg.Chat.ID, userID, domain.ActionBurn, "Queued an account cleanup.")
	default:
		b.reply(msg.Chat.ID, "Commands: /status, /run, /burn")
	}
}

func (b *Bot) replyStart(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Welcome. Use /run to start a sweep or open the dashboard below.")
	if b.miniAppURL != "" {
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.KeyboardButton{
				Text:   "Open dashboard",
				WebApp: &tgbotapi.WebAppInfo{URL: b.miniAppURL},
			}),
		)
	}
	if _, err := b.send.Send(msg); err != nil {
		b.logger.Printf("telegram send failed: %v", err)
	}
}

func (b *Bot) replyStatus(chatID int64) {
	text := "No counters available."
	if b.counters != nil {
		text = fmt.Sprintf("Buys: %d, fees sent: %d lamports, runs: %d",
			b.counters.SuccessfulBuys(),
			b.counters.TotalFeeLamports(),
			b.counters.SweepRuns())
	}
	b.reply(chatID, text)
}

func (b *Bot) enqueue(ctx context.Context, chatID int64, userID string, action domain.JobAction, ack string) {
	if b.queue == nil {
		b.reply(chatID, "Job queue is not configured.")
		return
	}
	job := queue.NewJob(userID, action, nil)
	if err := b.queue.Enqueue(ctx, job); err != nil {
		b.logger.Printf("enqueue %s for %s failed: %v", action, userID, err)
		b.reply(chatID, "Could not queue the job, try again later.")
		return
	}
	if b.metrics != nil {
		b.metrics.JobsEnqueued.WithLabelValues(string(action)).Inc()
	}
	b.reply(chatID, ack)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.send.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Printf("telegram send failed: %v", err)
	}
}

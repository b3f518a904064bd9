package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

const greeting = "Hi! Send me a query and I will search the web for you."

// MessageHandler receives one inbound text message per call.
type MessageHandler func(ctx context.Context, chatID string, text string)

// Telegram is a Bot API client working through long-polling.
type Telegram struct {
	token   string
	baseURL string
	client  *http.Client
	offset  int64
	done    chan struct{}
}

type TelegramOptionFunc func(*Telegram)

func WithTelegramBaseURL(baseURL string) TelegramOptionFunc {
	return func(t *Telegram) {
		t.baseURL = baseURL
	}
}

func NewTelegram(token string, funcs ...TelegramOptionFunc) *Telegram {
	t := &Telegram{
		token:   token,
		baseURL: defaultTelegramBaseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		done: make(chan struct{}),
	}

	for _, fn := range funcs {
		fn(t)
	}

	return t
}

// Run polls for updates and dispatches text messages to the handler until
// the context ends or Stop is called. Commands (/start, /help) are answered
// directly and never reach the handler.
func (t *Telegram) Run(ctx context.Context, handler MessageHandler) error {
	slog.InfoContext(ctx, "telegram bot started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.done:
			return nil
		default:
			updates, err := t.getUpdates(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}

				slog.WarnContext(ctx, "could not retrieve updates", slog.Any("error", errors.WithStack(err)))
				time.Sleep(5 * time.Second)
				continue
			}

			for _, u := range updates {
				if u.UpdateID >= t.offset {
					t.offset = u.UpdateID + 1
				}

				if u.Message == nil || u.Message.Text == "" {
					continue
				}

				chatID := strconv.FormatInt(u.Message.Chat.ID, 10)
				text := u.Message.Text

				if strings.HasPrefix(text, "/") {
					t.handleCommand(ctx, chatID, text)
					continue
				}

				handler(ctx, chatID, text)
			}
		}
	}
}

// Stop signals the polling loop to stop.
func (t *Telegram) Stop() {
	select {
	case <-t.done:
	default:
		close(t.done)
	}
}

func (t *Telegram) handleCommand(ctx context.Context, chatID string, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "/start", "/help":
		if err := t.Send(ctx, chatID, greeting); err != nil {
			slog.ErrorContext(ctx, "could not send greeting", slog.Any("error", errors.WithStack(err)))
		}
	}
}

// Send sends a text message to a Telegram chat.
func (t *Telegram) Send(ctx context.Context, chatID string, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	payload, err := json.Marshal(telegramSendRequest{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.WithStack(err)
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1*1024*1024))
	if err != nil {
		return errors.WithStack(err)
	}

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected sendMessage status %d: %s", res.StatusCode, body)
	}

	var result telegramSendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return errors.WithStack(err)
	}

	if !result.OK {
		return errors.New("telegram api returned ok=false")
	}

	return nil
}

func (t *Telegram) getUpdates(ctx context.Context) ([]telegramUpdate, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=30", t.baseURL, t.token, t.offset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 10*1024*1024))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected getUpdates status %d: %s", res.StatusCode, body)
	}

	var result telegramUpdateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.WithStack(err)
	}

	if !result.OK {
		return nil, errors.New("telegram api returned ok=false")
	}

	return result.Result, nil
}

// --- Telegram Bot API types ---

type telegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *telegramMessage `json:"message"`
}

type telegramMessage struct {
	MessageID int64        `json:"message_id"`
	Chat      telegramChat `json:"chat"`
	Text      string       `json:"text"`
}

type telegramChat struct {
	ID int64 `json:"id"`
}

type telegramUpdateResponse struct {
	OK     bool             `json:"ok"`
	Result []telegramUpdate `json:"result"`
}

type telegramSendRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramSendResponse struct {
	OK bool `json:"ok"`
}

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/osintlab/tgscout/internal/model"
)

const telegramEndpoint = "https://api.telegram.org"

// Telegram resolves handle-shaped queries through the Bot API. Queries
// that carry no handle contribute nothing; this adapter confirms
// destinations rather than discovering text.
type Telegram struct {
	cfg model.TelegramConfig
	hc  *httpClient
}

// NewTelegram creates the Telegram Bot API adapter.
func NewTelegram(cfg model.TelegramConfig, hc *httpClient) *Telegram {
	return &Telegram{cfg: cfg, hc: hc}
}

// Name implements Provider.
func (t *Telegram) Name() string { return string(model.SourceTelegram) }

var handleInQuery = regexp.MustCompile(`(?i)(?:t\.me/|@|^)([A-Za-z][A-Za-z0-9_]{4,31})$`)

type telegramResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Username    string `json:"username"`
		Type        string `json:"type"` // channel, group, supergroup, private
		Description string `json:"description"`
	} `json:"result"`
}

type memberCountResponse struct {
	OK     bool `json:"ok"`
	Result int  `json:"result"`
}

// Search implements Provider. A chat that does not exist is an empty
// result, not an error: the Bot API answers 400 for unknown usernames.
func (t *Telegram) Search(ctx context.Context, query, _ string) ([]model.RawHit, error) {
	m := handleInQuery.FindStringSubmatch(query)
	if m == nil {
		return nil, nil
	}
	handle := m[1]

	chat, err := t.getChat(ctx, handle)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, nil
	}

	hit := model.RawHit{
		Source:        model.SourceTelegram,
		Title:         chat.Result.Title,
		Body:          chat.Result.Description,
		URL:           "https://t.me/" + chat.Result.Username,
		SubCollection: chat.Result.Type,
		ID:            fmt.Sprintf("%d", chat.Result.ID),
		Query:         query,
	}
	if count, err := t.memberCount(ctx, handle); err == nil {
		hit.Popularity = count
	}
	return []model.RawHit{hit}, nil
}

func (t *Telegram) getChat(ctx context.Context, handle string) (*telegramResponse, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getChat?%s", telegramEndpoint, t.cfg.BotToken,
		url.Values{"chat_id": {"@" + handle}}.Encode())

	body, err := t.hc.get(ctx, endpoint)
	if err != nil {
		// Unknown usernames surface as 400; treat those as a miss, not
		// a failure. 401/403 mean a bad token and sideline the provider.
		var se *StatusError
		if errors.As(err, &se) && se.Code == 400 {
			return nil, nil
		}
		return nil, fmt.Errorf("telegram getChat: %w", err)
	}

	var resp telegramResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("telegram getChat: decode: %v: %w", err, ErrRetryable)
	}
	if !resp.OK || resp.Result.Username == "" {
		return nil, nil
	}
	return &resp, nil
}

func (t *Telegram) memberCount(ctx context.Context, handle string) (int, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getChatMemberCount?%s", telegramEndpoint, t.cfg.BotToken,
		url.Values{"chat_id": {"@" + handle}}.Encode())

	body, err := t.hc.get(ctx, endpoint)
	if err != nil {
		return 0, err
	}
	var resp memberCountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, err
	}
	if !resp.OK {
		return 0, fmt.Errorf("telegram getChatMemberCount: not ok")
	}
	return resp.Result, nil
}

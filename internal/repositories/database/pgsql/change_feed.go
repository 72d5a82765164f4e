package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	"github.com/SscSPs/smb_suite/internal/models"
	"github.com/SscSPs/smb_suite/internal/platform/pubsub"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Notification channels written by the repositories and consumed by ChangeFeed.
const (
	SupportedCurrenciesChannel = "supported_currencies_changed"
	CurrencyPreferenceChannel  = "currency_preference_changed"
)

const defaultReconnectDelay = 5 * time.Second

// ChangeFeed listens for committed change notifications and fans them out to
// in-process subscribers. Every instance of the service runs one, so a write made
// through any instance reaches the sessions held by all of them.
type ChangeFeed struct {
	pool           *pgxpool.Pool
	supported      *pubsub.Broker[domain.SupportedCurrencySet]
	preferences    *pubsub.Broker[domain.UserCurrencyPreference]
	logger         *slog.Logger
	reconnectDelay time.Duration
}

// NewChangeFeed creates a feed that is idle until Run is called.
func NewChangeFeed(pool *pgxpool.Pool, logger *slog.Logger) *ChangeFeed {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "change_feed"))
	return &ChangeFeed{
		pool:           pool,
		supported:      pubsub.NewBroker[domain.SupportedCurrencySet](SupportedCurrenciesChannel, logger),
		preferences:    pubsub.NewBroker[domain.UserCurrencyPreference](CurrencyPreferenceChannel, logger),
		logger:         logger,
		reconnectDelay: defaultReconnectDelay,
	}
}

// Run listens until ctx is cancelled, reconnecting after connection failures.
func (f *ChangeFeed) Run(ctx context.Context) error {
	for {
		err := f.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.logger.Warn("Change feed connection lost, reconnecting",
			slog.String("error", err.Error()), slog.Duration("delay", f.reconnectDelay))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.reconnectDelay):
		}
	}
}

func (f *ChangeFeed) listen(ctx context.Context) error {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listener connection: %w", err)
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(cleanupCtx, "UNLISTEN *"); err != nil {
			// Drop the connection rather than hand a listening one back to the pool.
			conn.Conn().Close(cleanupCtx)
		}
		conn.Release()
	}()

	for _, channel := range []string{SupportedCurrenciesChannel, CurrencyPreferenceChannel} {
		if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", channel, err)
		}
	}
	f.logger.Info("Change feed listening")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if err := f.dispatch(n.Channel, []byte(n.Payload)); err != nil {
			f.logger.Error("Dropping malformed change notification",
				slog.String("channel", n.Channel), slog.String("error", err.Error()))
		}
	}
}

// dispatch decodes one notification payload and publishes it to the matching broker.
func (f *ChangeFeed) dispatch(channel string, payload []byte) error {
	switch channel {
	case SupportedCurrenciesChannel:
		set, err := decodeSupportedCurrencies(payload)
		if err != nil {
			return err
		}
		f.supported.Publish(set)
	case CurrencyPreferenceChannel:
		pref, err := decodeCurrencyPreference(payload)
		if err != nil {
			return err
		}
		f.preferences.Publish(pref)
	default:
		return fmt.Errorf("unknown channel %q", channel)
	}
	return nil
}

func decodeSupportedCurrencies(payload []byte) (domain.SupportedCurrencySet, error) {
	var msg models.SupportedCurrenciesChanged
	if err := json.Unmarshal(payload, &msg); err != nil {
		return domain.SupportedCurrencySet{}, fmt.Errorf("failed to decode supported currencies: %w", err)
	}
	if len(msg.SettingValue) == 0 {
		return domain.SupportedCurrencySet{}, errors.New("supported currencies payload has no codes")
	}
	return domain.SupportedCurrencySet{Codes: msg.SettingValue, ChangeStamp: toChangeStamp(msg.ChangeFields)}, nil
}

func decodeCurrencyPreference(payload []byte) (domain.UserCurrencyPreference, error) {
	var msg models.CurrencyPreferenceChanged
	if err := json.Unmarshal(payload, &msg); err != nil {
		return domain.UserCurrencyPreference{}, fmt.Errorf("failed to decode currency preference: %w", err)
	}
	if msg.UserID == "" || msg.CurrencyPreference == "" {
		return domain.UserCurrencyPreference{}, errors.New("currency preference payload is incomplete")
	}
	return domain.UserCurrencyPreference{
		UserID:       msg.UserID,
		CurrencyCode: msg.CurrencyPreference,
		ChangeStamp:  toChangeStamp(msg.ChangeFields),
	}, nil
}

func toChangeStamp(m models.ChangeFields) domain.ChangeStamp {
	return domain.ChangeStamp{Version: m.Version, UpdatedAt: m.UpdatedAt, UpdatedBy: m.UpdatedBy}
}

func toChangeFields(s domain.ChangeStamp) models.ChangeFields {
	return models.ChangeFields{Version: s.Version, UpdatedAt: s.UpdatedAt, UpdatedBy: s.UpdatedBy}
}

package service

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	apperrors "beachvolley/internal/errors"
	"beachvolley/internal/repository"
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	KeyOpeningHours = "orari_apertura"
	KeySlotDuration = "durata_slot"
	KeyMaxPlayers   = "max_giocatori"
	KeyPriceOver18  = "prezzo_over18"
	KeyPriceUnder18 = "prezzo_under18"
	KeyAddress      = "indirizzo"
	KeyContactMarco = "contatto_marco"
	KeyContactLuigi = "contatto_luigi"
	KeyInstagram    = "instagram"
)

// DefaultConfig is seeded on first start and served when storage fails.
var DefaultConfig = []db.ConfigEntry{
	{Key: KeyOpeningHours, Value: "18:00-23:00", Description: "Orari di apertura del campetto"},
	{Key: KeySlotDuration, Value: "60", Description: "Durata slot in minuti"},
	{Key: KeyMaxPlayers, Value: "12", Description: "Numero massimo giocatori per slot"},
	{Key: KeyPriceOver18, Value: "4", Description: "Prezzo per persona over 18 in euro"},
	{Key: KeyPriceUnder18, Value: "3", Description: "Prezzo per persona under 18 in euro"},
	{Key: KeyAddress, Value: "Via Giovanni Palatucci 2 - 83025 Montoro(AV) Fraz. Preturo", Description: "Indirizzo del campetto"},
	{Key: KeyContactMarco, Value: "+393427004105", Description: "Numero di Marco"},
	{Key: KeyContactLuigi, Value: "+393391759103", Description: "Numero di Luigi"},
	{Key: KeyInstagram, Value: "https://www.instagram.com/summer_beachvolley_preturo", Description: "Link Instagram"},
}

func defaultValue(key string) string {
	for _, entry := range DefaultConfig {
		if entry.Key == key {
			return entry.Value
		}
	}
	return ""
}

type ConfigService struct {
	store  repository.ConfigStore
	logger *zap.Logger
}

func NewConfigService(store repository.ConfigStore, logger *zap.Logger) *ConfigService {
	return &ConfigService{store: store, logger: logger}
}

// Seed stores the default entries that are not present yet.
func (s *ConfigService) Seed(ctx context.Context) error {
	return s.store.SeedDefaults(ctx, DefaultConfig)
}

// Value returns the stored value of key, falling back to its default.
func (s *ConfigService) Value(ctx context.Context, key string) string {
	value, err := s.store.GetConfig(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to read configuration", zap.String("key", key), zap.Error(err))
		}
		return defaultValue(key)
	}
	return value
}

func (s *ConfigService) GetConfig(ctx context.Context) entities.ConfigResponse {
	return entities.ConfigResponse{
		OpeningHours: s.Value(ctx, KeyOpeningHours),
		SlotDuration: s.intValue(ctx, KeySlotDuration),
		MaxPlayers:   s.intValue(ctx, KeyMaxPlayers),
		PriceUnder18: s.intValue(ctx, KeyPriceUnder18),
		PriceOver18:  s.intValue(ctx, KeyPriceOver18),
		Address:      s.Value(ctx, KeyAddress),
		ContactMarco: s.Value(ctx, KeyContactMarco),
		ContactLuigi: s.Value(ctx, KeyContactLuigi),
		Instagram:    s.Value(ctx, KeyInstagram),
	}
}

func (s *ConfigService) intValue(ctx context.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s.Value(ctx, key)))
	if err != nil {
		n, _ = strconv.Atoi(defaultValue(key))
	}
	return n
}

// UpdateConfig validates and stores a single entry.
func (s *ConfigService) UpdateConfig(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return apperrors.ErrValidation("Chiave mancante")
	}
	if value == "" {
		return apperrors.ErrValidation("Valore mancante")
	}

	switch key {
	case KeyOpeningHours:
		if _, _, err := ParseOpeningHours(value); err != nil {
			return apperrors.ErrValidation("Orari di apertura non validi, formato atteso HH:00-HH:00")
		}
	case KeySlotDuration, KeyMaxPlayers, KeyPriceOver18, KeyPriceUnder18:
		if n, err := strconv.Atoi(value); err != nil || n <= 0 {
			return apperrors.ErrValidation("Valore numerico non valido per " + key)
		}
	}

	if err := s.store.SetConfig(ctx, key, value); err != nil {
		return err
	}
	s.logger.Info("Configuration updated", zap.String("key", key), zap.String("value", value))
	return nil
}

// Grid returns the slot labels of the configured opening hours. Corrupt
// hours yield an empty grid.
func (s *ConfigService) Grid(ctx context.Context) []string {
	open, closing, err := ParseOpeningHours(s.Value(ctx, KeyOpeningHours))
	if err != nil {
		s.logger.Warn("Invalid opening hours in configuration", zap.Error(err))
		return nil
	}
	return GenerateGrid(open, closing, SlotMinutes)
}

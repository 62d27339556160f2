package service

import (
	"beachvolley/internal/utils"
	"fmt"
	"strings"
)

const (
	DefaultOpenHour  = 16
	DefaultCloseHour = 23
	SlotMinutes      = 60
)

// GenerateGrid lists the slot labels covering [open, close) hours, one every
// slotMinutes. An empty or inverted range yields no labels.
func GenerateGrid(open, close, slotMinutes int) []string {
	if slotMinutes <= 0 {
		slotMinutes = SlotMinutes
	}
	if open < 0 {
		open = 0
	}
	if close > 24 {
		close = 24
	}
	labels := []string{}
	for m := open * 60; m < close*60; m += slotMinutes {
		labels = append(labels, utils.FormatLabel(m))
	}
	return labels
}

// DefaultGrid is the grid served when the configured hours are unusable.
func DefaultGrid() []string {
	return GenerateGrid(DefaultOpenHour, DefaultCloseHour, SlotMinutes)
}

// ParseOpeningHours parses an "HH:MM-HH:MM" range into whole opening and
// closing hours.
func ParseOpeningHours(value string) (int, int, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(value), "-")
	if !ok {
		return 0, 0, fmt.Errorf("opening hours %q: expected HH:MM-HH:MM", value)
	}
	open, err := utils.ParseLabel(from)
	if err != nil {
		return 0, 0, fmt.Errorf("opening hours %q: %w", value, err)
	}
	closing, err := parseClosing(to)
	if err != nil {
		return 0, 0, fmt.Errorf("opening hours %q: %w", value, err)
	}
	if open%60 != 0 || closing%60 != 0 {
		return 0, 0, fmt.Errorf("opening hours %q: must be on the hour", value)
	}
	if open >= closing {
		return 0, 0, fmt.Errorf("opening hours %q: closing must follow opening", value)
	}
	return open / 60, closing / 60, nil
}

// parseClosing also accepts "24:00" as midnight closing.
func parseClosing(label string) (int, error) {
	if strings.TrimSpace(label) == "24:00" {
		return 24 * 60, nil
	}
	return utils.ParseLabel(label)
}

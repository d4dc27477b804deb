package components

import (
	"context"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/component"
	"github.com/roach88/mixer/internal/mix"
)

// Notifications shows desktop notifications for build results. It is
// passive: installed means active, unless disabled.
//
//	disableNotifications()
//	disableSuccessNotifications()
type Notifications struct {
	component.Base
	disabled     bool
	successMuted bool
	hot          bool
}

func (n *Notifications) Names() []string {
	return []string{"notifications", "disableNotifications", "disableSuccessNotifications"}
}

func (n *Notifications) Passive() bool { return true }

func (n *Notifications) Register(...any) error {
	switch n.Caller() {
	case "disableNotifications":
		n.disabled = true
	case "disableSuccessNotifications":
		n.successMuted = true
	}
	return nil
}

func (n *Notifications) Dependencies(context.Context) ([]string, error) {
	if n.disabled {
		return nil, nil
	}
	return []string{"webpack-notifier@^1.15.0"}, nil
}

// Boot reads the hot-reload snapshot taken just before components boot.
func (n *Notifications) Boot(ctx context.Context) error {
	if c := mix.FromContext(ctx); c != nil {
		n.hot = c.Hot().Hot
	}
	return nil
}

func (n *Notifications) Plugins(context.Context) ([]bundler.Plugin, error) {
	if n.disabled {
		return nil, nil
	}
	opts := map[string]any{
		"title":        "Laravel Mix",
		"alwaysNotify": !n.successMuted,
	}
	if n.hot {
		opts["excludeWarnings"] = true
	}
	return []bundler.Plugin{{Name: "WebpackNotifierPlugin", Options: opts}}, nil
}

package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/minedash-admin/pkg/api"
	"github.com/minedash-admin/pkg/store"
)

var errCheckinSlots = errors.New("exactly 7 daily check-in rewards are required")

// Settings drives the global app-settings screen. The backend keeps every
// group in one flat bundle, so the screen edits a draft copy and writes it
// back in a single bulk call.
type Settings struct {
	base
	client *api.Client
	audit  ActionLogger

	bundle api.SettingsBundle
}

func NewSettings(client *api.Client, audit ActionLogger) *Settings {
	return &Settings{client: client, audit: audit}
}

func (c *Settings) Refresh(ctx context.Context) error {
	gen := c.begin()

	bundle, err := c.client.GetSettings(ctx)
	if !c.finish(gen, err) {
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("settings refresh failed")
		return err
	}
	c.mu.Lock()
	c.bundle = bundle
	c.mu.Unlock()
	return nil
}

// Bundle returns a copy of the current settings for editing.
func (c *Settings) Bundle() api.SettingsBundle {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(api.SettingsBundle, len(c.bundle))
	for k, v := range c.bundle {
		out[k] = v
	}
	return out
}

// SaveBulk writes the whole edited bundle back at once. The daily check-in
// rewards ride along as checkinDay1..checkinDay7; all seven must be present.
func (c *Settings) SaveBulk(ctx context.Context, bundle api.SettingsBundle) error {
	for day := 1; day <= 7; day++ {
		key := fmt.Sprintf("checkinDay%d", day)
		if _, ok := bundle[key]; !ok {
			return errCheckinSlots
		}
	}
	err := c.client.BulkUpdateSettings(ctx, bundle)
	logAction(c.audit, store.Action{
		Entity: "settings", Action: "bulk-save", Outcome: outcome(err),
	})
	if err != nil {
		log.Error().Err(err).Msg("settings bulk save failed")
		return err
	}
	c.mu.Lock()
	c.bundle = bundle
	c.mu.Unlock()
	c.setMessage("Settings saved")
	return nil
}

// SaveSocial updates just the social link keys.
func (c *Settings) SaveSocial(ctx context.Context, links map[string]string) error {
	err := c.client.UpdateSocialSettings(ctx, links)
	logAction(c.audit, store.Action{
		Entity: "settings", Action: "save-social", Outcome: outcome(err),
	})
	if err != nil {
		log.Error().Err(err).Msg("social settings save failed")
		return err
	}
	c.mu.Lock()
	if c.bundle == nil {
		c.bundle = api.SettingsBundle{}
	}
	for k, v := range links {
		c.bundle[k] = v
	}
	c.mu.Unlock()
	c.setMessage("Social links saved")
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
)

func runSmoke(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(cmd.Context(), 3*cfg.Backend.Timeout)
	defer cancel()

	client := crm.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)

	if err := client.Ping(ctx); err != nil {
		return errors.Wrap(err, "backend unreachable")
	}
	logger.Log.WithField("backend", client.BaseURL()).Info("backend reachable")

	username, password := os.Getenv("CRM_SMOKE_USERNAME"), os.Getenv("CRM_SMOKE_PASSWORD")
	if username == "" || password == "" {
		logger.LogInfo("CRM_SMOKE_USERNAME or CRM_SMOKE_PASSWORD unset, skipping login")
		return nil
	}

	token, err := client.Authenticate(ctx, username, password)
	if err != nil {
		return errors.Wrap(err, "login")
	}
	me, err := client.Me(ctx, token)
	if err != nil {
		return errors.Wrap(err, "profile")
	}
	metrics, err := client.HomeMetrics(ctx, token)
	if err != nil {
		return errors.Wrap(err, "home metrics")
	}

	logger.Log.WithFields(logrus.Fields{
		"user":           me.Username,
		"total_contacts": metrics.TotalContacts,
	}).Info("smoke check passed")
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

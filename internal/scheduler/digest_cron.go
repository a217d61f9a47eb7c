package cron

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ranihwanifactory/2026newyear/internal/jobs"
)

// StartDigestCron schedules the top-wishes digest. The returned cron is
// stopped by the caller on shutdown.
func StartDigestCron(spec string, digest *jobs.TopWishesDigest) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc(spec, func() {
		if err := digest.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Top wishes digest failed")
		}
	}); err != nil {
		logrus.WithError(err).WithField("spec", spec).Error("Invalid digest cron spec")
		return c
	}

	c.Start()
	return c
}

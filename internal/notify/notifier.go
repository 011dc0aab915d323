// Package notify delivers registration notices to operators.
package notify

import (
	"context"
	"time"

	"housechat/core/logger"
	"housechat/internal/domain"
	"housechat/internal/roster"
	"housechat/internal/store"
	"housechat/internal/texts"
	"log/slog"

	"github.com/hashicorp/go-multierror"
)

// SendFunc delivers one text message to one operator.
type SendFunc func(operatorID int64, text string) error

// Notifier recomputes apartment occupancy after a completed registration
// and informs the regular operator set. Delivery is best-effort: one
// failed operator never blocks the others and never fails the
// registration itself.
type Notifier struct {
	residents store.ResidentStore
	targets   []int64
	send      SendFunc
	now       func() time.Time
}

// New builds a Notifier for the regular operators of the roster.
func New(residents store.ResidentStore, r roster.Roster, send SendFunc) *Notifier {
	return &Notifier{
		residents: residents,
		targets:   r.NotifyTargets(),
		send:      send,
		now:       time.Now,
	}
}

// SetSend replaces the delivery function. Used at startup once the bot
// transport exists, and by tests.
func (n *Notifier) SetSend(send SendFunc) {
	n.send = send
}

// Notify reads the current residents of (building, apartment) and sends
// the matching notice variant to every target operator. The returned
// error aggregates per-operator failures for logging by the caller;
// callers treat it as informational.
func (n *Notifier) Notify(ctx context.Context, who domain.Resident, building, apartment, phone string) error {
	if n.send == nil || len(n.targets) == 0 {
		return nil
	}

	residents, err := n.residents.ListResidents(ctx, building, apartment)
	if err != nil {
		logger.NOTIFY.LogAttrs(ctx, slog.LevelWarn, "notify.lookup_failed",
			slog.String("building", building),
			slog.String("apartment", apartment),
			slog.String("err", err.Error()),
		)
		return err
	}

	var text string
	if len(residents) == 1 {
		text = texts.NewApartmentNotice(who, building, apartment, phone, len(residents), n.now())
	} else {
		text = texts.AdditionalResidentNotice(who, building, apartment, phone, residents)
	}

	var merr *multierror.Error
	for _, operatorID := range n.targets {
		if err := n.send(operatorID, text); err != nil {
			merr = multierror.Append(merr, err)
			logger.NOTIFY.LogAttrs(ctx, slog.LevelWarn, "notify.failed",
				slog.Int64("operator_id", operatorID),
				slog.String("building", building),
				slog.String("apartment", apartment),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			continue
		}
		logger.NOTIFY.LogAttrs(ctx, slog.LevelInfo, "notify.sent",
			slog.Int64("operator_id", operatorID),
			slog.String("building", building),
			slog.String("apartment", apartment),
			slog.Int("residents", len(residents)),
		)
	}
	return merr.ErrorOrNil()
}

// Package handlers binds chat commands and the access gate to the
// underlying services.
package handlers

import (
	"errors"
	"strings"

	"housechat/core/logger"
	tghelpers "housechat/core/telegram/helpers"
	"housechat/internal/registration"
	"housechat/internal/roster"
	"housechat/internal/store"
	"housechat/internal/texts"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Commands implements the command surface of the bot.
type Commands struct {
	store  store.Store
	flow   *registration.Flow
	roster roster.Roster
}

// NewCommands builds the command handler set.
func NewCommands(s store.Store, flow *registration.Flow, r roster.Roster) *Commands {
	return &Commands{store: s, flow: flow, roster: r}
}

// Register handles /register for members who joined before the bot did.
func (h *Commands) Register(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	registered, err := h.store.IsRegistered(ctx, sender.ID)
	if err != nil {
		return err
	}
	if registered {
		return tghelpers.ReplyText(c, texts.AlreadyRegistered)
	}
	return h.flow.Start(c, sender, true)
}

// Admins handles /admins: the roster with best-effort name resolution.
func (h *Commands) Admins(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	names := make(map[int64]string)
	resolve := func(id int64) {
		chat, err := c.Bot().ChatByID(id)
		if err != nil {
			logger.SVCResidents.LogAttrs(ctx, slog.LevelDebug, "admins.resolve_failed",
				slog.Int64("operator_id", id),
				slog.String("err", err.Error()),
			)
			return
		}
		names[id] = chat.FirstName
	}
	resolve(h.roster.SuperOperator)
	for _, id := range h.roster.Operators {
		resolve(id)
	}

	return tghelpers.SendText(c, texts.OperatorList(h.roster.SuperOperator, h.roster.Operators, names))
}

// AddBuilding handles /add_building <name>.
func (h *Commands) AddBuilding(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	args := c.Args()
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return tghelpers.ReplyText(c, texts.AddBuildingUsage)
	}
	name := strings.TrimSpace(args[0])

	err := h.store.AddBuilding(ctx, name, c.Sender().ID)
	if errors.Is(err, store.ErrBuildingExists) {
		logger.SVCBuildings.LogAttrs(ctx, slog.LevelInfo, "building.add",
			slog.String("building", name),
			slog.String("outcome", "duplicate"),
		)
		return tghelpers.ReplyText(c, texts.AddBuildingExists(name))
	}
	if err != nil {
		return err
	}

	logger.SVCBuildings.LogAttrs(ctx, slog.LevelInfo, "building.add",
		slog.String("building", name),
		slog.String("outcome", "ok"),
		slog.Int64("operator_id", c.Sender().ID),
	)
	return tghelpers.ReplyText(c, texts.AddBuildingOK(name))
}

// Buildings handles /buildings: every building sorted by name.
func (h *Commands) Buildings(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	buildings, err := h.store.ListBuildings(ctx)
	if err != nil {
		return err
	}
	if len(buildings) == 0 {
		return tghelpers.SendText(c, texts.NoBuildingsShort)
	}
	return tghelpers.SendText(c, texts.BuildingList(buildings))
}

// Apartment handles /apartment <building> <number>: resident details
// for operators, or an explicit empty result.
func (h *Commands) Apartment(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	args := c.Args()
	if len(args) != 2 {
		return tghelpers.ReplyText(c, texts.ApartmentUsage)
	}
	building, apartment := args[0], args[1]

	residents, err := h.store.ListResidents(ctx, building, apartment)
	if err != nil {
		return err
	}
	if len(residents) == 0 {
		return tghelpers.SendText(c, texts.ApartmentEmpty(building, apartment))
	}
	return tghelpers.SendText(c, texts.ApartmentReport(building, apartment, residents))
}

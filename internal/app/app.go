// Package app assembles the resident registration bot.
package app

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"housechat/core/logger"
	coretelegram "housechat/core/telegram"
	"housechat/core/telegram/commands"
	"housechat/core/telegram/middleware"
	"housechat/core/telegram/router"
	"housechat/core/telegram/state"
	"housechat/internal/handlers"
	"housechat/internal/notify"
	"housechat/internal/registration"
	"housechat/internal/roster"
	"housechat/internal/store"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// App holds the assembled services of the bot.
type App struct {
	cfg      *Config
	store    *store.Postgres
	states   state.Manager
	roster   roster.Roster
	notifier *notify.Notifier
	flow     *registration.Flow
	commands *handlers.Commands
	gate     *handlers.Gate
}

// New wires every service against the open database handle.
func New(cfg *Config, db *sqlx.DB) *App {
	st := store.NewPostgres(db)
	states := state.NewMemoryManager()
	r := roster.Roster{
		SuperOperator: cfg.Operators.SuperAdminID,
		Operators:     cfg.Operators.AdminIDs,
	}

	notifier := notify.New(st, r, nil)
	flow := registration.NewFlow(st, states, notifier)
	gate := handlers.NewGate(st, flow)
	flow.SetTextFallback(gate.OnText)

	return &App{
		cfg:      cfg,
		store:    st,
		states:   states,
		roster:   r,
		notifier: notifier,
		flow:     flow,
		commands: handlers.NewCommands(st, flow, r),
		gate:     gate,
	}
}

// stateView adapts the session manager to the state gate middleware.
type stateView struct{ m state.Manager }

func (v stateView) GetState(userID int64) string {
	return string(v.m.GetState(userID))
}

// TelegramRunOptions builds the full bot runtime configuration.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/register", commands.Command{
		Handler:     a.commands.Register,
		Description: "Регистрация в домовом чате",
	})
	reg.RegisterCommand("/admins", commands.Command{
		Handler:      a.commands.Admins,
		Description:  "Список администраторов",
		OperatorOnly: true,
	})
	reg.RegisterCommand("/add_building", commands.Command{
		Handler:      a.commands.AddBuilding,
		Description:  "Добавить корпус",
		OperatorOnly: true,
	})
	reg.RegisterCommand("/buildings", commands.Command{
		Handler:      a.commands.Buildings,
		Description:  "Список корпусов",
		OperatorOnly: true,
	})
	reg.RegisterCommand("/apartment", commands.Command{
		Handler:      a.commands.Apartment,
		Description:  "Жильцы квартиры",
		OperatorOnly: true,
	})

	if err := reg.RegisterCallback(registration.CallbackBuilding, a.flow.HandleBuildingCallback); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(handlers.CallbackRegister, a.gate.OnRegisterCallback); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.gate.OnText)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{Operators: a.roster})
	routes = append(routes,
		router.CallbackRoute(reg, router.CallbackOptions{}),
		router.TextRoute(a.states, reg, router.TextOptions{}),
		coretelegram.Route{
			Endpoint: tele.OnContact,
			Handler: middleware.RecoverMiddleware(middleware.LoggerMiddleware(
				middleware.State(stateView{a.states}, string(registration.StateAwaitingPhone))(a.flow.HandlePhone),
			)),
		},
		coretelegram.Route{
			// Media from unregistered members is gated like text, but an
			// in-flight conversation is left to its own handlers.
			Endpoint: tele.OnMedia,
			Handler: middleware.RecoverMiddleware(middleware.LoggerMiddleware(func(c tele.Context) error {
				if sender := c.Sender(); sender != nil && a.states.InProgress(sender.ID) {
					return nil
				}
				return a.gate.OnText(c)
			})),
		},
		coretelegram.Route{
			Endpoint: tele.OnUserJoined,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(a.gate.OnUserJoined)),
		},
	)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart:     a.onStart,
	}, nil
}

// onStart seeds reference data and wires outbound notification delivery
// once the transport exists.
func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	if err := store.SeedDefaultBuildings(ctx, a.store, a.roster.SuperOperator); err != nil {
		return err
	}

	bot := rt.Bot
	dispatcher := rt.Dispatcher
	a.notifier.SetSend(func(operatorID int64, text string) error {
		run := func() error {
			_, err := bot.Send(&tele.User{ID: operatorID}, text)
			return err
		}
		if dispatcher == nil {
			return run()
		}
		if err := dispatcher.Enqueue(ctx, "notify.operator", "sendMessage", run); err != nil {
			// Saturated or closed queue falls back to a direct send.
			return run()
		}
		return nil
	})

	buildings, err := a.store.ListBuildings(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(buildings))
	for _, b := range buildings {
		names = append(names, b.Name)
	}

	logger.L.With("component", "app").Info("roster loaded",
		slog.String("event", "startup"),
		slog.Int64("operator_id", a.roster.SuperOperator),
		slog.Int("count", len(a.roster.Operators)),
	)
	logger.SVCBuildings.LogAttrs(ctx, slog.LevelInfo, "buildings.available",
		slog.Int("count", len(names)),
		slog.String("building", strings.Join(names, ",")),
	)
	return nil
}

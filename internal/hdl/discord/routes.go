package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HiSumm3rs/Bot-IDBL/internal/config"
	"github.com/HiSumm3rs/Bot-IDBL/internal/ctrl"
	"github.com/HiSumm3rs/Bot-IDBL/internal/dto"
	"github.com/HiSumm3rs/Bot-IDBL/internal/hdl"
	"github.com/HiSumm3rs/Bot-IDBL/internal/hdl/validation"
	metrics "github.com/HiSumm3rs/Bot-IDBL/internal/observability/metrics/prometheus"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	resOK       = "ok"
	resInvalid  = "invalid"
	resDenied   = "denied"
	resInternal = "internal"
)

func (h *Handler) registerRoutes() {
	h.routes = map[string]handlerFunc{
		"balance":  h.balance,
		"shop":     h.shop,
		"buy":      h.buy,
		"ranking":  h.ranking,
		"history":  h.history,
		"help":     h.help,
		"grant":    adminOnly(h.grant),
		"revoke":   adminOnly(h.revoke),
		"add-item": adminOnly(h.addItem),
	}
}

// Dispatch routes one command to its handler. Unknown commands are ignored
// so the bot stays quiet on other bots' prefixed chatter.
func (h *Handler) Dispatch(ctx context.Context, cmd *Command) *dto.Payload {
	handler, ok := h.routes[cmd.Name]
	if !ok {
		return nil
	}

	zap.L().Debug(
		"dispatching command",
		zap.String("rid", uuid.NewString()),
		zap.String("command", cmd.Name),
		zap.String("uid", cmd.UserID),
	)
	return handler(ctx, cmd)
}

// adminOnly gates a handler behind the administrator permission. The check
// runs before any argument parsing or ledger access.
func adminOnly(next handlerFunc) handlerFunc {
	return func(ctx context.Context, cmd *Command) *dto.Payload {
		if !cmd.IsAdmin {
			metrics.ObserveRequest(0, resDenied, "economy."+cmd.Name+".hdl")
			return &dto.Payload{
				Title: "⛔ Permission Denied",
				Body:  "You don't have permission to use this command!",
				Color: dto.ColorError,
			}
		}
		return next(ctx, cmd)
	}
}

func errResponse(body string) *dto.Payload {
	return &dto.Payload{
		Title: "❌ Error",
		Body:  body,
		Color: dto.ColorError,
	}
}

func (h *Handler) balance(ctx context.Context, cmd *Command) *dto.Payload {
	s, res := time.Now(), resOK
	const op = "economy.balance.hdl"
	defer func() {
		metrics.ObserveRequest(time.Since(s), res, op)
	}()

	tokens, err := h.ctrl.Balance(ctx, cmd.UserID)
	if err != nil {
		res = resInternal
		zap.L().Debug(
			hdl.ErrInternal.Error(),
			zap.String("op", op), zap.Error(err),
		)
		return errResponse(hdl.ErrInternal.Error())
	}

	return &dto.Payload{
		Title: "💰 Your Balance",
		Body:  fmt.Sprintf("You have **%d** tokens", tokens),
		Color: dto.ColorSuccess,
	}
}

func (h *Handler) shop(ctx context.Context, cmd *Command) *dto.Payload {
	s, res := time.Now(), resOK
	const op = "economy.shop.hdl"
	defer func() {
		metrics.ObserveRequest(time.Since(s), res, op)
	}()

	items, err := h.ctrl.ListShop(ctx)
	if err != nil {
		res = resInternal
		zap.L().Debug(
			hdl.ErrInternal.Error(),
			zap.String("op", op), zap.Error(err),
		)
		return errResponse(hdl.ErrInternal.Error())
	}

	if len(items) == 0 {
		return &dto.Payload{
			Title: "🏪 Shop",
			Body:  "The shop is empty!",
			Color: dto.ColorError,
		}
	}

	fields := make([]dto.Field, 0, len(items))
	for _, item := range items {
		fields = append(
			fields, dto.Field{
				Name:  fmt.Sprintf("ID: %d - %s", item.Position, item.Name),
				Value: fmt.Sprintf("Price: %d tokens\n%s", item.Price, item.Description),
			},
		)
	}

	return &dto.Payload{
		Title:  "🏪 Shop",
		Color:  dto.ColorInfo,
		Fields: fields,
	}
}

func (h *Handler) buy(ctx context.Context, cmd *Command) *dto.Payload {
	s, res := time.Now(), resOK
	const op = "economy.buy.hdl"
	defer func() {
		metrics.ObserveRequest(time.Since(s), res, op)
	}()

	pos, err := validation.Position(cmd.Args)
	if err != nil {
		res = resInvalid
		return errResponse(err.Error())
	}

	rec, err := h.ctrl.Purchase(ctx, cmd.UserID, cmd.Username, pos)
	if err != nil {
		var funds *ctrl.InsufficientFundsError
		switch {
		case errors.Is(err, ctrl.ErrItemNotFound):
			res = resInvalid
			return errResponse("Invalid item ID!")
		case errors.As(err, &funds):
			res = resInvalid
			return errResponse(
				fmt.Sprintf("You don't have enough tokens! You need %d tokens.", funds.Required),
			)
		default:
			res = resInternal
			zap.L().Debug(
				hdl.ErrInternal.Error(),
				zap.String("op", op), zap.Error(err),
			)
			return errResponse(hdl.ErrInternal.Error())
		}
	}

	return &dto.Payload{
		Title: "✅ Purchase Complete!",
		Body:  fmt.Sprintf("You bought **%s** for %d tokens!", rec.Item, rec.Price),
		Color: dto.ColorSuccess,
	}
}

func (h *Handler) ranking(ctx context.Context, cmd *Command) *dto.Payload {
	s, res := time.Now(), resOK
	const op = "economy.ranking.hdl"
	defer func() {
		metrics.ObserveRequest(time.Since(s), res, op)
	}()

	entries, err := h.ctrl.Ranking(ctx)
	if err != nil {
		res = resInternal
		zap.L().Debug(
			hdl.ErrInternal.Error(),
			zap.String("op", op), zap.Error(err),
		)
		return errResponse(hdl.ErrInternal.Error())
	}

	if len(entries) == 0 {
		return errResponse("No users found!")
	}
	if len(entries) > config.DefaultRankingLimit {
		entries = entries[:config.DefaultRankingLimit]
	}

	fields := make([]dto.Field, 0, len(entries))
	for i, e := range entries {
		name, err := h.resolver.ResolveDisplayName(ctx, e.UserID)
		if err != nil {
			zap.L().Debug(
				"failed to resolve user, skipping",
				zap.String("op", op), zap.String("uid", e.UserID), zap.Error(err),
			)
			continue
		}
		fields = append(
			fields, dto.Field{
				Name:  fmt.Sprintf("#%d", i+1),
				Value: fmt.Sprintf("%s: %d tokens", name, e.Tokens),
			},
		)
	}

	return &dto.Payload{
		Title:  "🏆 Token Ranking",
		Color:  dto.ColorGold,
		Fields: fields,
	}
}

func (h *Handler) history(ctx context.Context, cmd *Command) *dto.Payload {
	s, res := time.Now(), resOK
	const op = "economy.history.hdl"
	defer func() {
		metrics.ObserveRequest(time.Since(s), res, op)
	}()

	records, err := h.ctrl.History(ctx, cmd.Username)
	if err != nil {
		res = resInternal
		zap.L().Debug(
			hdl.ErrInternal.Error(),
			zap.String("op", op), zap.Error(err),
		)
		return errResponse(hdl.ErrInternal.Error())
	}

	if len(records) == 0 {
		return errResponse("You haven't made any purchases yet!")
	}
	if len(records) > config.DefaultHistoryLimit {
		records = records[len(records)-config.DefaultHistoryLimit:]
	}

	fields := make([]dto.Field, 0, len(records))
	for _, r := range records {
		fields = append(
			fields, dto.Field{
				Name:   r.Item,
				Value:  fmt.Sprintf("Price: %d tokens\nDate: %s", r.Price, r.Date),
				Inline: true,
			},
		)
	}

	return &dto.Payload{
		Title:  "📋 Your Purchase History",
		Color:  dto.ColorInfo,
		Fields: fields,
	}
}

func (h *Handler) help(_ context.Context, _ *Command) *dto.Payload {
	p := h.prefix
	lines := []string{
		p + "balance — your token balance",
		p + "shop — list shop items",
		p + "buy <id> — buy an item",
		p + "ranking — top token holders",
		p + "history — your last purchases",
		p + "grant <user> <amount> — give tokens (admin)",
		p + "revoke <user> <amount> — take tokens (admin)",
		p + "add-item <price> <name> | <description> — add a shop item (admin)",
	}
	return &dto.Payload{
		Title: "ℹ️ Commands",
		Body:  strings.Join(lines, "\n"),
		Color: dto.ColorInfo,
	}
}

func (h *Handler) grant(ctx context.Context, cmd *Command) *dto.Payload {
	s, res := time.Now(), resOK
	const op = "economy.grant.hdl"
	defer func() {
		metrics.ObserveRequest(time.Since(s), res, op)
	}()

	target, err := validation.Target(cmd.Args)
	if err != nil {
		res = resInvalid
		return errResponse(err.Error())
	}

	amount, err := validation.Amount(cmd.Args)
	if err != nil {
		res = resInvalid
		return errResponse(err.Error())
	}

	if _, err = h.ctrl.Grant(ctx, target, amount); err != nil {
		res = resInternal
		zap.L().Debug(
			hdl.ErrInternal.Error(),
			zap.String("op", op), zap.Error(err),
		)
		return errResponse(hdl.ErrInternal.Error())
	}

	return &dto.Payload{
		Title: "✅ Tokens Granted!",
		Body:  fmt.Sprintf("%d tokens were granted to <@%s>", amount, target),
		Color: dto.ColorSuccess,
	}
}

func (h *Handler) revoke(ctx context.Context, cmd *Command) *dto.Payload {
	s, res := time.Now(), resOK
	const op = "economy.revoke.hdl"
	defer func() {
		metrics.ObserveRequest(time.Since(s), res, op)
	}()

	target, err := validation.Target(cmd.Args)
	if err != nil {
		res = resInvalid
		return errResponse(err.Error())
	}

	amount, err := validation.Amount(cmd.Args)
	if err != nil {
		res = resInvalid
		return errResponse(err.Error())
	}

	if _, err = h.ctrl.Revoke(ctx, target, amount); err != nil {
		var balance *ctrl.InsufficientBalanceError
		if errors.As(err, &balance) {
			res = resInvalid
			return errResponse(
				fmt.Sprintf("<@%s> only has %d tokens!", target, balance.Current),
			)
		}
		res = resInternal
		zap.L().Debug(
			hdl.ErrInternal.Error(),
			zap.String("op", op), zap.Error(err),
		)
		return errResponse(hdl.ErrInternal.Error())
	}

	return &dto.Payload{
		Title: "✅ Tokens Revoked!",
		Body:  fmt.Sprintf("%d tokens were revoked from <@%s>", amount, target),
		Color: dto.ColorWarn,
	}
}

func (h *Handler) addItem(ctx context.Context, cmd *Command) *dto.Payload {
	s, res := time.Now(), resOK
	const op = "economy.addItem.hdl"
	defer func() {
		metrics.ObserveRequest(time.Since(s), res, op)
	}()

	price, name, description, err := validation.ItemPayload(cmd.Args, cmd.RawArgs)
	if err != nil {
		res = resInvalid
		return errResponse(err.Error())
	}

	if _, err = h.ctrl.AddItem(ctx, name, price, description); err != nil {
		res = resInternal
		zap.L().Debug(
			hdl.ErrInternal.Error(),
			zap.String("op", op), zap.Error(err),
		)
		return errResponse(hdl.ErrInternal.Error())
	}

	return &dto.Payload{
		Title: "✅ Item Added!",
		Body:  fmt.Sprintf("**%s** was added to the shop for %d tokens", name, price),
		Color: dto.ColorSuccess,
	}
}

package middleware

import tele "gopkg.in/telebot.v4"

// OperatorChecker reports whether a Telegram user may invoke operator commands.
type OperatorChecker interface {
	IsOperator(userID int64) bool
}

// OperatorOptions defines how operator-only checks should behave.
type OperatorOptions struct {
	Check OperatorChecker
	// OnReject runs for non-operators. Nil means silent ignore, so the
	// command set is not leaked to regular chat members.
	OnReject tele.HandlerFunc
}

// OperatorOnlyMiddleware ensures that only roster members can invoke downstream handlers.
func OperatorOnlyMiddleware(opts OperatorOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if opts.Check == nil || sender == nil {
				return nil
			}
			if !opts.Check.IsOperator(sender.ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

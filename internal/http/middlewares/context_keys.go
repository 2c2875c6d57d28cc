package middlewares

type ctxKey string

const (
	CtxRequestID ctxKey = "request_id"
	CtxUserID    ctxKey = "userID"
	CtxEmail     ctxKey = "email"
	CtxRole      ctxKey = "role"
)

package middlewares

const (
	CtxRequestID = "request_id"
	CtxPrincipal = "auth.principal"
	CtxUser      = "auth.user"
)

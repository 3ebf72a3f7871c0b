package handler

type ContextKey string

var (
	CrewIDCtx   ContextKey = "crewID"
	AuthModeCtx ContextKey = "authMode"
)

const (
	AuthModeSecret = "secret"
	AuthModeToken  = "token"
)

package auth

import (
	"context"
	"net/http"
	"time"
)

type contextKey string

const (
	userIDKey       contextKey = "threads.userID"
	cookieWriterKey contextKey = "threads.cookieWriter"
)

// CookieName is the session cookie written at signup/signin and cleared
// at signout.
const CookieName = "token"

// CookieMaxAge keeps the session alive for about a year.
const CookieMaxAge = 365 * 24 * time.Hour

// WithUserID returns a context carrying the acting user's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the acting user's id, or "" when the request is
// unauthenticated.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// CookieWriter lets resolvers set or clear the session cookie without
// holding the http.ResponseWriter themselves.
type CookieWriter interface {
	SetCookie(*http.Cookie)
}

type responseCookieWriter struct {
	w http.ResponseWriter
}

func (cw responseCookieWriter) SetCookie(c *http.Cookie) {
	http.SetCookie(cw.w, c)
}

// WithCookieWriter returns a context through which resolvers can write
// cookies onto the response.
func WithCookieWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, cookieWriterKey, responseCookieWriter{w: w})
}

func cookieWriter(ctx context.Context) CookieWriter {
	cw, _ := ctx.Value(cookieWriterKey).(CookieWriter)
	return cw
}

// SetSessionCookie writes the session cookie for the given token. It is
// a no-op when the context has no response attached (CLI execution).
func SetSessionCookie(ctx context.Context, token string) {
	cw := cookieWriter(ctx)
	if cw == nil {
		return
	}
	cw.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(CookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie. Tokens are stateless,
// so this only removes the client's copy.
func ClearSessionCookie(ctx context.Context) {
	cw := cookieWriter(ctx)
	if cw == nil {
		return
	}
	cw.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

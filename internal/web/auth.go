package web

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"time"

	"autoadmin/internal/session"

	"golang.org/x/time/rate"
)

const sessionCookie = "admin_session"

type ctxKey int

const sessionCtxKey ctxKey = iota

func sessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionCtxKey).(*session.Session)
	return sess
}

func sessionEmail(r *http.Request) string {
	if sess := sessionFromContext(r.Context()); sess != nil {
		return sess.Email
	}
	return ""
}

// requireAuth redirects anonymous requests to the login page. A no-op
// when the auth gate is disabled.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.Auth.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		sess, err := s.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			s.logger.Error().Err(err).Msg("session lookup failed")
		}
		if sess == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey, sess)))
	})
}

type loginData struct {
	Email string
	Error string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Auth.Enabled {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login", "Log in", loginData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Auth.Enabled {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if !s.loginLimiter(clientIP(r)).Allow() {
		s.renderStatus(w, r, "login", "Log in",
			loginData{Email: email, Error: "Too many attempts, try again shortly"},
			http.StatusTooManyRequests)
		return
	}

	if email != "" {
		allowed, err := s.sessions.CheckRateLimit(r.Context(), "login:"+email, s.cfg.Auth.LoginBurst, time.Minute)
		if err != nil {
			s.logger.Error().Err(err).Msg("login rate limit check failed")
		} else if !allowed {
			s.renderStatus(w, r, "login", "Log in",
				loginData{Email: email, Error: "Too many attempts, try again shortly"},
				http.StatusTooManyRequests)
			return
		}
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.Auth.AdminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Auth.AdminPassword)) == 1
	if !emailOK || !passwordOK {
		s.logger.Warn().Str("email", email).Msg("failed login attempt")
		s.renderStatus(w, r, "login", "Log in",
			loginData{Email: email, Error: "Invalid email or password"},
			http.StatusUnauthorized)
		return
	}

	sess := session.New(email, s.cfg.Auth.SessionTTL())
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.logger.Error().Err(err).Msg("session create failed")
		s.renderStatus(w, r, "login", "Log in",
			loginData{Email: email, Error: "Login is temporarily unavailable"},
			http.StatusServiceUnavailable)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cfg.Auth.SessionTTL().Seconds()),
	})
	s.logger.Info().Str("email", email).Msg("admin logged in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.Error().Err(err).Msg("session delete failed")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (s *Server) loginLimiter(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.Auth.LoginRPS), s.cfg.Auth.LoginBurst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

// internal/httpserver/token.go
//
// Board tokens bind a board to the browser that mounted it.
// Responsibilities:
//   - Sign an HS256 JWT carrying the board ID at mount time.
//   - Store it in a cookie scoped to /b/{id}.
//   - Reject mutations and streams whose token does not match the URL's board.

package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
)

const tokenCookieName = "scoreboard_token"

var errTokenBoard = errors.New("token issued for another board")

// boardClaims is the JWT payload of a board token.
type boardClaims struct {
	Board string `json:"board"`
	jwt.RegisteredClaims
}

// signBoardToken creates a token for board id, valid for TokenTTL.
func (s *Server) signBoardToken(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, boardClaims{
		Board: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString([]byte(s.cfg.TokenSecret))
	return ss, exp, err
}

// verifyBoardToken checks signature, expiry and that the token names board id.
func (s *Server) verifyBoardToken(tok, id string) error {
	claims := &boardClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.TokenSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if claims.Board != id {
		return errTokenBoard
	}
	return nil
}

// setBoardCookie writes the token cookie for board id.
func (s *Server) setBoardCookie(w http.ResponseWriter, id, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/b/" + id,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearBoardCookie deletes the token cookie for board id.
func (s *Server) clearBoardCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/b/" + id,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the token cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(tokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireBoardToken enforces a valid token for the {id} in the route.
func (s *Server) requireBoardToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		id := chi.URLParam(r, "id")
		if err := s.verifyBoardToken(tok, id); err != nil {
			hlog.FromRequest(r).Debug().Err(err).Str("board", id).Msg("rejected board token")
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

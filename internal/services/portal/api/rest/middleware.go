package rest

import (
	"net/http"
	"strings"

	apperrors "github.com/sreedharv/ptrportal/internal/platform/errors"
	"github.com/sreedharv/ptrportal/internal/platform/requestctx"
)

// requireToken verifies the Bearer session token and attaches the dealer
// identity to the request context.
func (s *Server) requireToken(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			writeJSONError(w, apperrors.New(apperrors.CodeTokenMissing, "No token provided"))
			return
		}

		claims, err := s.tokens.Verify(tokenString)
		if err != nil {
			writeJSONError(w, err)
			return
		}

		ctx := requestctx.WithDealer(r.Context(), requestctx.Dealer{
			PTIN: claims.PTIN,
			Name: claims.Name,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}

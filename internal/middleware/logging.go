package middleware

import (
	"bytes"
	"io"
	"net"
	"net/http"

	"gabber/annotator/internal/auth"
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/logging"
)

// maxLoggedBody caps how much of a request body is buffered for the log
const maxLoggedBody = 64 << 10

// RequestLogger records method, path, client and a redacted JSON payload.
// Multipart uploads are logged without their body.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload interface{}
		if r.Body != nil && isJSON(r) && r.ContentLength <= maxLoggedBody {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
			if err == nil {
				payload = common.RedactPayload(body)
			}
			r.Body = readCloser{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
		}

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		var userID uint
		if caller := auth.GetCaller(r.Context()); caller != nil {
			userID = caller.ID
		}

		logging.WithRequest(auth.GetRequestID(r.Context()), userID, r.URL.Path).Infow("HTTP request",
			"method", r.Method,
			"ip", ip,
			"user_agent", r.UserAgent(),
			"payload", payload,
		)

		next.ServeHTTP(w, r)
	})
}

// readCloser replays the buffered prefix and closes the original body
type readCloser struct {
	io.Reader
	io.Closer
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return len(ct) >= 16 && ct[:16] == "application/json"
}

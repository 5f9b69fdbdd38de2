// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// SecureHeaders stamps the baseline browser security headers on every
// response. The API serves JSON, but responses can still end up rendered
// in a browser tab, so the hardening set is applied across the board.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// No MIME-sniffing of the Content-Type.
		h.Set("X-Content-Type-Options", "nosniff")

		// No cross-origin framing of API responses.
		h.Set("X-Frame-Options", "SAMEORIGIN")

		// Legacy XSS filter off; CSP is the modern mechanism.
		h.Set("X-XSS-Protection", "0")

		// Limit what the Referer header carries cross-origin.
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Opt out of FLoC cohort calculations.
		h.Set("Permissions-Policy", "interest-cohort=()")

		next.ServeHTTP(w, r)
	})
}

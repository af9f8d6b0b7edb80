// Package auth resolves who is calling the CMS API.
//
// Two credential sources are accepted:
//   - a bearer JWT issued by the external auth provider, verified with the
//     provider's shared secret (HS256)
//   - a local CMS session cookie, created by POST /api/auth/login
//
// # Configuration
//
//	AUTH_PROVIDER_URL=https://auth.example.org   # Expected issuer prefix, optional
//	AUTH_PROVIDER_JWT_SECRET=<secret>            # Enables bearer tokens
//	AUTH_SESSION_SECRET=<hex-32-bytes>           # Enables CSRF protection
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true
//
// # Usage
//
// The middleware resolves the principal once per request:
//
//	mw := auth.NewMiddleware(service, sessions, verifier)
//	router.Use(sessions.SessionLoadSave(), mw.Handler())
//	cms := router.Group("/api/cms", auth.RequireAuth())
//
// Handlers read it from the gin context:
//
//	p, ok := auth.CurrentPrincipal(c)
package auth

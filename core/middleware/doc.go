// Package middleware contains HTTP middleware for the lookup API.
//
//   - auth: API key validation for every non-public route.
//   - rayid: a request id stored in the context and echoed in the response,
//     picked up by logger.WithRayID.
package middleware

// Package server exposes the analysis service as a local JSON HTTP API.
//
// Routes:
//
//	GET    /health
//	GET    /metrics
//	POST   /api/login                                   {"platform": "twitter"}
//	POST   /api/logout
//	GET    /api/me
//	GET    /api/analyses
//	POST   /api/analyses
//	GET    /api/analyses/{id}
//	DELETE /api/analyses/{id}
//	GET    /api/analyses/{id}/results?min&max&issue&marked&sort&dir&hide-hidden
//	POST   /api/analyses/{id}/results/{resultID}/mark
//	POST   /api/analyses/{id}/results/{resultID}/hide
//	GET    /api/analyses/{id}/export[?format=markdown]
//
// Errors are returned as {"error": "..."} with a status derived from the
// sentinel error: 400 for bad input, 401 when nobody is logged in, 404 for
// unknown sessions or results and 422 when an analysis finds no followers.
package server

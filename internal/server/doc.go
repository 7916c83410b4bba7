// Package server exposes the picstash HTTP API.
//
// # Routes
//
// Public:
//
//	GET  /                    embedded landing page
//	GET  /static/...          landing page assets
//	GET  /health              liveness check
//	POST /auth/register       create account, returns bearer token (201)
//	POST /auth/login          verify credentials, returns bearer token (200)
//	GET  /uploads/...         stored image files
//
// Protected (Authorization: Bearer <token>):
//
//	GET  /api/images          gallery listing, optional ?name= substring filter
//	POST /api/images          multipart upload, owner = authenticated user
//	GET  /api/images/{id}     single image with its owner
//	PUT  /api/images/{id}     rename, owner only
//
// Uploads are content-deduplicated: identical bytes uploaded within the
// dedupe window share one stored file, each with its own image record.
//
// # Failure ordering
//
// Mutating handlers resolve failures in a fixed priority: structural
// validation of the request, then resource existence, then ownership, then
// the mutation itself. Not-found outranks forbidden so rejection modes
// don't reveal which identifiers exist.
//
// # Flows
//
// Registration and login are implemented as flows returning tagged results;
// handlers only translate tags into status codes and JSON bodies. All
// errors are recovered at this boundary - nothing here crashes the process.
package server

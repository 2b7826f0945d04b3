// Package api exposes the files manager over HTTP.
//
// Routes answer JSON, errors included ({"error": "..."}). Accounts are created
// with POST /users and exchanged for a session token with GET /connect (Basic
// auth); the token travels in the X-Token header. File uploads carry base64
// content that is written to blob storage, and image uploads schedule a
// thumbnail job. GET /files/{id}/data serves public files anonymously.
package api

// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a valid client-supplied X-Request-ID header or generates a
// UUID, stores it in the request context and echoes it in the response.
// FromContext reads it back; LoggerExtractor adds it to log records.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	http.ListenAndServe(":8080", requestid.Middleware(router))
package requestid

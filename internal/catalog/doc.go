// Package catalog provides the client side of the remote book collection.
//
// # Overview
//
// The remote store is consumed through a fixed CRUD contract, the Store
// interface. Two implementations live here:
//
//   - client.go: HTTP/JSON client for a /books collection resource
//   - memory.go: in-process store used by shelfd and by tests
//
// types.go holds the Record model and errors.go the failure taxonomy.
//
// # Client Usage
//
//	client, err := catalog.NewClient(catalog.Options{
//		BaseURL: "http://127.0.0.1:3001",
//		Retries: 1,
//	})
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	books, err := client.List(ctx)
//	if err != nil {
//		log.Printf("list failed (%s): %v", catalog.Reason(err), err)
//	}
//
// # API Endpoints
//
//   - GET /books: every record, as a JSON array
//   - POST /books: create from Fields; the response carries the assigned id
//   - PUT /books/{id}: replace all fields of a record
//   - DELETE /books/{id}: remove a record
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json (and Content-Type when a body is sent)
//   - Include User-Agent: shelf/0.1
//   - Have a 5-second timeout unless Options.Timeout says otherwise
//   - Wait on a token-bucket limiter when Options.RequestsPerSecond is set
//
// # Error Handling
//
// Every failure is a *Error carrying one of three kinds:
//
//   - KindTransport: connection failures, 5xx and other unexpected statuses,
//     undecodable bodies
//   - KindNotFound: HTTP 404, the id is unknown to the store
//   - KindValidation: HTTP 400/409/422, the store rejected the payload
//
// Callers match with errors.Is against ErrTransport, ErrNotFound and
// ErrValidation, or use Reason for a short tag.
//
// GET, PUT and DELETE are retried up to Options.Retries times on transport
// failures with doubling backoff. POST is never retried because it is not
// idempotent.
//
// # IDs
//
// IDs are opaque strings. JSON numbers are accepted on decode so that
// json-server style backends with numeric ids work unchanged.
package catalog

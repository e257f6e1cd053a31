// Package devserver is a development backend for Shelf.
//
// It serves the book collection contract from a catalog.MemoryStore:
//
//	GET    /books        JSON array of records
//	POST   /books        create, 201 with the stored record
//	PUT    /books/{id}   replace fields, 200 with the stored record
//	DELETE /books/{id}   204
//	GET    /healthz      liveness
//
// Unknown ids answer 404, payloads the store rejects answer 422 with
// {"error": ..., "fields": [...]}, and malformed JSON answers 400. Data lives
// in memory only; LoadSeed reads an optional starting set.
package devserver

// Package reqctx carries request-scoped metadata from the HTTP layer into
// services.
//
// The request-id middleware stores a RequestMeta on the request context;
// services read it back to tag their log lines:
//
//	if rid := reqctx.RequestIDFromContext(ctx); rid != "" {
//	    log = log.With("request_id", rid)
//	}
//
// Context keys are unexported so only this package can set them.
package reqctx

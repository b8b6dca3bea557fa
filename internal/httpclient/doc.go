// Package httpclient is the authenticated JSON client used by every call to
// the recipe backend.
//
// # Overview
//
// Client owns the bearer token for the session. It loads the token from a
// keystore.Store once at construction, attaches it to every request while it
// is set, and mirrors every change back to the store before SetToken returns.
//
//	store, _ := keystore.OpenFile("")
//	client, err := httpclient.New("https://example.com/api", store)
//	if err != nil {
//		return err
//	}
//
//	page, err := httpclient.GetJSON[spice.RecipePage](ctx, client, "/recipes/",
//		httpclient.Query{}.Add("page", 2).Add("page_size", pageSize))
//
// # Request Handling
//
// All requests:
//   - Build the URL as base URL + path + query string (insertion order, nil
//     values dropped)
//   - Send Content-Type: application/json unless the caller overrides it
//   - Send Authorization: Bearer <token> whenever a token is held; callers
//     cannot suppress it
//   - Carry a fresh X-Request-ID for log correlation
//   - Wait on the optional rate limiter before the token is read
//
// # Error Handling
//
// The client produces three kinds of failure:
//
//   - Transport errors ("execute request: ...") with no status
//   - *Error for any non-2xx response, with Status, URL and a best-effort
//     Detail taken from the body (see ExtractDetail)
//   - Decode errors ("decode response: ...") when a 2xx body is not JSON
//
// A 401 response clears the token from memory and storage before the error is
// returned, whether or not the caller looks at the error. Nothing is retried.
//
// # Concurrency
//
// Client is safe for concurrent use. The token is read once per request while
// headers are built; a concurrent clear only affects requests that build
// their headers afterwards.
package httpclient

// Package graph is a minimal Microsoft Graph To Do client.
//
// It covers the three read paths the bridge needs:
//   - current user profile (/me)
//   - task lists for the current user (/me/todo/lists, paged)
//   - tasks within one list (/me/todo/lists/{id}/tasks, paged)
//
// Paged collections are followed via @odata.nextLink until the server stops
// returning one; item order is preserved as returned. Every request passes
// through the caller-supplied Authenticator exactly once, so the client
// itself never touches credentials.
//
// Microsoft Graph allows roughly 10,000 requests per 10 minutes per app; a
// conservative token-bucket rate limiter sits in front of every call.
package graph

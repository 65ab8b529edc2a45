// Package services defines the [Source] interface for user record providers and implements it for randomuser.me.
//
// # Source Interface
//
// A [Source] returns a finite, ordered list of [models.Record] or an error.
// The filter store never sees wire formats: every adapter translates its provider's JSON into records.
//
// # randomuser.me Implementation
//
// [RandomUserService] calls GET /api/?results=N on the configured base URL and maps each result:
//   - login.uuid → Record.ID (a generated UUID when absent)
//   - name.first, name.last → FirstName, LastName
//   - email → Email
//   - picture.thumbnail → ThumbnailURL
//
// Outbound requests are paced with a [rate.Limiter].
//
// # Raw API Access
//
// [APIService] performs unparsed GET requests for debugging the upstream JSON.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : HTTP request failed, non-2xx status, or malformed body
package services

// Package services implements the remote catalog client.
//
// The [Catalog] interface is the boundary the resolution pipeline works
// against; [SpotifyService] is its Spotify Web API implementation. Every
// operation is a single request/response with no retries; resilience
// decisions (collapsing failures to nil outcomes, surfacing partial append
// failures) live in the tasks package above this one.
package services

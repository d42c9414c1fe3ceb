// Package session holds the signed-in identity for reel.
//
// The Store is created once at startup in the loading state, probes the
// backend once, and afterwards changes only through Login, Logout and
// Expire. LoggedIn is always derived from the user inside one locked
// snapshot.
//
// Expire is meant to be registered as the backend client's unauthorized
// hook so that a 401 or 403 anywhere signs the user out. Listeners added
// with OnSignOut or OnExpire run on the goroutine that triggered the
// transition and only when a user was actually cleared.
package session

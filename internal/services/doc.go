// package services wraps the Spotify Web API behind two small
// interfaces: [Catalog] for track search and [PlaylistService] for
// playlist creation and mutation. Credentials are passed explicitly
// and refreshed with a pure function, never through ambient state.
package services

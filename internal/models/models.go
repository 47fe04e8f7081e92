package models

// Identity is the subset of the Spotify user profile the tool consumes.
//
// Fetching an identity doubles as the credential validity probe: a decodable
// identity means the stored bearer token is still good.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Artist is a single credited artist on a track.
type Artist struct {
	Name string `json:"name"`
}

// Track is a catalog track, sourced verbatim from the top search hit.
type Track struct {
	URI         string   `json:"uri"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ExternalURL string   `json:"external_url"`
	AlbumArtURL string   `json:"album_art_url,omitempty"`
}

// ArtistNames returns the credited artist names in order.
func (t *Track) ArtistNames() []string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return names
}

// Playlist is a playlist created by this tool. Playlists are created fresh
// on every assembly run and never looked up or reused.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Outcome pairs one trimmed input line with its resolved track.
//
// A nil Track means "no match found", a terminal state for that line
// within a run; failed lines are never retried.
type Outcome struct {
	Original string `json:"original"`
	Track    *Track `json:"track"`
}

// Matched reports whether the line resolved to a catalog track.
func (o Outcome) Matched() bool {
	return o.Track != nil
}

// ResultSet holds the ordered outcomes of a single resolution run.
//
// Outcomes appear in input order, one per work-list entry. The set is
// append-only while a run is in flight and replaced wholesale by the next run.
type ResultSet struct {
	RunID    string    `json:"run_id"`
	Outcomes []Outcome `json:"outcomes"`
}

// Append adds an outcome to the end of the set.
func (rs *ResultSet) Append(o Outcome) {
	rs.Outcomes = append(rs.Outcomes, o)
}

// Len returns the number of outcomes recorded so far.
func (rs *ResultSet) Len() int {
	return len(rs.Outcomes)
}

// MatchedCount returns the number of outcomes with a resolved track.
func (rs *ResultSet) MatchedCount() int {
	count := 0
	for _, o := range rs.Outcomes {
		if o.Matched() {
			count++
		}
	}
	return count
}

// TrackURIs returns the URIs of all matched tracks in input order.
func (rs *ResultSet) TrackURIs() []string {
	uris := make([]string, 0, len(rs.Outcomes))
	for _, o := range rs.Outcomes {
		if o.Matched() {
			uris = append(uris, o.Track.URI)
		}
	}
	return uris
}

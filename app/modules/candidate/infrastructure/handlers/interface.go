package candidatehandlers

import "net/http"

// Handlers serves the candidate roster over HTTP.
type Handlers interface {
	HandleHTTPListCandidates(w http.ResponseWriter, r *http.Request)
	HandleHTTPGetCandidate(w http.ResponseWriter, r *http.Request)
	HandleHTTPUpdateCandidate(w http.ResponseWriter, r *http.Request)
}

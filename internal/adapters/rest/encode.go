package rest

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

// intentDTO is the wire shape of a parsed intent. Fields that do not
// apply to a variant are omitted.
type intentDTO struct {
	Kind       string     `json:"kind"`
	Confidence float64    `json:"confidence"`
	RawText    string     `json:"raw_text"`
	Target     *targetDTO `json:"target,omitempty"`
	Seconds    int        `json:"seconds,omitempty"`
	Number     int        `json:"number,omitempty"`
	Direction  string     `json:"direction,omitempty"`
	Speed      float64    `json:"speed,omitempty"`
	Query      string     `json:"query,omitempty"`
	Scope      string     `json:"scope,omitempty"`
	Name       string     `json:"name,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

type targetDTO struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Episode string `json:"episode,omitempty"`
	Number  int    `json:"number,omitempty"`
}

func encodeIntent(intent domain.Intent) intentDTO {
	dto := intentDTO{
		Kind:       domain.Kind(intent),
		Confidence: intent.Meta().Confidence,
		RawText:    intent.Meta().RawText,
	}

	switch v := intent.(type) {
	case domain.Play:
		dto.Target = encodeTarget(v.Target)
	case domain.SkipForward:
		dto.Seconds = v.Seconds
	case domain.SkipBackward:
		dto.Seconds = v.Seconds
	case domain.SeekTo:
		dto.Seconds = v.Seconds
	case domain.JumpToChapter:
		dto.Number = v.Number
		dto.Direction = string(v.Direction)
	case domain.SetSpeed:
		dto.Speed = v.Value
	case domain.SearchQuery:
		dto.Query = v.Query
		dto.Scope = string(v.Scope)
	case domain.Subscribe:
		dto.Name = v.PodcastName
	case domain.Unsubscribe:
		dto.Name = v.PodcastName
	case domain.Unrecognized:
		dto.Reason = v.Reason
	}

	return dto
}

func encodeTarget(target domain.PlayTarget) *targetDTO {
	switch t := target.(type) {
	case domain.ResumeLast:
		return &targetDTO{Type: "resume_last"}
	case domain.LatestEpisode:
		return &targetDTO{Type: "latest_episode", Name: t.PodcastName}
	case domain.EpisodeByNumber:
		return &targetDTO{Type: "episode_by_number", Number: t.Number, Name: t.PodcastName}
	case domain.EpisodeByName:
		return &targetDTO{Type: "episode_by_name", Episode: t.EpisodeName, Name: t.PodcastName}
	case domain.PodcastByName:
		return &targetDTO{Type: "podcast_by_name", Name: t.Name}
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func isJSONContentType(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

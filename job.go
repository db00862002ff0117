package pressroom

import (
	"strings"
	"time"
)

// JobStatus is the lifecycle state of an ingestion job.
type JobStatus string

// JobStatus constants, in pipeline order.
const (
	JobPending      JobStatus = "pending"
	JobParsing      JobStatus = "parsing"
	JobAIProcessing JobStatus = "ai_processing"
	JobTranslating  JobStatus = "translating"
	JobImages       JobStatus = "images"
	JobReady        JobStatus = "ready"
	JobFailed       JobStatus = "failed"
	JobPublished    JobStatus = "published"
)

// jobTransitions lists the forward transitions allowed from each status.
// Every non-terminal status may also transition to JobFailed.
var jobTransitions = map[JobStatus][]JobStatus{
	JobPending:      {JobParsing},
	JobParsing:      {JobAIProcessing},
	JobAIProcessing: {JobTranslating},
	JobTranslating:  {JobImages},
	JobImages:       {JobReady},
	JobReady:        {JobPublished},
}

// Terminal reports whether no automatic transition leaves s.
func (s JobStatus) Terminal() bool {
	return s == JobReady || s == JobFailed || s == JobPublished
}

// CanTransition reports whether a job in status s may move to next.
func (s JobStatus) CanTransition(next JobStatus) bool {
	if next == JobFailed {
		return !s.Terminal()
	}
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ContentStyle is the editorial style tag attached to a job.
type ContentStyle string

// ContentStyle constants.
const (
	StyleNews      ContentStyle = "news"
	StyleReview    ContentStyle = "review"
	StyleExplainer ContentStyle = "explainer"
	StyleOpinion   ContentStyle = "opinion"
)

// Valid reports whether s is a known style.
func (s ContentStyle) Valid() bool {
	switch s {
	case StyleNews, StyleReview, StyleExplainer, StyleOpinion:
		return true
	}
	return false
}

// MaxSourceURLs is the most source URLs a job may carry.
const MaxSourceURLs = 5

// TextURLScheme prefixes the pseudo-URL assigned to text submissions.
const TextURLScheme = "text:"

// Job is one ingestion request's lifecycle record. Jobs are owned by the
// job orchestrator; callers receive copies and never mutate them.
type Job struct {
	ID           string       `json:"id"`
	URL          string       `json:"url"`
	SourceURLs   []string     `json:"sourceUrls"`
	SourceText   string       `json:"sourceText,omitempty"`
	Status       JobStatus    `json:"status"`
	Progress     int          `json:"progress"`
	StartTime    time.Time    `json:"startTime"`
	EndTime      time.Time    `json:"endTime,omitzero"`
	Error        string       `json:"error,omitempty"`
	ErrorCode    string       `json:"errorCode,omitempty"`
	Article      *Article     `json:"article,omitempty"`
	ContentStyle ContentStyle `json:"contentStyle"`
	Category     Category     `json:"category,omitempty"`
}

// Clone returns a deep copy of the job.
func (j *Job) Clone() *Job {
	other := *j
	other.SourceURLs = append([]string(nil), j.SourceURLs...)
	if j.Article != nil {
		other.Article = j.Article.Clone()
	}
	return &other
}

// IsText reports whether the job was submitted as raw text.
func (j *Job) IsText() bool {
	return strings.HasPrefix(j.URL, TextURLScheme)
}

// Submission is a request to ingest a URL or a raw text document.
// Exactly one of URL and Content must be set.
type Submission struct {
	URL          string       `json:"url,omitempty"`
	Title        string       `json:"title,omitempty"`
	Content      string       `json:"content,omitempty"`
	Category     Category     `json:"category,omitempty"`
	ContentStyle ContentStyle `json:"contentStyle,omitempty"`
	SourceURLs   []string     `json:"sourceUrls,omitempty"`
	SourceText   string       `json:"sourceText,omitempty"`
}

// Validate returns an EINVALID error if the submission is malformed.
func (s *Submission) Validate() error {
	hasURL := strings.TrimSpace(s.URL) != ""
	hasContent := strings.TrimSpace(s.Content) != ""
	switch {
	case hasURL && hasContent:
		return Errorf(EINVALID, "submission must contain a URL or content, not both")
	case !hasURL && !hasContent:
		return Errorf(EINVALID, "submission URL or content required")
	}
	if s.Category != "" && !s.Category.Valid() {
		return Errorf(EINVALID, "unknown category %q", s.Category)
	}
	if s.ContentStyle != "" && !s.ContentStyle.Valid() {
		return Errorf(EINVALID, "unknown content style %q", s.ContentStyle)
	}
	return nil
}

// NormalizeSourceURLs trims, deduplicates and caps a list of source URLs,
// preserving order. primary, if non-empty, is placed first.
func NormalizeSourceURLs(primary string, urls []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range append([]string{primary}, urls...) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) == MaxSourceURLs {
			break
		}
	}
	return out
}

// JobEventType describes what happened to a job.
type JobEventType string

// JobEventType constants.
const (
	JobCreated JobEventType = "created"
	JobUpdated JobEventType = "updated"
	JobRemoved JobEventType = "removed"
)

// JobEvent is published on every job state change. Job is a snapshot taken
// at the time of the change.
type JobEvent struct {
	Type JobEventType
	Job  *Job
	Time time.Time
}

// FailureCategory names the cause category shown to users for an error code.
func FailureCategory(code string) string {
	switch code {
	case ETIMEOUT:
		return "timeout"
	case ENETWORK:
		return "network"
	case EINVALID:
		return "validation"
	case ECANCELED:
		return "aborted"
	case ENOTFOUND:
		return "not found"
	default:
		return "internal"
	}
}

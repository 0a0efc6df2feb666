package contracts

import (
	"maps"
	"slices"
)

// GitHubCheckConclusion is a GitHub check-run conclusion.
type GitHubCheckConclusion string

const (
	GitHubSuccess GitHubCheckConclusion = "success"
	GitHubNeutral GitHubCheckConclusion = "neutral"
	GitHubFailure GitHubCheckConclusion = "failure"
	GitHubSkipped GitHubCheckConclusion = "skipped"
)

var githubConclusionValues = []GitHubCheckConclusion{GitHubSuccess, GitHubNeutral, GitHubFailure, GitHubSkipped}

func IsGitHubCheckConclusion(v any) bool { return member(githubConclusionValues, v) }

var githubCheckConclusions = map[RunConclusion]GitHubCheckConclusion{
	ConclusionPass:    GitHubSuccess,
	ConclusionWarn:    GitHubNeutral,
	ConclusionFail:    GitHubFailure,
	ConclusionError:   GitHubFailure,
	ConclusionSkipped: GitHubSkipped,
}

// GitHubCheckConclusionMap returns a copy of the run conclusion to GitHub
// check conclusion table.
func GitHubCheckConclusionMap() map[RunConclusion]GitHubCheckConclusion {
	return maps.Clone(githubCheckConclusions)
}

// MapRunConclusionToGitHub maps a run conclusion to a GitHub check conclusion.
// Anything not in the table reports as failure.
func MapRunConclusionToGitHub(c RunConclusion) GitHubCheckConclusion {
	if g, ok := githubCheckConclusions[c]; ok {
		return g
	}
	return GitHubFailure
}

type AnnotationLevel string

const (
	AnnotationNotice  AnnotationLevel = "notice"
	AnnotationWarning AnnotationLevel = "warning"
	AnnotationFailure AnnotationLevel = "failure"
)

var annotationLevels = []AnnotationLevel{AnnotationNotice, AnnotationWarning, AnnotationFailure}

func AnnotationLevels() []AnnotationLevel { return slices.Clone(annotationLevels) }
func (l AnnotationLevel) Valid() bool     { return slices.Contains(annotationLevels, l) }
func IsAnnotationLevel(v any) bool        { return member(annotationLevels, v) }

// AnnotationLevelFor picks the annotation level GitHub shows for a finding.
func AnnotationLevelFor(s FindingSeverity) AnnotationLevel {
	switch {
	case s.AtLeast(SeverityHigh):
		return AnnotationFailure
	case s == SeverityMedium:
		return AnnotationWarning
	}
	return AnnotationNotice
}

type GitHubCheckAnnotation struct {
	Path            string          `json:"path"`
	StartLine       int             `json:"start_line"`
	EndLine         int             `json:"end_line"`
	AnnotationLevel AnnotationLevel `json:"annotation_level"`
	Message         string          `json:"message"`
}

type GitHubCheckPayload struct {
	Name        string                  `json:"name"`
	HeadSHA     string                  `json:"head_sha"`
	Conclusion  GitHubCheckConclusion   `json:"conclusion"`
	Summary     string                  `json:"summary"`
	Text        *string                 `json:"text,omitempty"`
	Annotations []GitHubCheckAnnotation `json:"annotations"`
}

// GitHubCommentPayload is a sticky PR comment; MarkerID identifies the
// comment to update on later runs.
type GitHubCommentPayload struct {
	MarkerID string `json:"marker_id"`
	Body     string `json:"body"`
	PRNumber int    `json:"pr_number"`
}

type ReporterOutput struct {
	Check     *GitHubCheckPayload   `json:"check,omitempty"`
	Comment   *GitHubCommentPayload `json:"comment,omitempty"`
	Artifacts []Artifact            `json:"artifacts"`
}

// Annotations converts findings that carry a file into check annotations,
// in input order. Findings without a line are annotated on line 1.
func Annotations(findings []Finding) []GitHubCheckAnnotation {
	out := make([]GitHubCheckAnnotation, 0, len(findings))
	for _, f := range findings {
		if f.File == nil || *f.File == "" {
			continue
		}
		line := 1
		if f.Line != nil && *f.Line > 0 {
			line = *f.Line
		}
		out = append(out, GitHubCheckAnnotation{
			Path:            *f.File,
			StartLine:       line,
			EndLine:         line,
			AnnotationLevel: AnnotationLevelFor(f.Severity),
			Message:         f.Message,
		})
	}
	return out
}

func checkGitHubCheckAnnotation(c *checker) {
	c.str("path")
	c.count("start_line")
	c.count("end_line")
	c.required("annotation_level", "annotation level", IsAnnotationLevel)
	c.str("message")
}

func checkGitHubCheckPayload(c *checker) {
	c.str("name")
	c.str("head_sha")
	c.required("conclusion", "GitHub check conclusion", IsGitHubCheckConclusion)
	c.str("summary")
	c.optStr("text")
	c.list("annotations", checkGitHubCheckAnnotation)
}

func checkGitHubCommentPayload(c *checker) {
	c.str("marker_id")
	c.str("body")
	c.count("pr_number")
}

func checkReporterOutput(c *checker) {
	c.optNested("check", checkGitHubCheckPayload)
	c.optNested("comment", checkGitHubCommentPayload)
	c.list("artifacts", checkArtifact)
}

func CheckReporterOutput(v any) error {
	return check("reporter_output", v, checkReporterOutput)
}

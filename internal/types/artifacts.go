package types

// ArtifactKind identifies one of the four generated artifacts.
type ArtifactKind string

// Artifact kinds produced by the generation pipeline.
const (
	KindAnalysis       ArtifactKind = "analysis"
	KindTailoredResume ArtifactKind = "tailored_resume"
	KindCoverLetter    ArtifactKind = "cover_letter"
	KindSuggestions    ArtifactKind = "suggestions"
)

// AllKinds returns every artifact kind in presentation order.
func AllKinds() []ArtifactKind {
	return []ArtifactKind{KindAnalysis, KindTailoredResume, KindCoverLetter, KindSuggestions}
}

// Valid reports whether k is a known artifact kind.
func (k ArtifactKind) Valid() bool {
	switch k {
	case KindAnalysis, KindTailoredResume, KindCoverLetter, KindSuggestions:
		return true
	}
	return false
}

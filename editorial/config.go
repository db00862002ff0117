package editorial

import "time"

// Config holds the gate's calibration. The quality score constants are an
// empirical starting point and are expected to be tuned.
type Config struct {
	// Heuristic quality score.
	BaseScore          int
	MaxStructureBonus  int
	StructurePerPara   int
	MaxLengthBonus     int
	LengthUnit         int
	MaxArtifactPenalty int
	ArtifactPenalty    int
	MinScore           int
	MaxScore           int

	// AI rewrite triggers. The rewrite runs when either artifact score
	// reaches ArtifactThreshold or a length exceeds its threshold.
	ArtifactThreshold    int
	RawLengthThreshold   int
	CleanLengthThreshold int

	// MaxAIContentLength caps the characters of body sent to the model.
	MaxAIContentLength int

	// AITimeout bounds a single rewrite call.
	AITimeout time.Duration

	// TitleIssuePenalty is subtracted from the model's score per title
	// policy issue, up to MaxTitlePenalty.
	TitleIssuePenalty int
	MaxTitlePenalty   int

	// MaxIssues caps the issues returned with a result.
	MaxIssues int
}

// DefaultConfig returns the default calibration.
func DefaultConfig() Config {
	return Config{
		BaseScore:          62,
		MaxStructureBonus:  15,
		StructurePerPara:   3,
		MaxLengthBonus:     18,
		LengthUnit:         250,
		MaxArtifactPenalty: 45,
		ArtifactPenalty:    3,
		MinScore:           10,
		MaxScore:           98,

		ArtifactThreshold:    6,
		RawLengthThreshold:   9000,
		CleanLengthThreshold: 6500,

		MaxAIContentLength: 12000,
		AITimeout:          45 * time.Second,

		TitleIssuePenalty: 8,
		MaxTitlePenalty:   20,

		MaxIssues: 8,
	}
}
